package repository

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_test_secret"

func signPayload(payload []byte, secret string, at time.Time) string {
	ts := fmt.Sprintf("%d", at.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(ts))
	mac.Write([]byte("."))
	mac.Write(payload)
	return fmt.Sprintf("t=%s,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func TestStripeRepository_ParseWebhook(t *testing.T) {
	r := NewStripeRepository("", testWebhookSecret)
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_test_1","object":"checkout.session"}}}`)

	event, err := r.ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "cs_test_1", event.ObjectID)

	_, err = r.ParseWebhook(payload, signPayload(payload, "whsec_other", time.Now()))
	assert.ErrorIs(t, err, ErrInvalidWebhook)

	_, err = r.ParseWebhook(payload, signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour)))
	assert.ErrorIs(t, err, ErrInvalidWebhook)
}

func TestStripeRepository_NotConfigured(t *testing.T) {
	ctx := context.Background()
	r := NewStripeRepository("", "")

	_, err := r.ParseWebhook([]byte(`{}`), "t=1,v1=00")
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)

	_, err = r.CreateCheckoutSession(ctx, entity.CheckoutRequest{Plan: &entity.Plan{ID: "standard", Name: "Standard Plan", Price: 499}})
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)

	_, err = r.CancelAtPeriodEnd(ctx, "sub_1")
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)
}
