package service

import (
	"context"
	"testing"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	checkouts []entity.CheckoutRequest
	cancelled []string
	err       error
	event     *entity.WebhookEvent
}

func (g *fakeGateway) CreateCheckoutSession(_ context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.checkouts = append(g.checkouts, req)
	return &entity.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
}

func (g *fakeGateway) CancelAtPeriodEnd(_ context.Context, subscriptionID string) (*entity.Subscription, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.cancelled = append(g.cancelled, subscriptionID)
	return &entity.Subscription{ID: subscriptionID, Status: "active", CancelAtPeriodEnd: true}, nil
}

func (g *fakeGateway) ParseWebhook([]byte, string) (*entity.WebhookEvent, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.event, nil
}

func TestPaymentService_Plans(t *testing.T) {
	svc := NewPaymentService(&fakeGateway{})

	all := svc.Plans()
	require.Len(t, all, 4)
	for id, plan := range all {
		assert.Empty(t, plan.ID, id)
		assert.Len(t, plan.Features, 6, id)
	}
	assert.EqualValues(t, 0, all["free"].Price)
	assert.EqualValues(t, 499, all["standard"].Price)
	assert.EqualValues(t, 999, all["premium"].Price)
	assert.EqualValues(t, 1499, all["custom"].Price)

	all["free"].Name = "changed"
	assert.Equal(t, "Free Plan", svc.Plans()["free"].Name)

	plan, err := svc.FindPlan("premium")
	require.NoError(t, err)
	assert.Equal(t, "premium", plan.ID)

	_, err = svc.FindPlan("gold")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentService_CheckoutFreePlan(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewPaymentService(gateway)

	session, err := svc.Checkout(context.Background(), "https://campus.example", CheckoutInput{Plan: "free"})
	require.NoError(t, err)
	assert.Equal(t, "/success.html?plan=free", session.RedirectURL)
	assert.Empty(t, session.URL)
	assert.Empty(t, gateway.checkouts)
}

func TestPaymentService_CheckoutPaidPlan(t *testing.T) {
	gateway := &fakeGateway{}
	svc := NewPaymentService(gateway)

	session, err := svc.Checkout(context.Background(), "https://campus.example", CheckoutInput{Plan: "standard"})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", session.ID)

	require.Len(t, gateway.checkouts, 1)
	req := gateway.checkouts[0]
	assert.Equal(t, "standard", req.Plan.ID)
	assert.Equal(t, "anonymous", req.UserID)
	assert.Equal(t, "https://campus.example/success.html?plan=standard&session_id={CHECKOUT_SESSION_ID}", req.SuccessURL)
	assert.Equal(t, "https://campus.example/plans.html?cancelled=true", req.CancelURL)

	_, err = svc.Checkout(context.Background(), "https://campus.example", CheckoutInput{Plan: "premium", UserID: "u42"})
	require.NoError(t, err)
	assert.Equal(t, "u42", gateway.checkouts[1].UserID)
}

func TestPaymentService_CheckoutErrors(t *testing.T) {
	ctx := context.Background()

	_, err := NewPaymentService(&fakeGateway{}).Checkout(ctx, "", CheckoutInput{Plan: "gold"})
	assert.ErrorIs(t, err, ErrInvalidPlan)

	_, err = NewPaymentService(&fakeGateway{err: ErrPaymentNotConfigured}).Checkout(ctx, "", CheckoutInput{Plan: "custom"})
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)
}

func TestPaymentService_HandleWebhook(t *testing.T) {
	ctx := context.Background()
	event := &entity.WebhookEvent{ID: "evt_1", Type: "invoice.payment_failed", ObjectID: "in_1"}

	got, err := NewPaymentService(&fakeGateway{event: event}).HandleWebhook(ctx, []byte(`{}`), "sig")
	require.NoError(t, err)
	assert.Equal(t, event, got)

	_, err = NewPaymentService(&fakeGateway{err: ErrInvalidWebhook}).HandleWebhook(ctx, []byte(`{}`), "sig")
	assert.ErrorIs(t, err, ErrInvalidWebhook)
}

func TestPaymentService_SubscriptionStatus(t *testing.T) {
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := NewPaymentService(&fakeGateway{})
	svc.now = func() time.Time { return now }

	sub := svc.SubscriptionStatus(context.Background(), "u1")
	assert.Equal(t, "active", sub.Status)
	assert.Equal(t, "premium", sub.Plan)
	assert.False(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, now.Add(30*24*time.Hour), sub.CurrentPeriodEnd)
}

func TestPaymentService_CancelSubscription(t *testing.T) {
	ctx := context.Background()
	gateway := &fakeGateway{}
	svc := NewPaymentService(gateway)

	_, err := svc.CancelSubscription(ctx, CancelInput{})
	msgs := fieldMessages(t, err)
	assert.Equal(t, "Subscription id is required", msgs["subscriptionId"])
	assert.Empty(t, gateway.cancelled)

	sub, err := svc.CancelSubscription(ctx, CancelInput{SubscriptionID: "sub_1"})
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, []string{"sub_1"}, gateway.cancelled)

	_, err = NewPaymentService(&fakeGateway{err: ErrPaymentNotConfigured}).CancelSubscription(ctx, CancelInput{SubscriptionID: "sub_1"})
	assert.ErrorIs(t, err, ErrPaymentNotConfigured)
}
