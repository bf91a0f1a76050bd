package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

var (
	ErrPaymentNotConfigured = errors.New("payments are not configured")
	ErrInvalidWebhook       = errors.New("invalid webhook signature")
)

const checkoutCurrency = "inr"

type StripeRepository struct {
	api           *client.API
	webhookSecret string
}

func NewStripeRepository(secretKey, webhookSecret string) *StripeRepository {
	r := &StripeRepository{webhookSecret: webhookSecret}
	if secretKey == "" {
		return r
	}

	config := &stripe.BackendConfig{
		HTTPClient:    helpers.NewHTTPClientWithLogger(80 * time.Second),
		LeveledLogger: &stripe.LeveledLogger{Level: stripe.LevelError},
	}
	r.api = client.New(secretKey, &stripe.Backends{
		API:     stripe.GetBackendWithConfig(stripe.APIBackend, config),
		Connect: stripe.GetBackendWithConfig(stripe.ConnectBackend, config),
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, config),
	})
	return r
}

func (r *StripeRepository) CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error) {
	if r.api == nil {
		return nil, fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrPaymentNotConfigured)
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(checkoutCurrency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(req.Plan.Name),
						Description: stripe.String(fmt.Sprintf("Monthly subscription for %s", req.Plan.Name)),
					},
					// Smallest currency unit.
					UnitAmount: stripe.Int64(req.Plan.Price * 100),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	params.Context = ctx
	params.AddMetadata("plan", req.Plan.ID)
	params.AddMetadata("user_id", req.UserID)

	session, err := r.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe checkout: %w", err)
	}

	return &entity.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

func (r *StripeRepository) CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*entity.Subscription, error) {
	if r.api == nil {
		return nil, fmt.Errorf("%w: STRIPE_SECRET_KEY is not set", ErrPaymentNotConfigured)
	}

	params := &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	}
	params.Context = ctx

	sub, err := r.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe cancel subscription: %w", err)
	}

	return &entity.Subscription{
		ID:                sub.ID,
		Status:            string(sub.Status),
		Plan:              sub.Metadata["plan"],
		CancelAtPeriodEnd: sub.CancelAtPeriodEnd,
		CurrentPeriodEnd:  time.Unix(sub.CurrentPeriodEnd, 0).UTC(),
	}, nil
}

// ParseWebhook verifies the Stripe-Signature header against the endpoint secret.
func (r *StripeRepository) ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error) {
	if r.webhookSecret == "" {
		return nil, fmt.Errorf("%w: STRIPE_WEBHOOK_SECRET is not set", ErrPaymentNotConfigured)
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, r.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWebhook, err)
	}

	we := &entity.WebhookEvent{
		ID:   event.ID,
		Type: string(event.Type),
	}
	if event.Data != nil {
		if id, ok := event.Data.Object["id"].(string); ok {
			we.ObjectID = id
		}
	}
	return we, nil
}
