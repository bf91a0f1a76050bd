package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/repository"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

var (
	ErrPaymentNotConfigured = repository.ErrPaymentNotConfigured
	ErrInvalidWebhook       = repository.ErrInvalidWebhook
	ErrInvalidPlan          = errors.New("invalid plan selected")
)

type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, req entity.CheckoutRequest) (*entity.CheckoutSession, error)
	CancelAtPeriodEnd(ctx context.Context, subscriptionID string) (*entity.Subscription, error)
	ParseWebhook(payload []byte, signature string) (*entity.WebhookEvent, error)
}

var plans = []*entity.Plan{
	{
		ID:    "free",
		Name:  "Free Plan",
		Price: 0,
		Features: []string{
			"Access to general announcements",
			"View upcoming events",
			"Free event registrations",
			"Basic profile",
			"Join public groups",
			"Community forum access",
		},
	},
	{
		ID:    "standard",
		Name:  "Standard Plan",
		Price: 499,
		Features: []string{
			"Everything in Free",
			"Priority event registration",
			"Exclusive workshop access",
			"Unlimited committee membership",
			"Advanced profile customization",
			"Direct messaging",
		},
	},
	{
		ID:    "premium",
		Name:  "Premium Plan",
		Price: 999,
		Features: []string{
			"Everything in Standard",
			"VIP event access",
			"1-on-1 mentorship sessions",
			"Career guidance",
			"Premium badges",
			"Event organizing privileges",
		},
	},
	{
		ID:    "custom",
		Name:  "Custom Plan",
		Price: 1499,
		Features: []string{
			"Everything in Premium",
			"Custom committee creation",
			"Dedicated support",
			"Analytics dashboard",
			"Custom integrations",
			"White-label solutions",
		},
	},
}

const subscriptionPeriod = 30 * 24 * time.Hour

type PaymentService struct {
	gateway PaymentGateway
	now     func() time.Time
}

func NewPaymentService(gateway PaymentGateway) *PaymentService {
	return &PaymentService{
		gateway: gateway,
		now:     time.Now,
	}
}

func (s *PaymentService) Plans() map[string]*entity.Plan {
	m := make(map[string]*entity.Plan, len(plans))
	for _, p := range plans {
		plan := *p
		plan.ID = ""
		m[p.ID] = &plan
	}
	return m
}

func (s *PaymentService) FindPlan(ID string) (*entity.Plan, error) {
	i := slices.IndexFunc(plans, func(p *entity.Plan) bool { return p.ID == ID })
	if i < 0 {
		return nil, ErrPlanNotFound
	}
	plan := *plans[i]
	return &plan, nil
}

type CheckoutInput struct {
	Plan   string `json:"plan"`
	UserID string `json:"userId"`
}

// Checkout starts a subscription. Free plans skip the gateway and get a relative
// redirect to the success page. baseURL is the scheme and host the provider sends
// the browser back to.
func (s *PaymentService) Checkout(ctx context.Context, baseURL string, input CheckoutInput) (*entity.CheckoutSession, error) {
	plan, err := s.FindPlan(input.Plan)
	if err != nil {
		return nil, ErrInvalidPlan
	}

	successPath := "/success.html?plan=" + url.QueryEscape(plan.ID)
	if plan.IsFree() {
		return &entity.CheckoutSession{RedirectURL: successPath}, nil
	}

	userID := input.UserID
	if userID == "" {
		userID = "anonymous"
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, entity.CheckoutRequest{
		Plan:       plan,
		UserID:     userID,
		SuccessURL: baseURL + successPath + "&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  baseURL + "/plans.html?cancelled=true",
	})
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("plan", plan.ID).Msg("Error creating checkout session")
		return nil, err
	}
	return session, nil
}

// HandleWebhook verifies a gateway notification and reacts to the event types we care about.
func (s *PaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) (*entity.WebhookEvent, error) {
	event, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("webhookId", event.ID).Str("object", event.ObjectID).Logger()
	switch event.Type {
	case "checkout.session.completed":
		logger.Info().Msg("Payment successful")
	case "invoice.payment_succeeded":
		logger.Info().Msg("Subscription payment succeeded")
	case "invoice.payment_failed":
		logger.Warn().Msg("Subscription payment failed")
	default:
		logger.Debug().Str("type", event.Type).Msg("Unhandled webhook event")
	}
	return event, nil
}

// SubscriptionStatus is a placeholder until subscriptions are persisted.
func (s *PaymentService) SubscriptionStatus(ctx context.Context, userID string) *entity.Subscription {
	zerolog.Ctx(ctx).Debug().Str("userId", userID).Msg("Serving placeholder subscription")
	return &entity.Subscription{
		Status:            "active",
		Plan:              "premium",
		CancelAtPeriodEnd: false,
		CurrentPeriodEnd:  s.now().Add(subscriptionPeriod),
	}
}

type CancelInput struct {
	SubscriptionID string `json:"subscriptionId" validate:"required" label:"Subscription id"`
}

func (s *PaymentService) CancelSubscription(ctx context.Context, input CancelInput) (*entity.Subscription, error) {
	if err := helpers.Validate(input); err != nil {
		return nil, err
	}

	subscription, err := s.gateway.CancelAtPeriodEnd(ctx, input.SubscriptionID)
	if err != nil {
		if !errors.Is(err, ErrPaymentNotConfigured) {
			zerolog.Ctx(ctx).Error().Err(err).Str("subscriptionId", input.SubscriptionID).Msg("Error canceling subscription")
		}
		return nil, err
	}
	return subscription, nil
}
