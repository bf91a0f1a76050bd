package entity

import "time"

type Plan struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Features []string `json:"features"`
}

func (p *Plan) IsFree() bool {
	return p.Price == 0
}

// CheckoutSession is either a provider session or, for free plans, a local redirect.
type CheckoutSession struct {
	ID          string `json:"sessionId,omitempty"`
	URL         string `json:"url,omitempty"`
	RedirectURL string `json:"redirectUrl,omitempty"`
}

type Subscription struct {
	ID                string    `json:"id,omitempty"`
	Status            string    `json:"status"`
	Plan              string    `json:"plan,omitempty"`
	CancelAtPeriodEnd bool      `json:"cancel_at_period_end"`
	CurrentPeriodEnd  time.Time `json:"current_period_end"`
}

// WebhookEvent is a verified payment-provider notification.
type WebhookEvent struct {
	ID       string
	Type     string
	ObjectID string
}

type CheckoutRequest struct {
	Plan       *Plan
	UserID     string
	SuccessURL string
	CancelURL  string
}
