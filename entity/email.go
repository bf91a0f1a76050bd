package entity

type EmailMessage struct {
	To          string `json:"to" validate:"email" label:"recipient email"`
	Subject     string `json:"subject" validate:"required" label:"Subject"`
	HTML        string `json:"html" validate:"required" label:"Body"`
	EUResidency bool   `json:"eu"`
}

type EmailDelivery struct {
	StatusCode int    `json:"statusCode"`
	MessageID  string `json:"messageId,omitempty"`
}
