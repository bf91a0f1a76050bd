package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrEmailNotConfigured = errors.New("email is not configured")

const (
	sendgridHost   = "https://api.sendgrid.com"
	sendgridEUHost = "https://api.eu.sendgrid.com"
	sendgridSend   = "/v3/mail/send"
)

type SendgridRepository struct {
	key    string
	from   *sgmail.Email
	client *rest.Client
}

func NewSendgridRepository(key, from string) *SendgridRepository {
	return &SendgridRepository{
		key:    key,
		from:   sgmail.NewEmail("", from),
		client: &rest.Client{HTTPClient: helpers.NewHTTPClientWithLogger(30 * time.Second)},
	}
}

func (r *SendgridRepository) configured() error {
	if !strings.HasPrefix(r.key, "SG.") {
		return fmt.Errorf("%w: SENDGRID_API_KEY must start with SG.", ErrEmailNotConfigured)
	}
	if r.from.Address == "" {
		return fmt.Errorf("%w: EMAIL_USER must be a verified sender", ErrEmailNotConfigured)
	}
	return nil
}

func (r *SendgridRepository) prepare(msg entity.EmailMessage) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = msg.Subject
	p.AddTos(sgmail.NewEmail("", msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(r.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", msg.HTML))

	return m
}

func (r *SendgridRepository) Send(ctx context.Context, msg entity.EmailMessage) (*entity.EmailDelivery, error) {
	if err := r.configured(); err != nil {
		return nil, err
	}

	host := sendgridHost
	if msg.EUResidency {
		host = sendgridEUHost
	}

	req := sendgrid.GetRequest(r.key, sendgridSend, host)
	req.Method = rest.Post
	req.Body = sgmail.GetRequestBody(r.prepare(msg))

	res, err := r.client.SendWithContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("sendgrid: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("sendgrid: status %d: %s", res.StatusCode, res.Body)
	}

	delivery := &entity.EmailDelivery{StatusCode: res.StatusCode}
	if ids := res.Headers["X-Message-Id"]; len(ids) > 0 {
		delivery.MessageID = ids[0]
	}
	return delivery, nil
}
