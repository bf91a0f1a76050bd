package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/repository"
	"github.com/klauspost/lctime"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var ErrEmailNotConfigured = repository.ErrEmailNotConfigured

type EmailSender interface {
	Send(ctx context.Context, msg entity.EmailMessage) (*entity.EmailDelivery, error)
}

const (
	broadcastConcurrency = 5
	notificationTimeout  = 15 * time.Second
)

var (
	registrationTmpl = template.Must(template.New("registration").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>We received your registration for <b>{{.EventTitle}}</b> on {{.Date}}.</p>` +
			`<p>Status: <b>{{.Status}}</b></p>` +
			`<p>Registration id: <code>{{.ID}}</code></p>`))

	statusTmpl = template.Must(template.New("status").Parse(
		`<p>Hi {{.Name}},</p>` +
			`<p>Your registration for <b>{{.EventTitle}}</b> is now <b>{{.Status}}</b>.</p>`))
)

type notificationData struct {
	ID         string
	Name       string
	EventTitle string
	Date       string
	Status     string
}

// NotificationService emails registrants. It implements RegistrationNotifier.
type NotificationService struct {
	sender          EmailSender
	eventService    *EventService
	notify          bool
	euResidency     bool
	locale          string
	titleCaser      cases.Caser
	sendsInProgress chan struct{}
}

func NewNotificationService(sender EmailSender, eventService *EventService, notifyRegistrants, euResidency bool) *NotificationService {
	return &NotificationService{
		sender:          sender,
		eventService:    eventService,
		notify:          notifyRegistrants,
		euResidency:     euResidency,
		locale:          "en_US",
		titleCaser:      cases.Title(language.English),
		sendsInProgress: make(chan struct{}, broadcastConcurrency),
	}
}

// Send delivers one message right away.
func (s *NotificationService) Send(ctx context.Context, msg entity.EmailMessage) (*entity.EmailDelivery, error) {
	if err := helpers.Validate(msg); err != nil {
		return nil, err
	}
	return s.sender.Send(ctx, msg)
}

type BroadcastInput struct {
	Subject string                    `json:"subject" validate:"required" label:"Subject"`
	HTML    string                    `json:"html" validate:"required" label:"Body"`
	Status  entity.RegistrationStatus `json:"status" validate:"omitempty,oneof=pending approved rejected" label:"Status"`
}

type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Broadcast emails every registrant of an event, optionally only those with input.Status.
func (s *NotificationService) Broadcast(ctx context.Context, eventID string, input BroadcastInput) (*BroadcastResult, error) {
	if err := helpers.Validate(input); err != nil {
		return nil, err
	}

	registrations, err := s.eventService.ListRegistrationsForEvent(ctx, eventID, input.Status)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx)
	failures := make([]bool, len(registrations))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(broadcastConcurrency)
	for i, registration := range registrations {
		g.Go(func() error {
			_, err := s.sender.Send(gctx, entity.EmailMessage{
				To:          registration.RegistrantEmail,
				Subject:     input.Subject,
				HTML:        input.HTML,
				EUResidency: s.euResidency,
			})
			if errors.Is(err, ErrEmailNotConfigured) {
				return err
			}
			if err != nil {
				logger.Warn().Err(err).Str("registrationId", registration.ID).Msg("Error sending broadcast email")
				failures[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &BroadcastResult{}
	for _, failed := range failures {
		if failed {
			result.Failed++
		} else {
			result.Sent++
		}
	}
	return result, nil
}

func (s *NotificationService) RegistrationReceived(ctx context.Context, registration *entity.Registration) {
	s.sendAsync(ctx, registration, "Registration received: "+registration.EventTitle, registrationTmpl)
}

func (s *NotificationService) StatusChanged(ctx context.Context, registration *entity.Registration) {
	s.sendAsync(ctx, registration, "Registration "+string(registration.Status)+": "+registration.EventTitle, statusTmpl)
}

func (s *NotificationService) render(tmpl *template.Template, registration *entity.Registration) (string, error) {
	date, err := lctime.StrftimeLoc(s.locale, "%A, %d %B %Y %H:%M", registration.RegistrationDate)
	if err != nil {
		date = registration.RegistrationDate.Format(time.RFC1123)
	}

	var b bytes.Buffer
	err = tmpl.Execute(&b, notificationData{
		ID:         registration.ID,
		Name:       s.titleCaser.String(registration.RegistrantName),
		EventTitle: registration.EventTitle,
		Date:       date,
		Status:     string(registration.Status),
	})
	if err != nil {
		return "", fmt.Errorf("render %s email: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

// sendAsync never blocks the request. When every slot is busy the email is dropped.
func (s *NotificationService) sendAsync(ctx context.Context, registration *entity.Registration, subject string, tmpl *template.Template) {
	if !s.notify {
		return
	}

	html, err := s.render(tmpl, registration)
	if err != nil {
		log.Error().Err(err).Msg("Error rendering notification")
		return
	}

	select {
	case s.sendsInProgress <- struct{}{}:
	default:
		log.Warn().Str("registrationId", registration.ID).Msg("Notification dropped, too many in flight")
		return
	}

	go func() {
		defer func() { <-s.sendsInProgress }()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
		defer cancel()

		_, err := s.sender.Send(ctx, entity.EmailMessage{
			To:          registration.RegistrantEmail,
			Subject:     subject,
			HTML:        html,
			EUResidency: s.euResidency,
		})
		if err != nil {
			log.Warn().Err(err).Str("registrationId", registration.ID).Msg("Error sending notification")
		}
	}()
}
