package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/helpers"
	"github.com/joeyave/campus-hub/repository"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

// Policy makes the degraded-mode tradeoffs explicit.
type Policy struct {
	// AllowDegradedRegistration records a registration in the fallback store with an
	// "Unknown Event" title when both the store and the fallback path fail, so public
	// registration never hard-fails once the input is valid.
	AllowDegradedRegistration bool
	// LegacyFallbackChecks skips the active and capacity checks, and the list
	// filtering and sorting, whenever the fallback store answers.
	LegacyFallbackChecks bool
}

func DefaultPolicy() Policy {
	return Policy{AllowDegradedRegistration: true}
}

// Placement tells where a write ended up.
type Placement int

const (
	PlacedInStore Placement = iota
	PlacedInFallback
	PlacedInFallbackOnError
)

// RegistrationNotifier is told about registrations after they are stored.
type RegistrationNotifier interface {
	RegistrationReceived(ctx context.Context, registration *entity.Registration)
	StatusChanged(ctx context.Context, registration *entity.Registration)
}

type EventService struct {
	primary  repository.Store
	fallback repository.Store
	policy   Policy
	notifier RegistrationNotifier
}

func NewEventService(primary, fallback repository.Store, policy Policy) *EventService {
	return &EventService{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
	}
}

func (s *EventService) SetNotifier(notifier RegistrationNotifier) {
	s.notifier = notifier
}

func (s *EventService) StoreConnected(ctx context.Context) bool {
	return s.primary.Connected(ctx)
}

type CreateEventInput struct {
	Title           string `json:"title" validate:"required" label:"Title"`
	Description     string `json:"description" validate:"required" label:"Description"`
	Date            string `json:"date" validate:"required" label:"Date"`
	Time            string `json:"time" validate:"required" label:"Time"`
	Venue           string `json:"venue"`
	Image           string `json:"image"`
	MaxParticipants int    `json:"maxParticipants"`
	IsActive        *bool  `json:"isActive"`
	CreatedBy       string `json:"createdBy"`
}

func (in CreateEventInput) event() entity.Event {
	event := entity.Event{
		Title:           in.Title,
		Description:     in.Description,
		Date:            in.Date,
		Time:            in.Time,
		Venue:           in.Venue,
		Image:           in.Image,
		MaxParticipants: in.MaxParticipants,
		IsActive:        true,
		CreatedBy:       in.CreatedBy,
	}
	if in.IsActive != nil {
		event.IsActive = *in.IsActive
	}
	if event.CreatedBy == "" {
		event.CreatedBy = entity.DefaultCreatedBy
	}
	if event.MaxParticipants <= 0 {
		event.MaxParticipants = entity.DefaultMaxParticipants
	}
	return event
}

type RegistrationInput struct {
	RegistrantName   string `json:"registrantName" validate:"required" label:"Name"`
	RegistrantEmail  string `json:"registrantEmail" validate:"email" label:"email"`
	RegistrantPhone  string `json:"registrantPhone" validate:"required" label:"Phone"`
	RegistrantClass  string `json:"registrantClass" validate:"required" label:"Class"`
	RegistrantRollNo string `json:"registrantRollNo" validate:"required" label:"Roll number"`
	RegistrantPRN    string `json:"registrantPRN" validate:"required" label:"PRN"`
}

func (in RegistrationInput) registration(eventID, eventTitle string) entity.Registration {
	return entity.Registration{
		EventID:          eventID,
		EventTitle:       eventTitle,
		RegistrantName:   in.RegistrantName,
		RegistrantEmail:  in.RegistrantEmail,
		RegistrantPhone:  in.RegistrantPhone,
		RegistrantClass:  in.RegistrantClass,
		RegistrantRollNo: in.RegistrantRollNo,
		RegistrantPRN:    in.RegistrantPRN,
	}
}

func (s *EventService) fallbackEventFilter() entity.EventFilter {
	if s.policy.LegacyFallbackChecks {
		return entity.EventFilter{}
	}
	return entity.EventFilter{ActiveOnly: true, NewestFirst: true}
}

func (s *EventService) ListEvents(ctx context.Context) ([]*entity.Event, error) {
	logger := zerolog.Ctx(ctx)

	if s.primary.Connected(ctx) {
		events, err := s.primary.FindEvents(ctx, entity.EventFilter{ActiveOnly: true, NewestFirst: true})
		if err == nil {
			return events, nil
		}
		logger.Warn().Err(err).Msg("Error fetching events, falling back to fallback store")
	} else {
		logger.Info().Msg("Using fallback store - MongoDB not connected")
	}

	return s.fallback.FindEvents(ctx, s.fallbackEventFilter())
}

// SearchEvents matches query against listed event titles, best match first.
func (s *EventService) SearchEvents(ctx context.Context, query string) ([]*entity.Event, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return events, nil
	}

	type match struct {
		event *entity.Event
		score float32
	}

	var matches []match
	for _, event := range events {
		title := strings.ToLower(event.Title)
		if strings.Contains(title, query) {
			matches = append(matches, match{event: event, score: 1})
			continue
		}
		similarity, err := edlib.StringsSimilarity(query, title, edlib.JaroWinkler)
		if err == nil && similarity >= 0.75 {
			matches = append(matches, match{event: event, score: similarity})
		}
	}

	slices.SortStableFunc(matches, func(a, b match) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return 0
	})

	found := make([]*entity.Event, 0, len(matches))
	for _, m := range matches {
		found = append(found, m.event)
	}
	return found, nil
}

func (s *EventService) GetEvent(ctx context.Context, ID string) (*entity.Event, error) {
	event, err := s.primary.FindEventByID(ctx, ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return event, nil
}

func (s *EventService) CreateEvent(ctx context.Context, input CreateEventInput) (*entity.Event, Placement, error) {
	if err := helpers.Validate(input); err != nil {
		return nil, 0, err
	}

	logger := zerolog.Ctx(ctx)
	data := input.event()
	placement := PlacedInFallback

	if s.primary.Connected(ctx) {
		event, err := s.primary.CreateEvent(ctx, data)
		if err == nil {
			return event, PlacedInStore, nil
		}
		logger.Warn().Err(err).Msg("Error creating event, falling back to fallback store")
		placement = PlacedInFallbackOnError
	} else {
		logger.Info().Msg("Creating event in fallback store - MongoDB not connected")
	}

	event, err := s.fallback.CreateEvent(ctx, data)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return event, placement, nil
}

func validatePatch(patch entity.EventPatch) error {
	required := []struct {
		field string
		label string
		value *string
	}{
		{"title", "Title", patch.Title},
		{"description", "Description", patch.Description},
		{"date", "Date", patch.Date},
		{"time", "Time", patch.Time},
	}

	verr := helpers.NewValidationError()
	for _, r := range required {
		if r.value != nil && *r.value == "" {
			verr.Fields = append(verr.Fields, helpers.FieldError{Field: r.field, Message: r.label + " is required"})
		}
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func (s *EventService) UpdateEvent(ctx context.Context, ID string, patch entity.EventPatch) (*entity.Event, error) {
	if err := validatePatch(patch); err != nil {
		return nil, err
	}

	event, err := s.primary.UpdateEvent(ctx, ID, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return event, nil
}

// DeleteEvent removes the event and every registration pointing at it.
func (s *EventService) DeleteEvent(ctx context.Context, ID string) error {
	deleted, err := s.primary.DeleteEvent(ctx, ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	if !deleted {
		return ErrEventNotFound
	}

	_, err = s.primary.DeleteRegistrationsByEventID(ctx, ID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}

	// Degraded registrations may reference a store event.
	_, err = s.fallback.DeleteRegistrationsByEventID(ctx, ID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("eventId", ID).Msg("Error deleting fallback registrations")
	}

	return nil
}

func (s *EventService) ListRegistrationsForEvent(ctx context.Context, eventID string, status entity.RegistrationStatus) ([]*entity.Registration, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	registrations, err := s.primary.FindRegistrations(ctx, entity.RegistrationFilter{
		EventID:     eventID,
		Status:      status,
		NewestFirst: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}
	return registrations, nil
}

func (s *EventService) ListAllRegistrations(ctx context.Context, status entity.RegistrationStatus) ([]*entity.Registration, error) {
	if status != "" && !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	logger := zerolog.Ctx(ctx)
	filter := entity.RegistrationFilter{Status: status, WithEvent: true, NewestFirst: true}

	if s.primary.Connected(ctx) {
		registrations, err := s.primary.FindRegistrations(ctx, filter)
		if err == nil {
			return registrations, nil
		}
		logger.Warn().Err(err).Msg("Error fetching all registrations, falling back to fallback store")
	} else {
		logger.Info().Msg("Using fallback store for registrations - MongoDB not connected")
	}

	if s.policy.LegacyFallbackChecks {
		filter = entity.RegistrationFilter{Status: status}
	}
	return s.fallback.FindRegistrations(ctx, filter)
}

// RegisterForEvent stores a registration in the primary store when it is reachable and
// in the fallback store otherwise. Once input is valid only domain answers (not found,
// conflicts) are returned as errors, unless degraded registration is disabled.
func (s *EventService) RegisterForEvent(ctx context.Context, eventID string, input RegistrationInput) (*entity.Registration, Placement, error) {
	if err := helpers.Validate(input); err != nil {
		return nil, 0, err
	}

	logger := zerolog.Ctx(ctx).With().Str("eventId", eventID).Logger()
	placement := PlacedInFallback

	var others []repository.Store
	var storeErr error
	if s.primary.Connected(ctx) {
		registration, err := s.register(ctx, s.primary, []repository.Store{s.fallback}, eventID, input, true)
		if err == nil {
			s.notifyRegistration(ctx, registration)
			return registration, PlacedInStore, nil
		}
		if isDomainError(err) {
			logger.Info().Err(err).Msg("Registration rejected")
			return nil, PlacedInStore, err
		}
		logger.Warn().Err(err).Msg("Error registering in store, falling back to fallback store")
		placement = PlacedInFallbackOnError
		others = []repository.Store{s.primary}
		storeErr = err
	} else {
		logger.Info().Msg("Using fallback store for registration - MongoDB not connected")
	}

	registration, err := s.register(ctx, s.fallback, others, eventID, input, !s.policy.LegacyFallbackChecks)
	if err == nil {
		s.notifyRegistration(ctx, registration)
		return registration, placement, nil
	}

	// After a store failure the event usually exists only in the store, so a fallback
	// miss is not an answer.
	missedAfterFailure := placement == PlacedInFallbackOnError && errors.Is(err, ErrNotFound)
	if isDomainError(err) && !missedAfterFailure {
		logger.Info().Err(err).Msg("Registration rejected")
		return nil, placement, err
	}
	if missedAfterFailure {
		err = storeErr
	}

	return s.registerDegraded(ctx, eventID, input, err)
}

// register runs the registration checks against store. Duplicates are also looked up in
// others, on a best-effort basis, so a pair stays unique across backends.
func (s *EventService) register(ctx context.Context, store repository.Store, others []repository.Store, eventID string, input RegistrationInput, enforce bool) (*entity.Registration, error) {
	event, err := store.FindEventByID(ctx, eventID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}

	if enforce && !event.IsActive {
		return nil, ErrEventInactive
	}

	_, err = store.FindRegistration(ctx, eventID, input.RegistrantEmail)
	if err == nil {
		return nil, ErrAlreadyRegistered
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	for _, other := range others {
		if _, err := other.FindRegistration(ctx, eventID, input.RegistrantEmail); err == nil {
			return nil, ErrAlreadyRegistered
		}
	}

	if enforce {
		count, err := store.CountRegistrations(ctx, eventID)
		if err != nil {
			return nil, err
		}
		if event.IsFull(count) {
			return nil, ErrEventFull
		}
	}

	return store.CreateRegistration(ctx, input.registration(eventID, event.Title))
}

func (s *EventService) registerDegraded(ctx context.Context, eventID string, input RegistrationInput, cause error) (*entity.Registration, Placement, error) {
	if !s.policy.AllowDegradedRegistration {
		return nil, PlacedInFallbackOnError, fmt.Errorf("%w: %w", ErrOperationFailed, cause)
	}

	logger := zerolog.Ctx(ctx)
	logger.Warn().Err(cause).Str("eventId", eventID).Msg("Recording degraded registration")

	if _, err := s.fallback.FindRegistration(ctx, eventID, input.RegistrantEmail); err == nil {
		return nil, PlacedInFallbackOnError, ErrAlreadyRegistered
	}

	registration, err := s.fallback.CreateRegistration(ctx, input.registration(eventID, entity.UnknownEventTitle))
	if err != nil {
		return nil, PlacedInFallbackOnError, fmt.Errorf("%w: %w", ErrOperationFailed, errors.Join(cause, err))
	}

	s.notifyRegistration(ctx, registration)
	return registration, PlacedInFallbackOnError, nil
}

func (s *EventService) UpdateRegistrationStatus(ctx context.Context, ID string, status entity.RegistrationStatus) (*entity.Registration, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	registration, err := s.primary.UpdateRegistrationStatus(ctx, ID, status)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOperationFailed, err)
	}

	if s.notifier != nil {
		s.notifier.StatusChanged(ctx, registration)
	}
	return registration, nil
}

func (s *EventService) notifyRegistration(ctx context.Context, registration *entity.Registration) {
	if s.notifier != nil {
		s.notifier.RegistrationReceived(ctx, registration)
	}
}
