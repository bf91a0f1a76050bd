package repository

import (
	"context"
	"errors"

	"github.com/joeyave/campus-hub/entity"
)

var (
	ErrNotFound             = errors.New("document not found")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrStoreOperationFailed = errors.New("store operation failed")
)

// Store is the capability set shared by the MongoDB store and the in-memory fallback.
type Store interface {
	Connected(ctx context.Context) bool

	FindEvents(ctx context.Context, filter entity.EventFilter) ([]*entity.Event, error)
	FindEventByID(ctx context.Context, ID string) (*entity.Event, error)
	CreateEvent(ctx context.Context, event entity.Event) (*entity.Event, error)
	UpdateEvent(ctx context.Context, ID string, patch entity.EventPatch) (*entity.Event, error)
	DeleteEvent(ctx context.Context, ID string) (bool, error)

	FindRegistrations(ctx context.Context, filter entity.RegistrationFilter) ([]*entity.Registration, error)
	FindRegistrationByID(ctx context.Context, ID string) (*entity.Registration, error)
	FindRegistration(ctx context.Context, eventID, email string) (*entity.Registration, error)
	CountRegistrations(ctx context.Context, eventID string) (int64, error)
	CreateRegistration(ctx context.Context, registration entity.Registration) (*entity.Registration, error)
	UpdateRegistrationStatus(ctx context.Context, ID string, status entity.RegistrationStatus) (*entity.Registration, error)
	DeleteRegistrationsByEventID(ctx context.Context, eventID string) (int64, error)
}
