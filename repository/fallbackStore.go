package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"golang.org/x/exp/slices"
)

const (
	FallbackEventPrefix        = "mock"
	FallbackRegistrationPrefix = "reg"
)

// FallbackStore keeps events and registrations in process memory.
// Nothing survives a restart.
type FallbackStore struct {
	mu            sync.RWMutex
	events        []*entity.Event
	registrations []*entity.Registration

	seq    int64
	now    func() time.Time
	seeded bool
}

var _ Store = (*FallbackStore)(nil)

type FallbackOption func(s *FallbackStore)

// WithSeedData preloads the demo events and registration served while offline.
func WithSeedData() FallbackOption {
	return func(s *FallbackStore) {
		s.seeded = true
	}
}

func (s *FallbackStore) seed() {
	now := s.now()
	s.events = append(s.events,
		&entity.Event{
			ID:              "mock1",
			Title:           "Tech Workshop",
			Description:     "Learn the latest in web development",
			Date:            "2024-01-15",
			Time:            "10:00 AM",
			Venue:           "Computer Lab",
			Image:           "https://via.placeholder.com/400x200?text=Tech+Workshop",
			MaxParticipants: entity.DefaultMaxParticipants,
			IsActive:        true,
			CreatedBy:       entity.DefaultCreatedBy,
			CreatedAt:       now,
		},
		&entity.Event{
			ID:              "mock2",
			Title:           "Cultural Festival",
			Description:     "Annual cultural celebration with performances",
			Date:            "2024-01-20",
			Time:            "6:00 PM",
			Venue:           "Main Auditorium",
			Image:           "https://via.placeholder.com/400x200?text=Cultural+Festival",
			MaxParticipants: entity.DefaultMaxParticipants,
			IsActive:        true,
			CreatedBy:       entity.DefaultCreatedBy,
			CreatedAt:       now,
		},
	)
	s.registrations = append(s.registrations, &entity.Registration{
		ID:               "reg1",
		EventID:          "mock1",
		EventTitle:       "Tech Workshop",
		RegistrantName:   "John Doe",
		RegistrantEmail:  "john@example.com",
		RegistrantPhone:  "1234567890",
		RegistrantClass:  "CS-3",
		RegistrantRollNo: "CS2023001",
		RegistrantPRN:    "PRN123456",
		RegistrationDate: now,
		Status:           entity.StatusPending,
	})
}

// WithEvents preloads events keeping their ids.
func WithEvents(events ...entity.Event) FallbackOption {
	return func(s *FallbackStore) {
		for _, e := range events {
			s.events = append(s.events, cloneEvent(&e))
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) FallbackOption {
	return func(s *FallbackStore) {
		s.now = now
	}
}

func NewFallbackStore(opts ...FallbackOption) *FallbackStore {
	s := &FallbackStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.seeded {
		s.seed()
	}
	s.seq = s.now().UnixMilli()
	return s
}

func (s *FallbackStore) Connected(context.Context) bool {
	return true
}

func (s *FallbackStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s%d", prefix, s.seq)
}

func (s *FallbackStore) FindEvents(_ context.Context, filter entity.EventFilter) ([]*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := make([]*entity.Event, 0, len(s.events))
	for _, event := range s.events {
		if filter.ActiveOnly && !event.IsActive {
			continue
		}
		events = append(events, cloneEvent(event))
	}

	if filter.NewestFirst {
		slices.SortStableFunc(events, func(a, b *entity.Event) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}

	return events, nil
}

func (s *FallbackStore) FindEventByID(_ context.Context, ID string) (*entity.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.eventIndex(ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	return cloneEvent(s.events[i]), nil
}

func (s *FallbackStore) CreateEvent(_ context.Context, event entity.Event) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event.ID = s.nextID(FallbackEventPrefix)
	event.CreatedAt = s.now()
	s.events = append(s.events, &event)

	return cloneEvent(&event), nil
}

func (s *FallbackStore) UpdateEvent(_ context.Context, ID string, patch entity.EventPatch) (*entity.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	patch.Apply(s.events[i])

	return cloneEvent(s.events[i]), nil
}

func (s *FallbackStore) DeleteEvent(_ context.Context, ID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.eventIndex(ID)
	if i < 0 {
		return false, nil
	}
	s.events = slices.Delete(s.events, i, i+1)

	return true, nil
}

func (s *FallbackStore) FindRegistrations(_ context.Context, filter entity.RegistrationFilter) ([]*entity.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	registrations := make([]*entity.Registration, 0, len(s.registrations))
	for _, registration := range s.registrations {
		if filter.EventID != "" && registration.EventID != filter.EventID {
			continue
		}
		if filter.Status != "" && registration.Status != filter.Status {
			continue
		}

		r := cloneRegistration(registration)
		if filter.WithEvent {
			if i := s.eventIndex(r.EventID); i >= 0 {
				r.Event = s.events[i].Summary()
			}
		}
		registrations = append(registrations, r)
	}

	if filter.NewestFirst {
		slices.SortStableFunc(registrations, func(a, b *entity.Registration) int {
			return b.RegistrationDate.Compare(a.RegistrationDate)
		})
	}

	return registrations, nil
}

func (s *FallbackStore) FindRegistrationByID(_ context.Context, ID string) (*entity.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.registrationIndex(ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	return cloneRegistration(s.registrations[i]), nil
}

func (s *FallbackStore) FindRegistration(_ context.Context, eventID, email string) (*entity.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := slices.IndexFunc(s.registrations, func(r *entity.Registration) bool {
		return r.EventID == eventID && r.RegistrantEmail == email
	})
	if i < 0 {
		return nil, ErrNotFound
	}
	return cloneRegistration(s.registrations[i]), nil
}

func (s *FallbackStore) CountRegistrations(_ context.Context, eventID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, registration := range s.registrations {
		if registration.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (s *FallbackStore) CreateRegistration(_ context.Context, registration entity.Registration) (*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	registration.ID = s.nextID(FallbackRegistrationPrefix)
	registration.RegistrationDate = s.now()
	registration.Status = entity.StatusPending
	registration.Event = nil
	s.registrations = append(s.registrations, &registration)

	return cloneRegistration(&registration), nil
}

func (s *FallbackStore) UpdateRegistrationStatus(_ context.Context, ID string, status entity.RegistrationStatus) (*entity.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.registrationIndex(ID)
	if i < 0 {
		return nil, ErrNotFound
	}
	s.registrations[i].Status = status

	return cloneRegistration(s.registrations[i]), nil
}

func (s *FallbackStore) DeleteRegistrationsByEventID(_ context.Context, eventID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.registrations)
	s.registrations = slices.DeleteFunc(s.registrations, func(r *entity.Registration) bool {
		return r.EventID == eventID
	})

	return int64(before - len(s.registrations)), nil
}

func (s *FallbackStore) eventIndex(ID string) int {
	return slices.IndexFunc(s.events, func(e *entity.Event) bool { return e.ID == ID })
}

func (s *FallbackStore) registrationIndex(ID string) int {
	return slices.IndexFunc(s.registrations, func(r *entity.Registration) bool { return r.ID == ID })
}

func cloneEvent(e *entity.Event) *entity.Event {
	c := *e
	return &c
}

func cloneRegistration(r *entity.Registration) *entity.Registration {
	c := *r
	if r.Event != nil {
		event := *r.Event
		c.Event = &event
	}
	return &c
}
