package repository

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestFallbackStore_Seed(t *testing.T) {
	ctx := context.Background()
	s := NewFallbackStore(WithSeedData())

	events, err := s.FindEvents(ctx, entity.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "mock1", events[0].ID)
	assert.Equal(t, "Tech Workshop", events[0].Title)
	assert.Equal(t, "mock2", events[1].ID)

	r, err := s.FindRegistration(ctx, "mock1", "john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "reg1", r.ID)
	assert.Equal(t, entity.StatusPending, r.Status)
}

func TestFallbackStore_InstancesAreIsolated(t *testing.T) {
	ctx := context.Background()
	a := NewFallbackStore()
	b := NewFallbackStore()

	_, err := a.CreateEvent(ctx, entity.Event{Title: "only in a"})
	require.NoError(t, err)

	events, err := b.FindEvents(ctx, entity.EventFilter{})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestFallbackStore_CreateAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewFallbackStore(WithClock(fixedClock(now)))

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		e, err := s.CreateEvent(ctx, entity.Event{Title: "x"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(e.ID, FallbackEventPrefix))
		assert.False(t, seen[e.ID], "duplicate id %s", e.ID)
		seen[e.ID] = true
		assert.Equal(t, now, e.CreatedAt)

		r, err := s.CreateRegistration(ctx, entity.Registration{EventID: e.ID, Status: entity.StatusApproved})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(r.ID, FallbackRegistrationPrefix))
		assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
		assert.Equal(t, entity.StatusPending, r.Status)
		assert.Equal(t, now, r.RegistrationDate)
	}
}

func TestFallbackStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewFallbackStore(WithEvents(entity.Event{ID: "e1", Title: "original"}))

	e, err := s.FindEventByID(ctx, "e1")
	require.NoError(t, err)
	e.Title = "changed"

	again, err := s.FindEventByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestFallbackStore_FindEventsFilter(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s := NewFallbackStore(WithEvents(
		entity.Event{ID: "old", IsActive: true, CreatedAt: base},
		entity.Event{ID: "off", IsActive: false, CreatedAt: base.Add(time.Hour)},
		entity.Event{ID: "new", IsActive: true, CreatedAt: base.Add(2 * time.Hour)},
	))

	events, err := s.FindEvents(ctx, entity.EventFilter{ActiveOnly: true, NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "new", events[0].ID)
	assert.Equal(t, "old", events[1].ID)

	events, err = s.FindEvents(ctx, entity.EventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "old", events[0].ID)
}

func TestFallbackStore_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewFallbackStore(WithEvents(entity.Event{ID: "e1", Title: "t", Venue: "v"}, entity.Event{ID: "e2"}))

	title := "new title"
	active := true
	e, err := s.UpdateEvent(ctx, "e1", entity.EventPatch{Title: &title, IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "new title", e.Title)
	assert.Equal(t, "v", e.Venue)
	assert.True(t, e.IsActive)

	_, err = s.UpdateEvent(ctx, "missing", entity.EventPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	for _, email := range []string{"a@example.com", "b@example.com"} {
		_, err := s.CreateRegistration(ctx, entity.Registration{EventID: "e1", RegistrantEmail: email})
		require.NoError(t, err)
	}
	_, err = s.CreateRegistration(ctx, entity.Registration{EventID: "e2", RegistrantEmail: "a@example.com"})
	require.NoError(t, err)

	deleted, err := s.DeleteEvent(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, deleted)

	n, err := s.DeleteRegistrationsByEventID(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	count, err := s.CountRegistrations(ctx, "e2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	deleted, err = s.DeleteEvent(ctx, "e1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestFallbackStore_FindRegistrations(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := base
	s := NewFallbackStore(
		WithClock(func() time.Time {
			tick = tick.Add(time.Minute)
			return tick
		}),
		WithEvents(entity.Event{ID: "e1", Title: "Hack Night", Date: "2024-03-02", Time: "18:00", Venue: "Lab"}),
	)

	first, err := s.CreateRegistration(ctx, entity.Registration{EventID: "e1", RegistrantEmail: "a@example.com"})
	require.NoError(t, err)
	second, err := s.CreateRegistration(ctx, entity.Registration{EventID: "e1", RegistrantEmail: "b@example.com"})
	require.NoError(t, err)
	_, err = s.UpdateRegistrationStatus(ctx, second.ID, entity.StatusRejected)
	require.NoError(t, err)
	orphan, err := s.CreateRegistration(ctx, entity.Registration{EventID: "gone", RegistrantEmail: "c@example.com"})
	require.NoError(t, err)

	all, err := s.FindRegistrations(ctx, entity.RegistrationFilter{WithEvent: true, NewestFirst: true})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, orphan.ID, all[0].ID)
	assert.Nil(t, all[0].Event)
	assert.Equal(t, second.ID, all[1].ID)
	require.NotNil(t, all[1].Event)
	assert.Equal(t, &entity.EventSummary{ID: "e1", Title: "Hack Night", Date: "2024-03-02", Time: "18:00", Venue: "Lab"}, all[1].Event)

	rejected, err := s.FindRegistrations(ctx, entity.RegistrationFilter{EventID: "e1", Status: entity.StatusRejected})
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, second.ID, rejected[0].ID)

	raw, err := s.FindRegistrations(ctx, entity.RegistrationFilter{})
	require.NoError(t, err)
	require.Len(t, raw, 3)
	assert.Equal(t, first.ID, raw[0].ID)
	assert.Nil(t, raw[0].Event)

	_, err = s.UpdateRegistrationStatus(ctx, "missing", entity.StatusApproved)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.FindRegistration(ctx, "e1", "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFallbackStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	s := NewFallbackStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.CreateRegistration(ctx, entity.Registration{EventID: "e1"})
			_, _ = s.FindRegistrations(ctx, entity.RegistrationFilter{EventID: "e1"})
		}()
	}
	wg.Wait()

	count, err := s.CountRegistrations(ctx, "e1")
	require.NoError(t, err)
	assert.EqualValues(t, 50, count)
}
