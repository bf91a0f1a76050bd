package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/joeyave/campus-hub/entity"
	"github.com/joeyave/campus-hub/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu    sync.Mutex
	sent  []entity.EmailMessage
	fail  map[string]error
	block chan struct{}
}

func (s *fakeSender) Send(ctx context.Context, msg entity.EmailMessage) (*entity.EmailDelivery, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := s.fail[msg.To]; err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return &entity.EmailDelivery{StatusCode: 202, MessageID: fmt.Sprintf("msg-%d", len(s.sent))}, nil
}

func (s *fakeSender) messages() []entity.EmailMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.EmailMessage(nil), s.sent...)
}

func (s *fakeSender) recipients() []string {
	var to []string
	for _, m := range s.messages() {
		to = append(to, m.To)
	}
	return to
}

func TestNotificationService_Send(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, nil, false, true)

	delivery, err := svc.Send(context.Background(), entity.EmailMessage{To: "a@example.com", Subject: "Hi", HTML: "<p>Hi</p>"})
	require.NoError(t, err)
	assert.Equal(t, 202, delivery.StatusCode)
	require.Len(t, sender.messages(), 1)

	_, err = svc.Send(context.Background(), entity.EmailMessage{To: "nope"})
	msgs := fieldMessages(t, err)
	assert.Equal(t, "Valid recipient email is required", msgs["to"])
	assert.Equal(t, "Subject is required", msgs["subject"])
	assert.Equal(t, "Body is required", msgs["html"])
	assert.Len(t, sender.messages(), 1)
}

func broadcastFixture(t *testing.T) *EventService {
	t.Helper()
	ctx := context.Background()
	primary := newTestStore(true, repository.WithEvents(activeEvent("e1", 10)))

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := primary.CreateRegistration(ctx, entity.Registration{EventID: "e1", RegistrantEmail: email})
		require.NoError(t, err)
	}
	approved, err := primary.FindRegistration(ctx, "e1", "c@example.com")
	require.NoError(t, err)
	_, err = primary.UpdateRegistrationStatus(ctx, approved.ID, entity.StatusApproved)
	require.NoError(t, err)

	return NewEventService(primary, repository.NewFallbackStore(), DefaultPolicy())
}

func TestNotificationService_Broadcast(t *testing.T) {
	ctx := context.Background()
	sender := &fakeSender{fail: map[string]error{"b@example.com": errBoom}}
	svc := NewNotificationService(sender, broadcastFixture(t), false, true)

	result, err := svc.Broadcast(ctx, "e1", BroadcastInput{Subject: "Venue change", HTML: "<p>Room 4</p>"})
	require.NoError(t, err)
	assert.Equal(t, &BroadcastResult{Sent: 2, Failed: 1}, result)
	assert.ElementsMatch(t, []string{"a@example.com", "c@example.com"}, sender.recipients())
	for _, m := range sender.messages() {
		assert.Equal(t, "Venue change", m.Subject)
		assert.True(t, m.EUResidency)
	}
}

func TestNotificationService_BroadcastByStatus(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, broadcastFixture(t), false, false)

	result, err := svc.Broadcast(context.Background(), "e1", BroadcastInput{Subject: "S", HTML: "H", Status: entity.StatusApproved})
	require.NoError(t, err)
	assert.Equal(t, &BroadcastResult{Sent: 1}, result)
	assert.Equal(t, []string{"c@example.com"}, sender.recipients())
}

func TestNotificationService_BroadcastErrors(t *testing.T) {
	ctx := context.Background()
	events := broadcastFixture(t)

	svc := NewNotificationService(&fakeSender{}, events, false, false)
	_, err := svc.Broadcast(ctx, "e1", BroadcastInput{Status: "bogus"})
	msgs := fieldMessages(t, err)
	assert.Equal(t, "Subject is required", msgs["subject"])
	assert.Equal(t, "Body is required", msgs["html"])
	assert.Contains(t, msgs, "status")

	notConfigured := &fakeSender{fail: map[string]error{
		"a@example.com": ErrEmailNotConfigured,
		"b@example.com": ErrEmailNotConfigured,
		"c@example.com": ErrEmailNotConfigured,
	}}
	_, err = NewNotificationService(notConfigured, events, false, false).Broadcast(ctx, "e1", BroadcastInput{Subject: "S", HTML: "H"})
	assert.ErrorIs(t, err, ErrEmailNotConfigured)

	result, err := svc.Broadcast(ctx, "nobody-registered", BroadcastInput{Subject: "S", HTML: "H"})
	require.NoError(t, err)
	assert.Equal(t, &BroadcastResult{}, result)
}

func testRegistration(ID string) *entity.Registration {
	return &entity.Registration{
		ID:               ID,
		EventID:          "e1",
		EventTitle:       "Hack Night",
		RegistrantName:   "jane roe",
		RegistrantEmail:  "jane@example.com",
		RegistrationDate: time.Date(2024, 3, 1, 18, 30, 0, 0, time.UTC),
		Status:           entity.StatusPending,
	}
}

func TestNotificationService_RegistrationReceived(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, nil, true, false)

	svc.RegistrationReceived(context.Background(), testRegistration("r1"))

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	msg := sender.messages()[0]
	assert.Equal(t, "jane@example.com", msg.To)
	assert.Equal(t, "Registration received: Hack Night", msg.Subject)
	assert.Contains(t, msg.HTML, "Hi Jane Roe,")
	assert.Contains(t, msg.HTML, "<b>Hack Night</b>")
	assert.Contains(t, msg.HTML, "Friday, 01 March 2024 18:30")
	assert.Contains(t, msg.HTML, "<code>r1</code>")
}

func TestNotificationService_StatusChanged(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, nil, true, false)

	registration := testRegistration("r1")
	registration.Status = entity.StatusApproved
	svc.StatusChanged(context.Background(), registration)

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	msg := sender.messages()[0]
	assert.Equal(t, "Registration approved: Hack Night", msg.Subject)
	assert.Contains(t, msg.HTML, "is now <b>approved</b>")
}

func TestNotificationService_EscapesRegistrantInput(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, nil, true, false)

	registration := testRegistration("r1")
	registration.EventTitle = "<script>x</script>"
	svc.RegistrationReceived(context.Background(), registration)

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, time.Second, 5*time.Millisecond)
	html := sender.messages()[0].HTML
	assert.False(t, strings.Contains(html, "<script>"))
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestNotificationService_Disabled(t *testing.T) {
	sender := &fakeSender{}
	svc := NewNotificationService(sender, nil, false, false)

	svc.RegistrationReceived(context.Background(), testRegistration("r1"))
	svc.StatusChanged(context.Background(), testRegistration("r1"))

	assert.Never(t, func() bool { return len(sender.messages()) > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestNotificationService_DropsWhenSaturated(t *testing.T) {
	sender := &fakeSender{block: make(chan struct{})}
	svc := NewNotificationService(sender, nil, true, false)

	// The request context ends before the sends do.
	ctx, cancel := context.WithCancel(context.Background())
	for i := 0; i < broadcastConcurrency+1; i++ {
		svc.RegistrationReceived(ctx, testRegistration(fmt.Sprintf("r%d", i)))
	}
	cancel()
	close(sender.block)

	require.Eventually(t, func() bool { return len(sender.messages()) == broadcastConcurrency }, time.Second, 5*time.Millisecond)
	require.Eventually(t, func() bool { return len(svc.sendsInProgress) == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, sender.messages(), broadcastConcurrency)
}
