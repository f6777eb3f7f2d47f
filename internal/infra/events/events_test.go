package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m04kA/SMC-AgendaService/internal/domain"
	"github.com/m04kA/SMC-AgendaService/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:         10,
		TenantID:   1,
		ResourceID: 2,
		ServiceID:  3,
		Start:      time.Date(2025, 10, 13, 10, 0, 0, 0, time.UTC),
		End:        time.Date(2025, 10, 13, 11, 0, 0, 0, time.UTC),
		Status:     domain.StatusPending,
		ClientName: "Ana",
	}
}

func TestBroker_DeliversToTenantSubscribers(t *testing.T) {
	broker := NewBroker(logger.NewNop())
	ctx := context.Background()

	received := make(chan Event, 1)
	unsubscribe, err := broker.Subscribe(ctx, 1, func(e Event) { received <- e })
	require.NoError(t, err)
	defer unsubscribe()

	otherTenant := make(chan Event, 1)
	unsubscribeOther, err := broker.Subscribe(ctx, 2, func(e Event) { otherTenant <- e })
	require.NoError(t, err)
	defer unsubscribeOther()

	event := NewEvent(domain.EventAppointmentCreated, testAppointment(), time.Now())
	require.NoError(t, broker.Publish(ctx, event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, "Ana", got.Appointment.ClientName)
	case <-time.After(time.Second):
		t.Fatal("event was not delivered")
	}

	select {
	case <-otherTenant:
		t.Fatal("event leaked to another tenant")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroker_UnsubscribeOnContextCancel(t *testing.T) {
	broker := NewBroker(logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	_, err := broker.Subscribe(ctx, 1, func(Event) {})
	require.NoError(t, err)
	require.Equal(t, 1, broker.Subscribers(1))

	cancel()

	assert.Eventually(t, func() bool { return broker.Subscribers(1) == 0 }, time.Second, 10*time.Millisecond)
}

func TestBroker_UnsubscribeIsIdempotent(t *testing.T) {
	broker := NewBroker(logger.NewNop())

	unsubscribe, err := broker.Subscribe(context.Background(), 1, func(Event) {})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		unsubscribe()
		unsubscribe()
	})
	assert.NoError(t, broker.Publish(context.Background(), NewEvent(domain.EventAppointmentUpdated, testAppointment(), time.Now())))
}

func TestNewEvent_DeletedHasNoSnapshot(t *testing.T) {
	event := NewEvent(domain.EventAppointmentDeleted, testAppointment(), time.Now())

	assert.Nil(t, event.Appointment)
	assert.Equal(t, int64(10), event.AppointmentID)
}

func TestToMessage(t *testing.T) {
	event := NewEvent(domain.EventAppointmentCancelled, testAppointment(), time.Now())

	msg, err := toMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("1"), msg.Key)
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, event.ID.String(), string(msg.Headers[0].Value))
	assert.Equal(t, domain.EventAppointmentCancelled, string(msg.Headers[1].Value))
	assert.Contains(t, string(msg.Value), `"type":"appointment.cancelled"`)
}

type failingPublisher struct{ err error }

func (p failingPublisher) Publish(context.Context, Event) error { return p.err }

type countingPublisher struct{ calls int }

func (p *countingPublisher) Publish(context.Context, Event) error {
	p.calls++
	return nil
}

func TestFanout_PublishesToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("kafka down")
	counter := &countingPublisher{}
	fanout := NewFanout(failingPublisher{err: boom}, counter, nil)

	err := fanout.Publish(context.Background(), NewEvent(domain.EventAppointmentCreated, testAppointment(), time.Now()))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, counter.calls)
}
