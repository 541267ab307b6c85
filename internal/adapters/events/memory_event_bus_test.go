package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := bus.Subscribe(ctx, "changes")
	require.NoError(t, err)

	event := entities.NewChangeEvent(entities.ChangeEntityAppointment, entities.ChangeActionCreated, "1", time.Now())
	require.NoError(t, bus.Publish(context.Background(), "changes", event))

	select {
	case got := <-ch:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, entities.ChangeEntityAppointment, got.Entity)
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryEventBus_OtherChannelNotDelivered(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ch, err := bus.Subscribe(context.Background(), "a")
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), "b",
		entities.NewChangeEvent(entities.ChangeEntityClinic, entities.ChangeActionDeleted, "2", time.Now())))

	select {
	case <-ch:
		t.Fatal("unexpected event")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMemoryEventBus_ContextCancelClosesChannel(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch, err := bus.Subscribe(ctx, "changes")
	require.NoError(t, err)

	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("channel not closed")
	}
}

func TestMemoryEventBus_FullSubscriberDropsEvents(t *testing.T) {
	bus := NewMemoryEventBus()
	defer bus.Close()

	ch, err := bus.Subscribe(context.Background(), "changes")
	require.NoError(t, err)

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, bus.Publish(context.Background(), "changes",
			entities.NewChangeEvent(entities.ChangeEntityAppointment, entities.ChangeActionUpdated, "1", time.Now())))
	}

	assert.Len(t, ch, subscriberBuffer)
}

func TestMemoryEventBus_CloseClosesSubscribers(t *testing.T) {
	bus := NewMemoryEventBus()

	ch, err := bus.Subscribe(context.Background(), "changes")
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	_, ok := <-ch
	assert.False(t, ok)
	assert.NoError(t, bus.Publish(context.Background(), "changes",
		entities.NewChangeEvent(entities.ChangeEntitySettings, entities.ChangeActionReset, "", time.Now())))
}
