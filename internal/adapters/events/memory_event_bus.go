package events

import (
	"context"
	"sync/atomic"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

// MemoryEventBus implements the EventBus interface inside one process
type MemoryEventBus struct {
	subs   *fanout
	closed atomic.Bool
}

// NewMemoryEventBus creates an in-process event bus
func NewMemoryEventBus() providers.EventBus {
	return &MemoryEventBus{subs: newFanout()}
}

// Publish delivers event to current subscribers of channel
func (b *MemoryEventBus) Publish(ctx context.Context, channel string, event *entities.ChangeEvent) error {
	if b.closed.Load() {
		return nil
	}
	b.subs.deliver(channel, event)
	return nil
}

// Subscribe returns a channel of events that is closed when ctx ends
func (b *MemoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ChangeEvent, error) {
	ch, _ := b.subs.add(channel)
	go func() {
		<-ctx.Done()
		b.subs.remove(channel, ch)
	}()
	return ch, nil
}

// Unsubscribe closes every subscriber on channel
func (b *MemoryEventBus) Unsubscribe(ctx context.Context, channel string) error {
	b.subs.drop(channel)
	return nil
}

// Close closes all subscriptions
func (b *MemoryEventBus) Close() error {
	b.closed.Store(true)
	for _, channel := range b.subs.channels() {
		b.subs.drop(channel)
	}
	return nil
}
