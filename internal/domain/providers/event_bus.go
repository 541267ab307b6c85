package providers

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ChangeEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ChangeEvent, error)

	// Unsubscribe unsubscribes from a channel
	Unsubscribe(ctx context.Context, channel string) error

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannel constants for change streams
const (
	// EventChannelChanges carries every change event
	EventChannelChanges = "clinicdesk:changes"

	// EventChannelEntityPrefix is the prefix for per-collection channels
	EventChannelEntityPrefix = "clinicdesk:changes:"
)

// GetEntityChannel returns the channel name for one collection
func GetEntityChannel(entity entities.ChangeEntity) string {
	return EventChannelEntityPrefix + string(entity)
}
