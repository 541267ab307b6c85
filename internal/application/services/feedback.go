package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

// Feedback carries the side channels every mutating service reports through: toasts for the
// acting user and change events for other open views. Nil members are skipped.
type Feedback struct {
	Notifier providers.Notifier
	Events   providers.EventBus
	Clock    providers.Clock
	Metrics  *observability.Metrics
}

func (f Feedback) clock() providers.Clock {
	if f.Clock == nil {
		return providers.SystemClock{}
	}
	return f.Clock
}

func (f Feedback) toast(ctx context.Context, variant entities.ToastVariant, title, format string, args ...interface{}) {
	if f.Notifier == nil {
		return
	}
	f.Notifier.Notify(ctx, entities.Toast{
		Title:       title,
		Description: fmt.Sprintf(format, args...),
		Variant:     variant,
	})
}

// publish sends a change event on the global channel and on the entity's own channel.
// Delivery failures are logged and never fail the mutation that already succeeded.
func (f Feedback) publish(ctx context.Context, entity entities.ChangeEntity, action entities.ChangeAction, recordID string) {
	if f.Events == nil {
		return
	}
	event := entities.NewChangeEvent(entity, action, recordID, f.clock().Now())
	for _, channel := range []string{providers.EventChannelChanges, providers.GetEntityChannel(entity)} {
		if err := f.Events.Publish(ctx, channel, event); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Str("channel", channel).Str("entity", string(entity)).Msg("Failed to publish change event")
		}
	}
	if f.Metrics != nil {
		observability.RecordChangeEvent(ctx, f.Metrics, string(entity), string(action))
	}
}
