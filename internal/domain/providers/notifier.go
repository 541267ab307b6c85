package providers

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// Notifier delivers transient toasts raised by mutations
type Notifier interface {
	Notify(ctx context.Context, toast entities.Toast)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, toast entities.Toast)

// Notify calls f
func (f NotifierFunc) Notify(ctx context.Context, toast entities.Toast) { f(ctx, toast) }
