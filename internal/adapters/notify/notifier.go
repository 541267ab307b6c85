package notify

import (
	"context"
	"sync"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

// LogNotifier writes toasts to the request logger
type LogNotifier struct{}

// Notify logs the toast
func (LogNotifier) Notify(ctx context.Context, toast entities.Toast) {
	event := observability.LoggerFromContext(ctx).Info()
	if toast.Variant == entities.ToastDestructive {
		event = observability.LoggerFromContext(ctx).Warn()
	}
	event.Str("title", toast.Title).Str("variant", string(toast.Variant)).Msg(toast.Description)
}

// Multi delivers each toast to every notifier in order
func Multi(notifiers ...providers.Notifier) providers.Notifier {
	return providers.NotifierFunc(func(ctx context.Context, toast entities.Toast) {
		for _, n := range notifiers {
			if n != nil {
				n.Notify(ctx, toast)
			}
		}
	})
}

const hubBuffer = 16

// Hub fans toasts out to live subscribers such as open SSE streams.
// A subscriber whose buffer is full misses the toast.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan entities.Toast]struct{}
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{subs: make(map[chan entities.Toast]struct{})}
}

// Notify delivers toast to every subscriber without blocking
func (h *Hub) Notify(ctx context.Context, toast entities.Toast) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- toast:
		default:
		}
	}
}

// Subscribe returns a channel of toasts that is closed when ctx ends
func (h *Hub) Subscribe(ctx context.Context) <-chan entities.Toast {
	ch := make(chan entities.Toast, hubBuffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, ch)
		close(ch)
		h.mu.Unlock()
	}()
	return ch
}

// Subscribers returns the number of live subscribers
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
