package events

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

const subscriberBuffer = 100

// fanout tracks local subscriber channels per bus channel and delivers events to them
// without blocking: a full subscriber misses the event.
type fanout struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan *entities.ChangeEvent]struct{}
}

func newFanout() *fanout {
	return &fanout{subscribers: make(map[string]map[chan *entities.ChangeEvent]struct{})}
}

// add registers a new subscriber and reports whether it is the first on channel
func (f *fanout) add(channel string) (chan *entities.ChangeEvent, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	first := len(f.subscribers[channel]) == 0
	if f.subscribers[channel] == nil {
		f.subscribers[channel] = make(map[chan *entities.ChangeEvent]struct{})
	}
	ch := make(chan *entities.ChangeEvent, subscriberBuffer)
	f.subscribers[channel][ch] = struct{}{}
	return ch, first
}

// remove closes one subscriber and reports whether channel has none left
func (f *fanout) remove(channel string, ch chan *entities.ChangeEvent) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	subs, ok := f.subscribers[channel]
	if !ok {
		return false
	}
	if _, ok := subs[ch]; !ok {
		return false
	}
	delete(subs, ch)
	close(ch)
	if len(subs) == 0 {
		delete(f.subscribers, channel)
		return true
	}
	return false
}

// drop closes every subscriber on channel
func (f *fanout) drop(channel string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subscribers[channel] {
		close(ch)
	}
	delete(f.subscribers, channel)
}

func (f *fanout) channels() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]string, 0, len(f.subscribers))
	for channel := range f.subscribers {
		out = append(out, channel)
	}
	return out
}

func (f *fanout) deliver(channel string, event *entities.ChangeEvent) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for ch := range f.subscribers[channel] {
		select {
		case ch <- event:
		default:
			log.Warn().Str("channel", channel).Str("event_id", event.ID).
				Msg("Subscriber channel full, skipping event")
		}
	}
}
