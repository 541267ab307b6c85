package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

const defaultHeartbeatInterval = 30 * time.Second

// ToastSource streams toasts raised by mutations
type ToastSource interface {
	Subscribe(ctx context.Context) <-chan entities.Toast
}

// SSEHandler handles Server-Sent Events for change and toast notifications
type SSEHandler struct {
	eventBus  providers.EventBus
	toasts    ToastSource
	heartbeat time.Duration
	clients   map[string]int // channel -> open streams
	mu        sync.RWMutex
}

// NewSSEHandler creates a new SSE handler. toasts may be nil.
func NewSSEHandler(eventBus providers.EventBus, toasts ToastSource) *SSEHandler {
	return &SSEHandler{
		eventBus:  eventBus,
		toasts:    toasts,
		heartbeat: defaultHeartbeatInterval,
		clients:   make(map[string]int),
	}
}

// WithHeartbeat overrides the heartbeat interval
func (h *SSEHandler) WithHeartbeat(interval time.Duration) *SSEHandler {
	h.heartbeat = interval
	return h
}

// StreamChanges handles SSE connections for change events
// GET /api/stream/changes?entity=clinic
func (h *SSEHandler) StreamChanges(w http.ResponseWriter, r *http.Request) {
	channel := providers.EventChannelChanges
	entity := r.URL.Query().Get("entity")
	if entity != "" {
		if !validEntity(entities.ChangeEntity(entity)) {
			respondWithError(w, http.StatusBadRequest, "unknown entity "+entity)
			return
		}
		channel = providers.GetEntityChannel(entities.ChangeEntity(entity))
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	eventChan, err := h.eventBus.Subscribe(ctx, channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("Failed to subscribe to channel")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe")
		return
	}

	var toastChan <-chan entities.Toast
	if h.toasts != nil {
		toastChan = h.toasts.Subscribe(ctx)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	h.registerClient(channel)
	defer h.unregisterClient(channel)

	h.sendEvent(w, "connected", map[string]interface{}{
		"channel":   channel,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("channel", channel).Msg("Client disconnected from change stream")
			return
		case <-ticker.C:
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			h.sendEvent(w, "change", event)
			flusher.Flush()
		case toast, ok := <-toastChan:
			if !ok {
				toastChan = nil
				continue
			}
			h.sendEvent(w, "toast", toast)
			flusher.Flush()
		}
	}
}

// ActiveClients returns the number of open streams on channel
func (h *SSEHandler) ActiveClients(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.clients[channel]
}

func (h *SSEHandler) registerClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[channel]++
	log.Debug().Str("channel", channel).Int("total", h.clients[channel]).Msg("Client registered")
}

func (h *SSEHandler) unregisterClient(channel string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[channel]--
	if h.clients[channel] <= 0 {
		delete(h.clients, channel)
	}
}

// sendEvent sends an SSE event to the client
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Str("event", eventType).Msg("Failed to marshal event data")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}

func validEntity(entity entities.ChangeEntity) bool {
	switch entity {
	case entities.ChangeEntityAppointment, entities.ChangeEntityClinic, entities.ChangeEntityClinicHours,
		entities.ChangeEntityPrescription, entities.ChangeEntityNotification, entities.ChangeEntitySession,
		entities.ChangeEntitySettings:
		return true
	}
	return false
}
