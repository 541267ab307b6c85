package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// NotificationService defines the interface for the notification list
type NotificationService interface {
	List(ctx context.Context) ([]entities.Notification, error)
	Add(ctx context.Context, n entities.Notification) (*entities.Notification, error)
	MarkRead(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	UnreadCount(ctx context.Context) (int, error)
}

// NotificationHandler handles notification requests
type NotificationHandler struct {
	service NotificationService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(service NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// ListNotifications handles GET /api/notifications
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	unread, err := h.service.UnreadCount(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": items,
		"unread":        unread,
	})
}

// CreateNotification handles POST /api/notifications
func (h *NotificationHandler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var n entities.Notification
	if err := decodeJSON(r, &n); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := h.service.Add(r.Context(), n)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "notification ID is required")
		return
	}
	if err := h.service.MarkRead(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearNotifications handles DELETE /api/notifications
func (h *NotificationHandler) ClearNotifications(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
