package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// SettingsService defines the interface for user and site settings
type SettingsService interface {
	NotificationSettings(ctx context.Context) (*entities.NotificationSettings, error)
	SaveNotificationSettings(ctx context.Context, settings entities.NotificationSettings) error
	SystemSettings(ctx context.Context) (*entities.SystemSettings, error)
	SaveSystemSettings(ctx context.Context, settings entities.SystemSettings) error
	UserPhone(ctx context.Context) (string, error)
	SaveUserPhone(ctx context.Context, phone string) error
	Reset(ctx context.Context) error
}

// SettingsHandler handles settings requests
type SettingsHandler struct {
	service SettingsService
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(service SettingsService) *SettingsHandler {
	return &SettingsHandler{service: service}
}

// GetNotificationSettings handles GET /api/settings/notifications
func (h *SettingsHandler) GetNotificationSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.NotificationSettings(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// SaveNotificationSettings handles PUT /api/settings/notifications
func (h *SettingsHandler) SaveNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var settings entities.NotificationSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.SaveNotificationSettings(r.Context(), settings); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// GetSystemSettings handles GET /api/settings/system
func (h *SettingsHandler) GetSystemSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.SystemSettings(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

// SaveSystemSettings handles PUT /api/settings/system
func (h *SettingsHandler) SaveSystemSettings(w http.ResponseWriter, r *http.Request) {
	var settings entities.SystemSettings
	if err := decodeJSON(r, &settings); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.SaveSystemSettings(r.Context(), settings); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, settings)
}

type phoneRequest struct {
	Phone string `json:"phone"`
}

// GetUserPhone handles GET /api/settings/phone
func (h *SettingsHandler) GetUserPhone(w http.ResponseWriter, r *http.Request) {
	phone, err := h.service.UserPhone(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, phoneRequest{Phone: phone})
}

// SaveUserPhone handles PUT /api/settings/phone
func (h *SettingsHandler) SaveUserPhone(w http.ResponseWriter, r *http.Request) {
	var req phoneRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if err := h.service.SaveUserPhone(r.Context(), req.Phone); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResetSettings handles POST /api/settings/reset. Every stored collection is cleared.
func (h *SettingsHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reset(r.Context()); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
