package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// ClinicService defines the interface for clinic registry operations
type ClinicService interface {
	GetByID(ctx context.Context, id int) (*entities.Clinic, error)
	Add(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error)
	Register(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error)
	Update(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error)
	ChangeStatus(ctx context.Context, id int, status entities.ClinicStatus) (*entities.Clinic, error)
	Delete(ctx context.Context, id int) error
	CountsByStatus(ctx context.Context) (*entities.ClinicCounts, error)
	Filter(ctx context.Context, filter services.ClinicFilter) ([]entities.Clinic, error)
}

// ClinicHoursService defines the interface for weekly opening hours
type ClinicHoursService interface {
	Get(ctx context.Context, clinicID int) ([]entities.ClinicHour, error)
	Save(ctx context.Context, clinicID int, hours []entities.ClinicHour) ([]entities.ClinicHour, error)
}

// ClinicHandler handles clinic requests
type ClinicHandler struct {
	service ClinicService
	hours   ClinicHoursService
}

// NewClinicHandler creates a new clinic handler
func NewClinicHandler(service ClinicService, hours ClinicHoursService) *ClinicHandler {
	return &ClinicHandler{
		service: service,
		hours:   hours,
	}
}

// ListClinics handles GET /api/clinics?status=&q=
func (h *ClinicHandler) ListClinics(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.service.Filter(r.Context(), services.ClinicFilter{
		Status: query.Get("status"),
		Query:  query.Get("q"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// GetClinic handles GET /api/clinics/{id}
func (h *ClinicHandler) GetClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	clinic, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, clinic)
}

// CreateClinic handles POST /api/clinics
func (h *ClinicHandler) CreateClinic(w http.ResponseWriter, r *http.Request) {
	var clinic entities.Clinic
	if err := decodeJSON(r, &clinic); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := h.service.Add(r.Context(), clinic)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// RegisterClinic handles POST /api/clinics/register. The clinic is submitted to the
// remote API before it is stored.
func (h *ClinicHandler) RegisterClinic(w http.ResponseWriter, r *http.Request) {
	var clinic entities.Clinic
	if err := decodeJSON(r, &clinic); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	created, err := h.service.Register(r.Context(), clinic)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateClinic handles PUT /api/clinics/{id}
func (h *ClinicHandler) UpdateClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var clinic entities.Clinic
	if err := decodeJSON(r, &clinic); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	clinic.ID = id

	updated, err := h.service.Update(r.Context(), clinic)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// ChangeClinicStatus handles PATCH /api/clinics/{id}/status
func (h *ClinicHandler) ChangeClinicStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	status, err := entities.ParseClinicStatus(req.Status)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.service.ChangeStatus(r.Context(), id, status)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteClinic handles DELETE /api/clinics/{id}
func (h *ClinicHandler) DeleteClinic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		respondWithAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCounts handles GET /api/clinics/counts
func (h *ClinicHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountsByStatus(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, counts)
}

// GetHours handles GET /api/clinics/{id}/hours
func (h *ClinicHandler) GetHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	hours, err := h.hours.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, hours)
}

// SaveHours handles PUT /api/clinics/{id}/hours
func (h *ClinicHandler) SaveHours(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var hours []entities.ClinicHour
	if err := decodeJSON(r, &hours); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	saved, err := h.hours.Save(r.Context(), id, hours)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}
