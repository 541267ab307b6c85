package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// AppointmentService defines the interface for appointment operations
type AppointmentService interface {
	GetByID(ctx context.Context, id int) (*entities.Appointment, error)
	Add(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error)
	Update(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error)
	Cancel(ctx context.Context, id int) (*entities.Appointment, error)
	ChangeStatus(ctx context.Context, id int, status entities.AppointmentStatus) (*entities.Appointment, error)
	AllowedTransitions(ctx context.Context, id int) ([]entities.AppointmentStatus, error)
	Today(ctx context.Context) ([]entities.Appointment, error)
	CountsByStatus(ctx context.Context) (*entities.AppointmentCounts, error)
	Filter(ctx context.Context, filter services.AppointmentFilter) ([]entities.Appointment, error)
}

// ReminderService sends appointment reminders
type ReminderService interface {
	SendReminders(ctx context.Context, date string) (*services.ReminderReport, error)
}

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service   AppointmentService
	reminders ReminderService
}

// NewAppointmentHandler creates a new appointment handler. reminders may be nil.
func NewAppointmentHandler(service AppointmentService, reminders ReminderService) *AppointmentHandler {
	return &AppointmentHandler{
		service:   service,
		reminders: reminders,
	}
}

// ListAppointments handles GET /api/appointments?tab=&q=&date=&clinic=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.service.Filter(r.Context(), services.AppointmentFilter{
		Tab:        services.AppointmentTab(query.Get("tab")),
		Query:      query.Get("q"),
		Date:       query.Get("date"),
		ClinicName: query.Get("clinic"),
	})
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// GetAppointment handles GET /api/appointments/{id}
func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	appointment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, appointment)
}

// CreateAppointment handles POST /api/appointments
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var appointment entities.Appointment
	if err := decodeJSON(r, &appointment); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	created, err := h.service.Add(r.Context(), appointment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateAppointment handles PUT /api/appointments/{id}. The path id wins over the body.
func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var appointment entities.Appointment
	if err := decodeJSON(r, &appointment); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	appointment.ID = id

	updated, err := h.service.Update(r.Context(), appointment)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, updated)
}

// CancelAppointment handles POST /api/appointments/{id}/cancel
func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	canceled, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, canceled)
}

type statusRequest struct {
	Status string `json:"status"`
}

// ChangeAppointmentStatus handles PATCH /api/appointments/{id}/status
func (h *AppointmentHandler) ChangeAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	status, err := entities.ParseAppointmentStatus(req.Status)
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

// GetTransitions handles GET /api/appointments/{id}/transitions
func (h *AppointmentHandler) GetTransitions(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	allowed, err := h.service.AllowedTransitions(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"id":          id,
		"transitions": allowed,
	})
}

// GetToday handles GET /api/appointments/today
func (h *AppointmentHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Today(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// GetCounts handles GET /api/appointments/counts
func (h *AppointmentHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.CountsByStatus(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, counts)
}

type reminderRequest struct {
	Date string `json:"date"`
}

// SendReminders handles POST /api/appointments/reminders. An empty body targets tomorrow.
func (h *AppointmentHandler) SendReminders(w http.ResponseWriter, r *http.Request) {
	if h.reminders == nil {
		respondWithError(w, http.StatusServiceUnavailable, "reminders are not configured")
		return
	}
	var req reminderRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "invalid request payload")
			return
		}
	}

	report, err := h.reminders.SendReminders(r.Context(), req.Date)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
