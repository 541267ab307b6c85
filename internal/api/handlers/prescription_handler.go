package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// PrescriptionService defines the interface for prescription operations
type PrescriptionService interface {
	List(ctx context.Context) ([]entities.Prescription, error)
	Patients(ctx context.Context) ([]entities.Patient, error)
	Issue(ctx context.Context, req services.PrescriptionRequest) (*entities.Prescription, error)
}

// PrescriptionHandler handles prescription requests
type PrescriptionHandler struct {
	service PrescriptionService
}

// NewPrescriptionHandler creates a new prescription handler
func NewPrescriptionHandler(service PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

// ListPrescriptions handles GET /api/prescriptions
func (h *PrescriptionHandler) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// ListPatients handles GET /api/patients
func (h *PrescriptionHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.service.Patients(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, patients)
}

// IssuePrescription handles POST /api/prescriptions
func (h *PrescriptionHandler) IssuePrescription(w http.ResponseWriter, r *http.Request) {
	var req services.PrescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	issued, err := h.service.Issue(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, issued)
}
