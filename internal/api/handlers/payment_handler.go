package handlers

import (
	"context"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// PaymentService defines the interface for the payment ledger
type PaymentService interface {
	Filter(ctx context.Context, status, query string) ([]entities.Payment, error)
	Totals(ctx context.Context) (*entities.PaymentTotals, error)
}

// PaymentHandler handles payment requests
type PaymentHandler struct {
	service PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// ListPayments handles GET /api/payments?status=&q=
func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	items, err := h.service.Filter(r.Context(), query.Get("status"), query.Get("q"))
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, items)
}

// GetTotals handles GET /api/payments/totals
func (h *PaymentHandler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.Totals(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, totals)
}
