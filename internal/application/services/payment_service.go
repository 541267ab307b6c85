package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// PaymentService reads the payment ledger
type PaymentService struct {
	repo repositories.PaymentRepository
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo repositories.PaymentRepository) *PaymentService {
	return &PaymentService{repo: repo}
}

// List returns every payment in stored order
func (s *PaymentService) List(ctx context.Context) ([]entities.Payment, error) {
	return s.repo.GetAll(ctx)
}

// Filter keeps payments with the given status ("all" or "" for any) whose patient or clinic
// name contains query
func (s *PaymentService) Filter(ctx context.Context, status, query string) ([]entities.Payment, error) {
	switch entities.PaymentStatus(status) {
	case "", "all", entities.PaymentStatusCompleted, entities.PaymentStatusPending, entities.PaymentStatusFailed:
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown payment status %q", status))
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]entities.Payment, 0, len(items))
	for _, p := range items {
		if status != "" && status != "all" && string(p.Status) != status {
			continue
		}
		if q != "" && !containsFold(q, p.PatientName, p.ClinicName) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Totals sums completed and pending amounts
func (s *PaymentService) Totals(ctx context.Context) (*entities.PaymentTotals, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	totals := &entities.PaymentTotals{}
	for _, p := range items {
		switch p.Status {
		case entities.PaymentStatusCompleted:
			totals.Completed += p.Amount
		case entities.PaymentStatusPending:
			totals.Pending += p.Amount
		}
	}
	return totals, nil
}
