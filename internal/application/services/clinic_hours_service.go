package services

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// ClinicHoursService handles the weekly opening hours of each clinic
type ClinicHoursService struct {
	hours    repositories.ClinicHoursRepository
	clinics  repositories.ClinicRepository
	feedback Feedback
}

// NewClinicHoursService creates a new clinic hours service
func NewClinicHoursService(hours repositories.ClinicHoursRepository, clinics repositories.ClinicRepository, feedback Feedback) *ClinicHoursService {
	return &ClinicHoursService{
		hours:    hours,
		clinics:  clinics,
		feedback: feedback,
	}
}

// Get returns the saved week for clinicID, or the default week when none was saved
func (s *ClinicHoursService) Get(ctx context.Context, clinicID int) ([]entities.ClinicHour, error) {
	if err := s.requireClinic(ctx, clinicID); err != nil {
		return nil, err
	}

	hours, found, err := s.hours.Get(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	if !found {
		return entities.DefaultClinicHours(), nil
	}
	return hours, nil
}

// Save validates and stores the week for clinicID
func (s *ClinicHoursService) Save(ctx context.Context, clinicID int, hours []entities.ClinicHour) ([]entities.ClinicHour, error) {
	if len(hours) == 0 {
		return nil, apperrors.NewValidationError("at least one day is required")
	}
	seen := make(map[string]bool, len(hours))
	for _, h := range hours {
		if err := h.Validate(); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		if seen[h.Day] {
			return nil, apperrors.NewValidationError("duplicate day " + h.Day)
		}
		seen[h.Day] = true
	}
	if err := s.requireClinic(ctx, clinicID); err != nil {
		return nil, err
	}

	if err := s.hours.Save(ctx, clinicID, hours); err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم الحفظ بنجاح", "تم حفظ ساعات العمل بنجاح")
	s.feedback.publish(ctx, entities.ChangeEntityClinicHours, entities.ChangeActionUpdated, entities.IntID(clinicID))
	return hours, nil
}

func (s *ClinicHoursService) requireClinic(ctx context.Context, clinicID int) error {
	clinics, err := s.clinics.GetAll(ctx)
	if err != nil {
		return err
	}
	if indexOfClinic(clinics, clinicID) < 0 {
		return clinicNotFound(clinicID)
	}
	return nil
}
