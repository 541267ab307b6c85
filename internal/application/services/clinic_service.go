package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

const registerClinicFailed = "لم يتم إضافة العيادة. الرجاء المحاولة مرة أخرى."

// ClinicFilter narrows the clinic list
type ClinicFilter struct {
	// Status is "all", "" or one clinic status
	Status string
	// Query matches name, specialization and address case-insensitively
	Query string
}

// ClinicService handles the clinic registry
type ClinicService struct {
	repo     repositories.ClinicRepository
	registry providers.ClinicRegistry
	feedback Feedback
	mu       sync.Mutex
}

// NewClinicService creates a new clinic service. A nil registry keeps Register local.
func NewClinicService(repo repositories.ClinicRepository, registry providers.ClinicRegistry, feedback Feedback) *ClinicService {
	return &ClinicService{
		repo:     repo,
		registry: registry,
		feedback: feedback,
	}
}

// List returns every clinic in stored order
func (s *ClinicService) List(ctx context.Context) ([]entities.Clinic, error) {
	return s.repo.GetAll(ctx)
}

// GetByID returns one clinic
func (s *ClinicService) GetByID(ctx context.Context, id int) (*entities.Clinic, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfClinic(items, id)
	if i < 0 {
		return nil, clinicNotFound(id)
	}
	found := items[i]
	return &found, nil
}

// Add assigns the next id and persists the clinic. An empty status defaults to pending.
func (s *ClinicService) Add(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	if clinic.Status == "" {
		clinic.Status = entities.ClinicStatusPending
	}
	if err := clinic.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, clinic)
}

func (s *ClinicService) addLocked(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	maxID := 0
	for _, c := range items {
		if c.ID > maxID {
			maxID = c.ID
		}
	}
	clinic.ID = maxID + 1
	items = append(items, clinic)
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تمت الإضافة بنجاح", "تمت إضافة عيادة %s بنجاح", clinic.Name)
	s.feedback.publish(ctx, entities.ChangeEntityClinic, entities.ChangeActionCreated, entities.IntID(clinic.ID))
	return &clinic, nil
}

// Register submits the clinic to the remote API first and only stores it locally once the
// remote call succeeds. Without a registry it behaves like Add. The remote call runs
// outside the service lock.
func (s *ClinicService) Register(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	if clinic.Status == "" {
		clinic.Status = entities.ClinicStatusPending
	}
	if err := clinic.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	if s.registry != nil {
		remoteID, err := s.registry.Register(ctx, &clinic)
		if err != nil {
			if !apperrors.Is(err, apperrors.ErrorTypeExternal) {
				err = apperrors.NewExternalError(registerClinicFailed, err)
			}
			s.feedback.toast(ctx, entities.ToastDestructive, "حدث خطأ", "%s", externalMessage(err))
			return nil, err
		}
		clinic.RemoteID = remoteID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, clinic)
}

// Update overwrites the stored clinic with the same id. An empty remote id keeps the stored one.
func (s *ClinicService) Update(ctx context.Context, clinic entities.Clinic) (*entities.Clinic, error) {
	if err := clinic.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfClinic(items, clinic.ID)
	if i < 0 {
		return nil, clinicNotFound(clinic.ID)
	}
	if clinic.RemoteID == "" {
		clinic.RemoteID = items[i].RemoteID
	}

	items[i] = clinic
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم التحديث بنجاح", "تم تحديث بيانات عيادة %s بنجاح", clinic.Name)
	s.feedback.publish(ctx, entities.ChangeEntityClinic, entities.ChangeActionUpdated, entities.IntID(clinic.ID))
	return &clinic, nil
}

// ChangeStatus approves, suspends or re-opens a clinic
func (s *ClinicService) ChangeStatus(ctx context.Context, id int, status entities.ClinicStatus) (*entities.Clinic, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown clinic status %q", status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfClinic(items, id)
	if i < 0 {
		return nil, clinicNotFound(id)
	}

	items[i].Status = status
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}
	updated := items[i]

	s.feedback.toast(ctx, entities.ToastDefault, "تم تغيير الحالة", "تم تغيير حالة عيادة %s", updated.Name)
	s.feedback.publish(ctx, entities.ChangeEntityClinic, entities.ChangeActionStatusChanged, entities.IntID(id))
	return &updated, nil
}

// Delete removes exactly the clinic with id
func (s *ClinicService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return err
	}
	i := indexOfClinic(items, id)
	if i < 0 {
		return clinicNotFound(id)
	}

	deleted := items[i]
	items = append(items[:i], items[i+1:]...)
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return err
	}

	s.feedback.toast(ctx, entities.ToastDestructive, "تم الحذف بنجاح", "تم حذف عيادة %s بنجاح", deleted.Name)
	s.feedback.publish(ctx, entities.ChangeEntityClinic, entities.ChangeActionDeleted, entities.IntID(id))
	return nil
}

// CountsByStatus counts clinics per status; the three status counts sum to Total
func (s *ClinicService) CountsByStatus(ctx context.Context) (*entities.ClinicCounts, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := &entities.ClinicCounts{Total: len(items)}
	for _, c := range items {
		switch c.Status {
		case entities.ClinicStatusActive:
			counts.Active++
		case entities.ClinicStatusPending:
			counts.Pending++
		case entities.ClinicStatusSuspended:
			counts.Suspended++
		}
	}
	return counts, nil
}

// Filter narrows the clinic list by status and free-text query
func (s *ClinicService) Filter(ctx context.Context, filter ClinicFilter) ([]entities.Clinic, error) {
	var status entities.ClinicStatus
	if filter.Status != "" && filter.Status != "all" {
		parsed, err := entities.ParseClinicStatus(filter.Status)
		if err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		status = parsed
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]entities.Clinic, 0, len(items))
	for _, c := range items {
		if status != "" && c.Status != status {
			continue
		}
		if query != "" && !containsFold(query, c.Name, c.Specialization, c.Address) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func indexOfClinic(items []entities.Clinic, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func clinicNotFound(id int) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("Clinic with ID %d not found", id))
}

// externalMessage returns the user-facing message of an external error
func externalMessage(err error) string {
	var appErr *apperrors.AppError
	if asAppError(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
