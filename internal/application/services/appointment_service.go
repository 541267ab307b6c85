package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// AppointmentTab selects one of the appointment list views
type AppointmentTab string

const (
	AppointmentTabAll       AppointmentTab = "all"
	AppointmentTabToday     AppointmentTab = "today"
	AppointmentTabUpcoming  AppointmentTab = "upcoming"
	AppointmentTabCompleted AppointmentTab = "completed"
)

// AppointmentFilter combines a tab with optional exact and free-text filters
type AppointmentFilter struct {
	Tab AppointmentTab
	// Query matches patient, clinic and doctor names case-insensitively
	Query string
	// Date and ClinicName are exact matches when non-empty
	Date       string
	ClinicName string
}

// AppointmentService handles the appointment book
type AppointmentService struct {
	repo     repositories.AppointmentRepository
	policy   entities.TransitionPolicy
	feedback Feedback
	mu       sync.Mutex
}

// NewAppointmentService creates a new appointment service. A nil policy accepts every status change.
func NewAppointmentService(repo repositories.AppointmentRepository, policy entities.TransitionPolicy, feedback Feedback) *AppointmentService {
	if policy == nil {
		policy = entities.PermissiveTransitions
	}
	return &AppointmentService{
		repo:     repo,
		policy:   policy,
		feedback: feedback,
	}
}

// Policy returns the active transition policy
func (s *AppointmentService) Policy() entities.TransitionPolicy {
	return s.policy
}

// List returns every appointment in stored order
func (s *AppointmentService) List(ctx context.Context) ([]entities.Appointment, error) {
	return s.repo.GetAll(ctx)
}

// GetByID returns one appointment
func (s *AppointmentService) GetByID(ctx context.Context, id int) (*entities.Appointment, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfAppointment(items, id)
	if i < 0 {
		return nil, appointmentNotFound(id)
	}
	found := items[i]
	return &found, nil
}

// Add assigns the next id (max+1, or 1 when empty), appends and persists the record.
// An empty status defaults to scheduled; the policy decides which statuses a record may start in.
func (s *AppointmentService) Add(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error) {
	if appointment.Status == "" {
		appointment.Status = entities.AppointmentStatusScheduled
	}
	if err := appointment.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	if err := s.policy.AllowInitial(appointment.Status); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	appointment.ID = nextAppointmentID(items)
	items = append(items, appointment)
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تمت الإضافة بنجاح", "تم إضافة موعد لـ %s بنجاح", appointment.PatientName)
	s.feedback.publish(ctx, entities.ChangeEntityAppointment, entities.ChangeActionCreated, entities.IntID(appointment.ID))
	return &appointment, nil
}

// Update overwrites the stored record with the same id. Unknown ids and status changes the
// policy rejects leave the store untouched.
func (s *AppointmentService) Update(ctx context.Context, appointment entities.Appointment) (*entities.Appointment, error) {
	if err := appointment.Validate(); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfAppointment(items, appointment.ID)
	if i < 0 {
		return nil, appointmentNotFound(appointment.ID)
	}
	if err := s.policy.Allow(items[i].Status, appointment.Status); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	items[i] = appointment
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم التحديث بنجاح", "تم تحديث موعد المريض %s بنجاح", appointment.PatientName)
	s.feedback.publish(ctx, entities.ChangeEntityAppointment, entities.ChangeActionUpdated, entities.IntID(appointment.ID))
	return &appointment, nil
}

// Cancel marks the appointment canceled. The record is kept.
func (s *AppointmentService) Cancel(ctx context.Context, id int) (*entities.Appointment, error) {
	updated, err := s.setStatus(ctx, id, entities.AppointmentStatusCanceled)
	if err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDestructive, "تم الإلغاء بنجاح", "تم إلغاء موعد المريض %s بنجاح", updated.PatientName)
	s.feedback.publish(ctx, entities.ChangeEntityAppointment, entities.ChangeActionStatusChanged, entities.IntID(id))
	return updated, nil
}

// ChangeStatus moves the appointment to status when the transition policy allows it
func (s *AppointmentService) ChangeStatus(ctx context.Context, id int, status entities.AppointmentStatus) (*entities.Appointment, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown appointment status %q", status))
	}

	updated, err := s.setStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم تغيير الحالة", "تم تغيير حالة الموعد إلى %s", status.Label())
	s.feedback.publish(ctx, entities.ChangeEntityAppointment, entities.ChangeActionStatusChanged, entities.IntID(id))
	return updated, nil
}

func (s *AppointmentService) setStatus(ctx context.Context, id int, status entities.AppointmentStatus) (*entities.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfAppointment(items, id)
	if i < 0 {
		return nil, appointmentNotFound(id)
	}
	if err := s.policy.Allow(items[i].Status, status); err != nil {
		return nil, apperrors.NewConflictError(err.Error())
	}

	items[i].Status = status
	if err := s.repo.SaveAll(ctx, items); err != nil {
		return nil, err
	}
	updated := items[i]
	return &updated, nil
}

// AllowedTransitions lists the statuses the appointment may move to under the active policy
func (s *AppointmentService) AllowedTransitions(ctx context.Context, id int) ([]entities.AppointmentStatus, error) {
	appointment, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.policy.Targets(appointment.Status), nil
}

// Today returns the appointments dated today on the service clock
func (s *AppointmentService) Today(ctx context.Context) ([]entities.Appointment, error) {
	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterAppointments(items, s.today(), AppointmentFilter{Tab: AppointmentTabToday}), nil
}

// CountsByStatus counts today's appointments per status. The four status counts sum to Today.
func (s *AppointmentService) CountsByStatus(ctx context.Context) (*entities.AppointmentCounts, error) {
	todays, err := s.Today(ctx)
	if err != nil {
		return nil, err
	}

	counts := &entities.AppointmentCounts{Today: len(todays)}
	for _, a := range todays {
		switch a.Status {
		case entities.AppointmentStatusScheduled:
			counts.Scheduled++
		case entities.AppointmentStatusInProgress:
			counts.InProgress++
		case entities.AppointmentStatusCompleted:
			counts.Completed++
		case entities.AppointmentStatusCanceled:
			counts.Canceled++
		}
	}
	return counts, nil
}

// Filter applies the tab, exact date and clinic filters and the free-text query
func (s *AppointmentService) Filter(ctx context.Context, filter AppointmentFilter) ([]entities.Appointment, error) {
	switch filter.Tab {
	case "", AppointmentTabAll, AppointmentTabToday, AppointmentTabUpcoming, AppointmentTabCompleted:
	default:
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown tab %q", filter.Tab))
	}

	items, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return filterAppointments(items, s.today(), filter), nil
}

func (s *AppointmentService) today() string {
	return entities.DateOf(s.feedback.clock().Now())
}

// filterAppointments keeps stored order. Dates compare lexically, which matches
// chronological order for zero-padded YYYY-MM-DD.
func filterAppointments(items []entities.Appointment, today string, filter AppointmentFilter) []entities.Appointment {
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	out := make([]entities.Appointment, 0, len(items))
	for _, a := range items {
		switch filter.Tab {
		case AppointmentTabToday:
			if a.Date != today {
				continue
			}
		case AppointmentTabUpcoming:
			if !(a.Date > today && a.Status == entities.AppointmentStatusScheduled) {
				continue
			}
		case AppointmentTabCompleted:
			if a.Status != entities.AppointmentStatusCompleted {
				continue
			}
		}
		if filter.Date != "" && a.Date != filter.Date {
			continue
		}
		if filter.ClinicName != "" && a.ClinicName != filter.ClinicName {
			continue
		}
		if query != "" && !containsFold(query, a.PatientName, a.ClinicName, a.Doctor) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// containsFold reports whether any field contains the already lower-cased query
func containsFold(query string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

func nextAppointmentID(items []entities.Appointment) int {
	maxID := 0
	for _, a := range items {
		if a.ID > maxID {
			maxID = a.ID
		}
	}
	return maxID + 1
}

func indexOfAppointment(items []entities.Appointment, id int) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func appointmentNotFound(id int) error {
	return apperrors.NewNotFoundError(fmt.Sprintf("Appointment with ID %d not found", id))
}
