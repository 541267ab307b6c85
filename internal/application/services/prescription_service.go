package services

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// PrescriptionRequest is what staff submit when issuing a prescription
type PrescriptionRequest struct {
	PatientID   string                `json:"patientId"`
	Medications []entities.Medication `json:"medications"`
	Notes       string                `json:"notes,omitempty"`
}

// PrescriptionService issues prescriptions to patients known from the appointment book
type PrescriptionService struct {
	prescriptions repositories.PrescriptionRepository
	appointments  repositories.AppointmentRepository
	notifications *NotificationService
	feedback      Feedback
	mu            sync.Mutex
}

// NewPrescriptionService creates a new prescription service
func NewPrescriptionService(
	prescriptions repositories.PrescriptionRepository,
	appointments repositories.AppointmentRepository,
	notifications *NotificationService,
	feedback Feedback,
) *PrescriptionService {
	return &PrescriptionService{
		prescriptions: prescriptions,
		appointments:  appointments,
		notifications: notifications,
		feedback:      feedback,
	}
}

// List returns issued prescriptions, oldest first
func (s *PrescriptionService) List(ctx context.Context) ([]entities.Prescription, error) {
	return s.prescriptions.GetAll(ctx)
}

// Patients derives the unique patients of the appointment book. Patients are keyed by phone,
// or by name when the phone is missing; the first appointment wins.
func (s *PrescriptionService) Patients(ctx context.Context) ([]entities.Patient, error) {
	appointments, err := s.appointments.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return patientsOf(appointments), nil
}

func patientsOf(appointments []entities.Appointment) []entities.Patient {
	seen := make(map[string]bool)
	out := make([]entities.Patient, 0, len(appointments))
	for _, a := range appointments {
		key := patientKey(a)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entities.Patient{
			ID:         key,
			Name:       a.PatientName,
			Phone:      a.PatientPhone,
			ClinicName: a.ClinicName,
			DoctorName: a.Doctor,
		})
	}
	return out
}

func patientKey(a entities.Appointment) string {
	if key := strings.TrimSpace(a.PatientPhone); key != "" {
		return key
	}
	return strings.TrimSpace(a.PatientName)
}

// Issue validates the request, stores the prescription dated today and records a notification
func (s *PrescriptionService) Issue(ctx context.Context, req PrescriptionRequest) (*entities.Prescription, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, apperrors.NewValidationError("الرجاء اختيار المريض")
	}
	if len(req.Medications) == 0 {
		return nil, apperrors.NewValidationError("الرجاء إضافة دواء واحد على الأقل")
	}
	for _, m := range req.Medications {
		if strings.TrimSpace(m.Name) == "" || strings.TrimSpace(m.Dosage) == "" {
			return nil, apperrors.NewValidationError("الرجاء إدخال اسم الدواء والجرعة")
		}
	}

	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}
	var patient *entities.Patient
	for i := range patients {
		if patients[i].ID == req.PatientID {
			patient = &patients[i]
			break
		}
	}
	if patient == nil {
		return nil, apperrors.NewNotFoundError("Patient " + req.PatientID + " not found")
	}

	prescription := entities.Prescription{
		ID:          uuid.New().String(),
		PatientID:   patient.ID,
		PatientName: patient.Name,
		DoctorName:  patient.DoctorName,
		ClinicName:  patient.ClinicName,
		Medications: req.Medications,
		Notes:       req.Notes,
		Date:        entities.DateOf(s.feedback.clock().Now()),
	}

	s.mu.Lock()
	items, err := s.prescriptions.GetAll(ctx)
	if err == nil {
		err = s.prescriptions.SaveAll(ctx, append(items, prescription))
	}
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if s.notifications != nil {
		_, nerr := s.notifications.Add(ctx, entities.Notification{
			Title:   "وصفة طبية جديدة",
			Message: "تم إصدار وصفة طبية للمريض " + patient.Name,
			Type:    entities.NotificationAppointment,
		})
		if nerr != nil {
			return nil, nerr
		}
	}

	s.feedback.toast(ctx, entities.ToastDefault, "تم إصدار الوصفة بنجاح", "تم إصدار وصفة طبية للمريض %s", patient.Name)
	s.feedback.publish(ctx, entities.ChangeEntityPrescription, entities.ChangeActionCreated, prescription.ID)
	return &prescription, nil
}
