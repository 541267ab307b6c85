package repositories

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// CollectionRepository defines the interface for a collection persisted as one JSON array
type CollectionRepository[T any] interface {
	// GetAll returns the ordered collection, seeding it on first access
	GetAll(ctx context.Context) ([]T, error)

	// SaveAll overwrites the collection in a single write
	SaveAll(ctx context.Context, items []T) error
}

// AppointmentRepository stores the appointment book
type AppointmentRepository = CollectionRepository[entities.Appointment]

// ClinicRepository stores registered clinics
type ClinicRepository = CollectionRepository[entities.Clinic]

// PaymentRepository stores patient payments
type PaymentRepository = CollectionRepository[entities.Payment]

// PrescriptionRepository stores issued prescriptions
type PrescriptionRepository = CollectionRepository[entities.Prescription]

// NotificationRepository stores the signed-in user's notifications, newest first
type NotificationRepository = CollectionRepository[entities.Notification]
