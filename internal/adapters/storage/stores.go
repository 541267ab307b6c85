package storage

import (
	"context"
	"fmt"
	"strconv"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/domain/repositories"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func intID(id int) string { return strconv.Itoa(id) }

// NewAppointmentStore returns the appointment book, seeded with DemoAppointments
func NewAppointmentStore(store providers.KeyValueStore) repositories.AppointmentRepository {
	return NewCollection(store, KeyAppointments,
		WithSeed(DemoAppointments),
		WithValidation(func(a *entities.Appointment) error { return a.Validate() }),
		WithUniqueID(func(a *entities.Appointment) string { return intID(a.ID) }),
	)
}

// NewClinicStore returns the clinic registry, seeded with DemoClinics
func NewClinicStore(store providers.KeyValueStore) repositories.ClinicRepository {
	return NewCollection(store, KeyClinics,
		WithSeed(DemoClinics),
		WithValidation(func(c *entities.Clinic) error { return c.Validate() }),
		WithUniqueID(func(c *entities.Clinic) string { return intID(c.ID) }),
	)
}

// NewPaymentStore returns the payment ledger, seeded with DemoPayments
func NewPaymentStore(store providers.KeyValueStore) repositories.PaymentRepository {
	return NewCollection(store, KeyPayments,
		WithSeed(DemoPayments),
		WithValidation(func(p *entities.Payment) error { return p.Validate() }),
		WithUniqueID(func(p *entities.Payment) string { return intID(p.ID) }),
	)
}

// NewPrescriptionStore returns issued prescriptions; it starts empty
func NewPrescriptionStore(store providers.KeyValueStore) repositories.PrescriptionRepository {
	return NewCollection(store, KeyPrescriptions,
		WithValidation(func(p *entities.Prescription) error { return p.Validate() }),
		WithUniqueID(func(p *entities.Prescription) string { return p.ID }),
	)
}

// NewNotificationStore returns the user's notification list; it starts empty
func NewNotificationStore(store providers.KeyValueStore) repositories.NotificationRepository {
	return NewCollection(store, KeyUserNotifications,
		WithValidation(func(n *entities.Notification) error { return n.Validate() }),
		WithUniqueID(func(n *entities.Notification) string { return n.ID }),
	)
}

// NewSessionStore returns the per-user session documents and the pending role document
func NewSessionStore(store providers.KeyValueStore) repositories.SessionRepository {
	return repositories.SessionRepository{
		Users: &UserSessionStore{store: store},
		RequestedRole: NewDocument(store, KeyRequestedRole, func(r *entities.Role) error {
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", *r)
			}
			return nil
		}),
	}
}

// NewSettingsStore returns the settings documents
func NewSettingsStore(store providers.KeyValueStore) repositories.SettingsRepository {
	return repositories.SettingsRepository{
		Notifications: NewDocument[entities.NotificationSettings](store, KeyNotificationSettings, nil),
		System:        NewDocument[entities.SystemSettings](store, KeySystemSettings, nil),
		UserPhone:     NewDocument[string](store, KeyUserPhone, nil),
	}
}

// ClinicHoursStore keeps each clinic's week under its own key
type ClinicHoursStore struct {
	store providers.KeyValueStore
}

// NewClinicHoursStore creates a clinic hours store
func NewClinicHoursStore(store providers.KeyValueStore) *ClinicHoursStore {
	return &ClinicHoursStore{store: store}
}

func (s *ClinicHoursStore) doc(clinicID int) *Document[[]entities.ClinicHour] {
	return NewDocument(s.store, ClinicHoursKey(clinicID), func(hours *[]entities.ClinicHour) error {
		for _, h := range *hours {
			if err := h.Validate(); err != nil {
				return err
			}
		}
		return nil
	})
}

// Get returns the saved week for clinicID, or found=false
func (s *ClinicHoursStore) Get(ctx context.Context, clinicID int) ([]entities.ClinicHour, bool, error) {
	return s.doc(clinicID).Get(ctx)
}

// Save overwrites the week for clinicID
func (s *ClinicHoursStore) Save(ctx context.Context, clinicID int, hours []entities.ClinicHour) error {
	return s.doc(clinicID).Save(ctx, hours)
}

// UserSessionStore keeps each signed-in user under its own key
type UserSessionStore struct {
	store providers.KeyValueStore
}

func (s *UserSessionStore) doc(userID string) *Document[entities.User] {
	return NewDocument(s.store, ClinicUserKey(userID), func(u *entities.User) error {
		if u.ID != userID {
			return fmt.Errorf("session %s holds user %s", userID, u.ID)
		}
		return u.Validate()
	})
}

// Get returns the signed-in user with userID, or found=false
func (s *UserSessionStore) Get(ctx context.Context, userID string) (entities.User, bool, error) {
	return s.doc(userID).Get(ctx)
}

// Save overwrites the session of user.ID
func (s *UserSessionStore) Save(ctx context.Context, user entities.User) error {
	if user.ID == "" {
		return apperrors.NewInternalError("failed to save session", fmt.Errorf("user has no id"))
	}
	return s.doc(user.ID).Save(ctx, user)
}

// Delete removes the session of userID
func (s *UserSessionStore) Delete(ctx context.Context, userID string) error {
	return s.doc(userID).Delete(ctx)
}

// Reset removes every stored key so the next access reseeds the demo data
func Reset(ctx context.Context, store providers.KeyValueStore) error {
	if err := store.Clear(ctx); err != nil {
		return apperrors.NewInternalError("failed to reset store", err)
	}
	return nil
}
