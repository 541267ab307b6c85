package repositories

import (
	"context"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// DocumentRepository defines the interface for a single JSON value stored under one key
type DocumentRepository[T any] interface {
	// Get returns the stored value, or found=false when nothing was saved yet
	Get(ctx context.Context) (value T, found bool, err error)

	// Save overwrites the stored value
	Save(ctx context.Context, value T) error

	// Delete removes the stored value
	Delete(ctx context.Context) error
}

// ClinicHoursRepository stores the weekly opening hours of each clinic
type ClinicHoursRepository interface {
	// Get returns the saved week for clinicID, or found=false
	Get(ctx context.Context, clinicID int) (hours []entities.ClinicHour, found bool, err error)

	// Save overwrites the week for clinicID
	Save(ctx context.Context, clinicID int, hours []entities.ClinicHour) error
}

// UserSessionRepository stores one signed-in user per user id
type UserSessionRepository interface {
	// Get returns the signed-in user with userID, or found=false after logout
	Get(ctx context.Context, userID string) (user entities.User, found bool, err error)

	// Save overwrites the session of user.ID
	Save(ctx context.Context, user entities.User) error

	// Delete removes the session of userID
	Delete(ctx context.Context, userID string) error
}

// SessionRepository stores signed-in users and a pending role switch
type SessionRepository struct {
	Users         UserSessionRepository
	RequestedRole DocumentRepository[entities.Role]
}

// SettingsRepository stores per-user and site-wide settings
type SettingsRepository struct {
	Notifications DocumentRepository[entities.NotificationSettings]
	System        DocumentRepository[entities.SystemSettings]
	UserPhone     DocumentRepository[string]
}
