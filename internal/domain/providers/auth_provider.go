package providers

import (
	"context"
	"time"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
)

// Authenticator verifies staff credentials
type Authenticator interface {
	// Authenticate returns the user for valid credentials or an unauthorized error
	Authenticate(ctx context.Context, email, password string) (*entities.User, error)
}

// TokenIssuer signs and verifies session tokens
type TokenIssuer interface {
	Issue(user *entities.User) (token string, expiresAt time.Time, err error)
	Verify(token string) (*TokenClaims, error)
}

// TokenClaims are the identity fields carried by a session token
type TokenClaims struct {
	UserID    string
	Role      entities.Role
	ExpiresAt time.Time
}

// AccountRegistrar submits staff registrations to the remote API
type AccountRegistrar interface {
	Register(ctx context.Context, req *entities.Registration) error
}

// ClinicRegistry submits clinic registrations to the remote API
type ClinicRegistry interface {
	// Register returns the remote id assigned to the clinic, which may be empty
	Register(ctx context.Context, clinic *entities.Clinic) (string, error)
}

// PasswordChanger is implemented by authenticators that can store a new password
type PasswordChanger interface {
	ChangePassword(ctx context.Context, email, newPassword string) error
}
