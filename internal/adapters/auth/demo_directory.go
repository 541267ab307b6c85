package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// DemoPassword is the password of every demo account
const DemoPassword = "password"

type account struct {
	user         entities.User
	passwordHash []byte
}

// DemoDirectory authenticates the built-in staff accounts against bcrypt hashes
type DemoDirectory struct {
	mu       sync.RWMutex
	accounts map[string]*account
	cost     int
}

// Ensure DemoDirectory implements Authenticator and PasswordChanger
var (
	_ providers.Authenticator   = (*DemoDirectory)(nil)
	_ providers.PasswordChanger = (*DemoDirectory)(nil)
)

// DemoUsers returns the built-in staff accounts
func DemoUsers() []entities.User {
	return []entities.User{
		{ID: "1", Name: "أحمد محمد", Email: "admin@clinic.com", Role: entities.RoleSuperAdmin,
			Avatar: "https://ui-avatars.com/api/?name=Ahmed+Mohamed&background=0D8ABC&color=fff"},
		{ID: "2", Name: "محمد علي", Email: "subadmin@clinic.com", Role: entities.RoleSubAdmin,
			Avatar: "https://ui-avatars.com/api/?name=Mohamed+Ali&background=27AE60&color=fff"},
		{ID: "3", Name: "سارة أحمد", Email: "secretary@clinic.com", Role: entities.RoleSecretary,
			Avatar: "https://ui-avatars.com/api/?name=Sara+Ahmed&background=8E44AD&color=fff"},
	}
}

// NewDemoDirectory hashes DemoPassword for every demo user. cost <= 0 uses bcrypt.DefaultCost.
func NewDemoDirectory(cost int) (*DemoDirectory, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	d := &DemoDirectory{accounts: make(map[string]*account), cost: cost}
	for _, u := range DemoUsers() {
		hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), cost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash demo password: %w", err)
		}
		d.accounts[strings.ToLower(u.Email)] = &account{user: u, passwordHash: hash}
	}
	return d, nil
}

// Authenticate checks email and password
func (d *DemoDirectory) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	d.mu.RLock()
	acc, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	d.mu.RUnlock()
	if !ok {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword(acc.passwordHash, []byte(password)); err != nil {
		return nil, apperrors.NewUnauthorizedError("invalid credentials")
	}
	user := acc.user
	return &user, nil
}

// ChangePassword stores a new hash for email
func (d *DemoDirectory) ChangePassword(ctx context.Context, email, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), d.cost)
	if err != nil {
		return apperrors.NewInternalError("failed to hash password", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	acc, ok := d.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return apperrors.NewNotFoundError("account " + email + " not found")
	}
	acc.passwordHash = hash
	return nil
}
