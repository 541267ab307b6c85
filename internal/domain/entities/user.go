package entities

import (
	"fmt"
	"strings"
)

// Role gates which dashboard and data a session may access
type Role string

const (
	RoleVisitor    Role = "visitor"
	RoleSuperAdmin Role = "super-admin"
	RoleSubAdmin   Role = "sub-admin"
	RoleSecretary  Role = "secretary"
)

// Valid reports whether r is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleVisitor, RoleSuperAdmin, RoleSubAdmin, RoleSecretary:
		return true
	}
	return false
}

// ParseRole converts raw input into a role
func ParseRole(raw string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return r, nil
}

// User is the signed-in staff member
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

// Validate checks the fields a persisted session user must carry
func (u *User) Validate() error {
	if u.ID == "" {
		return fmt.Errorf("id is required")
	}
	if strings.TrimSpace(u.Name) == "" || strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("name and email are required")
	}
	if !u.Role.Valid() {
		return fmt.Errorf("unknown role %q", u.Role)
	}
	return nil
}

// ProfileUpdate carries the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name   *string `json:"name,omitempty"`
	Email  *string `json:"email,omitempty"`
	Avatar *string `json:"avatar,omitempty"`
	Phone  *string `json:"phone,omitempty"`
}

// Registration is a staff account request
type Registration struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Role            Role   `json:"role"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}
