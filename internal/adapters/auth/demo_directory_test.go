package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func TestDemoDirectory_Authenticate(t *testing.T) {
	ctx := context.Background()
	dir, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		email string
		role  entities.Role
	}{
		{email: "admin@clinic.com", role: entities.RoleSuperAdmin},
		{email: "SubAdmin@Clinic.com", role: entities.RoleSubAdmin},
		{email: "secretary@clinic.com", role: entities.RoleSecretary},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			user, err := dir.Authenticate(ctx, tt.email, DemoPassword)
			require.NoError(t, err)
			assert.Equal(t, tt.role, user.Role)
		})
	}

	_, err = dir.Authenticate(ctx, "admin@clinic.com", "wrong")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))

	_, err = dir.Authenticate(ctx, "nobody@clinic.com", DemoPassword)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
}

func TestDemoDirectory_ChangePassword(t *testing.T) {
	ctx := context.Background()
	dir, err := NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)

	require.NoError(t, dir.ChangePassword(ctx, "secretary@clinic.com", "n3w-pass"))

	_, err = dir.Authenticate(ctx, "secretary@clinic.com", DemoPassword)
	assert.Error(t, err)
	_, err = dir.Authenticate(ctx, "secretary@clinic.com", "n3w-pass")
	assert.NoError(t, err)

	err = dir.ChangePassword(ctx, "ghost@clinic.com", "x")
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeNotFound))
}
