package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/clinicapi"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// RemoteAPI adapts the upstream clinic API to the authentication and registration ports
type RemoteAPI struct {
	client *clinicapi.HTTPClient
}

// Ensure RemoteAPI implements the remote ports
var (
	_ providers.Authenticator    = (*RemoteAPI)(nil)
	_ providers.AccountRegistrar = (*RemoteAPI)(nil)
	_ providers.ClinicRegistry   = clinicRegistry{}
)

// NewRemoteAPI creates the remote adapter
func NewRemoteAPI(client *clinicapi.HTTPClient) *RemoteAPI {
	return &RemoteAPI{client: client}
}

// Authenticate signs in through POST /auth/login
func (r *RemoteAPI) Authenticate(ctx context.Context, email, password string) (*entities.User, error) {
	resp, err := r.client.Login(ctx, clinicapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, remoteError(err, "فشل تسجيل الدخول")
	}

	role, err := entities.ParseRole(resp.User.Role)
	if err != nil {
		return nil, apperrors.NewExternalError("unexpected role from remote API", err)
	}
	user := &entities.User{
		ID:     resp.User.ID,
		Name:   resp.User.Name,
		Email:  resp.User.Email,
		Role:   role,
		Avatar: resp.User.Avatar,
	}
	if err := user.Validate(); err != nil {
		return nil, apperrors.NewExternalError("incomplete user from remote API", err)
	}
	return user, nil
}

// Register submits a staff account through POST /auth/register
func (r *RemoteAPI) Register(ctx context.Context, reg *entities.Registration) error {
	err := r.client.Register(ctx, clinicapi.RegisterRequest{
		Name:     reg.Name,
		Email:    reg.Email,
		Phone:    reg.Phone,
		Role:     string(reg.Role),
		Password: reg.Password,
	})
	if err != nil {
		return remoteError(err, "فشل إنشاء الحساب")
	}
	return nil
}

// RegisterClinic submits a clinic through POST /SuperAdmin/add-clinics and returns the remote id
func (r *RemoteAPI) RegisterClinic(ctx context.Context, clinic *entities.Clinic) (string, error) {
	resp, err := r.client.AddClinic(ctx, clinicapi.AddClinicRequest{
		ClinicName:        clinic.Name,
		Speciality:        clinic.Specialization,
		Location:          clinic.Address,
		Email:             clinic.Email,
		PhoneNumber:       clinic.Phone,
		ClinicDescription: clinic.Description,
		Active:            clinic.Status == entities.ClinicStatusActive,
	})
	if err != nil {
		return "", remoteError(err, "لم يتم إضافة العيادة. الرجاء المحاولة مرة أخرى.")
	}
	if resp.ID == nil {
		return "", nil
	}
	switch id := resp.ID.(type) {
	case string:
		return id, nil
	case float64:
		return fmt.Sprintf("%.0f", id), nil
	default:
		return fmt.Sprint(id), nil
	}
}

type clinicRegistry struct{ *RemoteAPI }

func (c clinicRegistry) Register(ctx context.Context, clinic *entities.Clinic) (string, error) {
	return c.RegisterClinic(ctx, clinic)
}

// ClinicRegistry returns the remote API as a ClinicRegistry
func (r *RemoteAPI) ClinicRegistry() providers.ClinicRegistry {
	return clinicRegistry{r}
}

// remoteError maps upstream failures to application errors, keeping the server message when present
func remoteError(err error, fallback string) error {
	var statusErr *clinicapi.StatusError
	if errors.As(err, &statusErr) {
		message := statusErr.Message
		if message == "" {
			message = fallback
		}
		if statusErr.StatusCode == http.StatusUnauthorized {
			return apperrors.NewUnauthorizedError(message)
		}
		return apperrors.NewExternalError(message, err)
	}
	return apperrors.NewExternalError(fallback, err)
}
