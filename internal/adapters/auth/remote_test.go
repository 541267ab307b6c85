package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/clinicapi"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

func newRemote(t *testing.T, handler http.HandlerFunc) *RemoteAPI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewRemoteAPI(clinicapi.NewClient(server.URL, time.Second))
}

func TestRemoteAPI_Authenticate(t *testing.T) {
	remote := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		var body clinicapi.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Password != "password" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"بيانات الدخول غير صحيحة"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"id":"9","name":"Huda","email":"huda@clinic.com","role":"sub-admin"}}`))
	})

	user, err := remote.Authenticate(context.Background(), "huda@clinic.com", "password")
	require.NoError(t, err)
	assert.Equal(t, entities.RoleSubAdmin, user.Role)

	_, err = remote.Authenticate(context.Background(), "huda@clinic.com", "nope")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeUnauthorized))
	assert.Contains(t, err.Error(), "بيانات الدخول غير صحيحة")
}

func TestRemoteAPI_RegisterClinic(t *testing.T) {
	remote := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/SuperAdmin/add-clinics", r.URL.Path)
		var body clinicapi.AddClinicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "عيادة الوفاء", body.ClinicName)
		assert.Equal(t, "طب الأسنان", body.Speciality)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":17,"message":"created"}`))
	})

	id, err := remote.ClinicRegistry().Register(context.Background(), &entities.Clinic{
		Name: "عيادة الوفاء", Specialization: "طب الأسنان", Status: entities.ClinicStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, "17", id)
}

func TestRemoteAPI_RegisterFailureKeepsServerMessage(t *testing.T) {
	remote := newRemote(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"message":"البريد الإلكتروني مستخدم"}`))
	})

	err := remote.Register(context.Background(), &entities.Registration{Name: "x", Email: "x@clinic.com"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeExternal))

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "البريد الإلكتروني مستخدم", appErr.Message)
}

func TestRemoteAPI_Unreachable(t *testing.T) {
	remote := NewRemoteAPI(clinicapi.NewClient("http://127.0.0.1:1", 200*time.Millisecond))
	_, err := remote.ClinicRegistry().Register(context.Background(), &entities.Clinic{Name: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrorTypeExternal))
}
