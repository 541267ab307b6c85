package routes_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zatekoja/clinicdesk/internal/adapters/auth"
	"github.com/zatekoja/clinicdesk/internal/adapters/events"
	"github.com/zatekoja/clinicdesk/internal/adapters/kvstore"
	"github.com/zatekoja/clinicdesk/internal/adapters/notify"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/api/handlers"
	"github.com/zatekoja/clinicdesk/internal/api/routes"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

var today = time.Date(2025, 4, 7, 10, 0, 0, 0, time.UTC)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()

	store := kvstore.NewMemoryStore("")
	bus := events.NewMemoryEventBus()
	hub := notify.NewHub()
	clock := providers.FixedClock{At: today}
	feedback := services.Feedback{Notifier: hub, Events: bus, Clock: clock}

	directory, err := auth.NewDemoDirectory(bcrypt.MinCost)
	require.NoError(t, err)
	tokens := auth.NewJWTIssuer("test-secret", time.Hour, clock)

	appointmentRepo := storage.NewAppointmentStore(store)
	clinicRepo := storage.NewClinicStore(store)
	prescriptionRepo := storage.NewPrescriptionStore(store)
	settingsRepo := storage.NewSettingsStore(store)

	appointments := services.NewAppointmentService(appointmentRepo, nil, feedback)
	clinics := services.NewClinicService(clinicRepo, nil, feedback)
	payments := services.NewPaymentService(storage.NewPaymentStore(store))
	notifications := services.NewNotificationService(storage.NewNotificationStore(store), feedback)

	router := routes.NewRouter(routes.Handlers{
		Appointments: handlers.NewAppointmentHandler(appointments, nil),
		Clinics: handlers.NewClinicHandler(clinics,
			services.NewClinicHoursService(storage.NewClinicHoursStore(store), clinicRepo, feedback)),
		Prescriptions: handlers.NewPrescriptionHandler(
			services.NewPrescriptionService(prescriptionRepo, appointmentRepo, notifications, feedback)),
		Payments:      handlers.NewPaymentHandler(payments),
		Session:       handlers.NewSessionHandler(services.NewSessionService(storage.NewSessionStore(store), settingsRepo.UserPhone, directory, tokens, nil, feedback)),
		Notifications: handlers.NewNotificationHandler(notifications),
		Settings:      handlers.NewSettingsHandler(services.NewSettingsService(settingsRepo, store, feedback)),
		Search: handlers.NewSearchHandler(
			services.NewSearchService(clinicRepo, appointmentRepo, prescriptionRepo, nil),
			services.NewDashboardService(appointments, clinics, payments)),
		SSE: handlers.NewSSEHandler(bus, hub),
	}, tokens, []string{"*"}, nil)

	return router.SetupRoutes()
}

func login(t *testing.T, api http.Handler, email string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"email": email, "password": auth.DemoPassword})
	w := httptest.NewRecorder()
	api.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/session/login", bytes.NewBuffer(body)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result services.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.NotEmpty(t, result.Token)
	return result.Token
}

func call(api http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)
	return w
}

func TestRouter_Health(t *testing.T) {
	api := newTestAPI(t)
	w := call(api, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestRouter_Readiness(t *testing.T) {
	w := call(newTestAPI(t), http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "READY", w.Body.String())
}

func TestRouter_RoleGating(t *testing.T) {
	api := newTestAPI(t)
	secretary := login(t, api, "secretary@clinic.com")
	admin := login(t, api, "admin@clinic.com")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"anonymous appointments", http.MethodGet, "/api/appointments", "", http.StatusUnauthorized},
		{"secretary appointments", http.MethodGet, "/api/appointments", secretary, http.StatusOK},
		{"secretary payments", http.MethodGet, "/api/payments", secretary, http.StatusForbidden},
		{"admin payments", http.MethodGet, "/api/payments", admin, http.StatusOK},
		{"secretary system settings", http.MethodGet, "/api/settings/system", secretary, http.StatusForbidden},
		{"admin prescriptions", http.MethodGet, "/api/prescriptions", admin, http.StatusForbidden},
		{"secretary patients", http.MethodGet, "/api/patients", secretary, http.StatusOK},
		{"secretary clinic delete", http.MethodDelete, "/api/clinics/1", secretary, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(api, tt.method, tt.path, tt.token, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestRouter_SessionsArePerUser(t *testing.T) {
	api := newTestAPI(t)
	secretary := login(t, api, "secretary@clinic.com")
	admin := login(t, api, "admin@clinic.com")

	me := func(token string) entities.User {
		t.Helper()
		w := call(api, http.MethodGet, "/api/session/me", token, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var user entities.User
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
		return user
	}

	assert.Equal(t, "secretary@clinic.com", me(secretary).Email)
	assert.Equal(t, entities.RoleSecretary, me(secretary).Role)
	assert.Equal(t, "admin@clinic.com", me(admin).Email)

	w := call(api, http.MethodGet, "/api/session/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = call(api, http.MethodPatch, "/api/session/profile", secretary, `{"name":"سارة محمد"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "سارة محمد", me(secretary).Name)
	assert.Equal(t, "أحمد محمد", me(admin).Name)

	w = call(api, http.MethodPost, "/api/session/logout", secretary, "")
	require.Equal(t, http.StatusNoContent, w.Code)
	w = call(api, http.MethodGet, "/api/session/me", secretary, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "admin@clinic.com", me(admin).Email)
}

func TestRouter_AppointmentFlow(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "secretary@clinic.com")

	w := call(api, http.MethodGet, "/api/appointments/counts", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var counts entities.AppointmentCounts
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &counts))
	assert.Equal(t, 3, counts.Today)
	assert.Equal(t, counts.Today, counts.Scheduled+counts.InProgress+counts.Completed+counts.Canceled)

	w = call(api, http.MethodPost, "/api/appointments", token,
		`{"patientName":"Ahmed Saleh","patientPhone":"0555000111","date":"2025-04-09","time":"12:00","doctor":"د. هند السعيد","status":"scheduled","clinicName":"عيادة الأطفال"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created entities.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, 7, created.ID)

	w = call(api, http.MethodPatch, "/api/appointments/7/status", token, `{"status":"completed"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = call(api, http.MethodGet, "/api/appointments?tab=completed&q=ahmed", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var completed []entities.Appointment
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &completed))
	require.Len(t, completed, 1)
	assert.Equal(t, 7, completed[0].ID)

	w = call(api, http.MethodPost, "/api/appointments/99/cancel", token, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_ClinicFlow(t *testing.T) {
	api := newTestAPI(t)
	token := login(t, api, "admin@clinic.com")

	w := call(api, http.MethodGet, "/api/clinics/counts", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"active":4,"pending":2,"suspended":1,"total":7}`, w.Body.String())

	w = call(api, http.MethodDelete, "/api/clinics/4", token, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = call(api, http.MethodGet, "/api/clinics", token, "")
	var clinics []entities.Clinic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &clinics))
	assert.Len(t, clinics, 6)

	w = call(api, http.MethodGet, "/api/dashboard/super-admin", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"clinicsCount":6`)
}

func TestRouter_Preflight(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/appointments", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	api.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
