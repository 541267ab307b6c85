package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/zatekoja/clinicdesk/internal/api/handlers"
	"github.com/zatekoja/clinicdesk/internal/api/middleware"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

// Handlers groups every route handler
type Handlers struct {
	Appointments  *handlers.AppointmentHandler
	Clinics       *handlers.ClinicHandler
	Prescriptions *handlers.PrescriptionHandler
	Payments      *handlers.PaymentHandler
	Session       *handlers.SessionHandler
	Notifications *handlers.NotificationHandler
	Settings      *handlers.SettingsHandler
	Search        *handlers.SearchHandler
	SSE           *handlers.SSEHandler
}

// Router holds all route handlers
type Router struct {
	mux            *http.ServeMux
	handlers       Handlers
	tokens         providers.TokenIssuer
	allowedOrigins []string
	metrics        *observability.Metrics
	ready          func(context.Context) error
}

// NewRouter creates a new router. metrics may be nil.
func NewRouter(h Handlers, tokens providers.TokenIssuer, allowedOrigins []string, metrics *observability.Metrics) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		handlers:       h,
		tokens:         tokens,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// WithReadiness makes GET /ready report the result of check
func (r *Router) WithReadiness(check func(context.Context) error) *Router {
	r.ready = check
	return r
}

var (
	superAdmin = entities.RoleSuperAdmin
	subAdmin   = entities.RoleSubAdmin
	secretary  = entities.RoleSecretary
)

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	staff := middleware.RequireRole()
	admins := middleware.RequireRole(superAdmin, subAdmin)
	desk := middleware.RequireRole(subAdmin, secretary)

	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})
	r.mux.HandleFunc("GET /ready", r.readiness)

	// Session endpoints
	session := r.handlers.Session
	r.mux.HandleFunc("POST /api/session/login", session.Login)
	r.mux.HandleFunc("POST /api/session/register", session.Register)
	r.mux.HandleFunc("GET /api/session/requested-role", session.GetRequestedRole)
	r.mux.HandleFunc("GET /api/session/me", staff(session.Me))
	r.mux.HandleFunc("POST /api/session/logout", staff(session.Logout))
	r.mux.HandleFunc("POST /api/session/switch-role", staff(session.SwitchRole))
	r.mux.HandleFunc("PATCH /api/session/profile", staff(session.UpdateProfile))
	r.mux.HandleFunc("POST /api/session/password", staff(session.ChangePassword))

	// Appointment endpoints
	appts := r.handlers.Appointments
	r.mux.HandleFunc("GET /api/appointments", staff(appts.ListAppointments))
	r.mux.HandleFunc("GET /api/appointments/today", staff(appts.GetToday))
	r.mux.HandleFunc("GET /api/appointments/counts", staff(appts.GetCounts))
	r.mux.HandleFunc("GET /api/appointments/{id}", staff(appts.GetAppointment))
	r.mux.HandleFunc("GET /api/appointments/{id}/transitions", staff(appts.GetTransitions))
	r.mux.HandleFunc("POST /api/appointments", desk(appts.CreateAppointment))
	r.mux.HandleFunc("PUT /api/appointments/{id}", desk(appts.UpdateAppointment))
	r.mux.HandleFunc("POST /api/appointments/{id}/cancel", desk(appts.CancelAppointment))
	r.mux.HandleFunc("PATCH /api/appointments/{id}/status", desk(appts.ChangeAppointmentStatus))
	r.mux.HandleFunc("POST /api/appointments/reminders", admins(appts.SendReminders))

	// Clinic endpoints
	clinics := r.handlers.Clinics
	r.mux.HandleFunc("GET /api/clinics", staff(clinics.ListClinics))
	r.mux.HandleFunc("GET /api/clinics/counts", staff(clinics.GetCounts))
	r.mux.HandleFunc("GET /api/clinics/{id}", staff(clinics.GetClinic))
	r.mux.HandleFunc("GET /api/clinics/{id}/hours", staff(clinics.GetHours))
	r.mux.HandleFunc("POST /api/clinics", admins(clinics.CreateClinic))
	r.mux.HandleFunc("POST /api/clinics/register", admins(clinics.RegisterClinic))
	r.mux.HandleFunc("PUT /api/clinics/{id}", admins(clinics.UpdateClinic))
	r.mux.HandleFunc("PUT /api/clinics/{id}/hours", admins(clinics.SaveHours))
	r.mux.HandleFunc("PATCH /api/clinics/{id}/status", middleware.RequireRole(superAdmin)(clinics.ChangeClinicStatus))
	r.mux.HandleFunc("DELETE /api/clinics/{id}", middleware.RequireRole(superAdmin)(clinics.DeleteClinic))

	// Prescription endpoints
	rx := r.handlers.Prescriptions
	r.mux.HandleFunc("GET /api/prescriptions", desk(rx.ListPrescriptions))
	r.mux.HandleFunc("POST /api/prescriptions", desk(rx.IssuePrescription))
	r.mux.HandleFunc("GET /api/patients", desk(rx.ListPatients))

	// Payment endpoints
	payments := r.handlers.Payments
	r.mux.HandleFunc("GET /api/payments", middleware.RequireRole(superAdmin)(payments.ListPayments))
	r.mux.HandleFunc("GET /api/payments/totals", middleware.RequireRole(superAdmin)(payments.GetTotals))

	// Notification endpoints
	notes := r.handlers.Notifications
	r.mux.HandleFunc("GET /api/notifications", staff(notes.ListNotifications))
	r.mux.HandleFunc("POST /api/notifications", staff(notes.CreateNotification))
	r.mux.HandleFunc("POST /api/notifications/{id}/read", staff(notes.MarkRead))
	r.mux.HandleFunc("DELETE /api/notifications", staff(notes.ClearNotifications))

	// Settings endpoints
	settings := r.handlers.Settings
	r.mux.HandleFunc("GET /api/settings/notifications", staff(settings.GetNotificationSettings))
	r.mux.HandleFunc("PUT /api/settings/notifications", staff(settings.SaveNotificationSettings))
	r.mux.HandleFunc("GET /api/settings/phone", staff(settings.GetUserPhone))
	r.mux.HandleFunc("PUT /api/settings/phone", staff(settings.SaveUserPhone))
	r.mux.HandleFunc("GET /api/settings/system", middleware.RequireRole(superAdmin)(settings.GetSystemSettings))
	r.mux.HandleFunc("PUT /api/settings/system", middleware.RequireRole(superAdmin)(settings.SaveSystemSettings))
	r.mux.HandleFunc("POST /api/settings/reset", middleware.RequireRole(superAdmin)(settings.ResetSettings))

	// Search and dashboards
	search := r.handlers.Search
	r.mux.HandleFunc("GET /api/search", staff(search.Search))
	r.mux.HandleFunc("GET /api/dashboard/super-admin", middleware.RequireRole(superAdmin)(search.SuperAdminDashboard))
	r.mux.HandleFunc("GET /api/dashboard/staff", desk(search.StaffDashboard))

	// Change stream
	if r.handlers.SSE != nil {
		r.mux.HandleFunc("GET /api/stream/changes", staff(r.handlers.SSE.StreamChanges))
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.Authenticate(r.tokens)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	// CORS wraps everything so preflight never reaches auth
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}

func (r *Router) readiness(w http.ResponseWriter, req *http.Request) {
	if r.ready != nil {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()
		if err := r.ready(ctx); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("Readiness check failed")
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("READY"))
}
