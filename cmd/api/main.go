package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicdesk/internal/adapters/auth"
	"github.com/zatekoja/clinicdesk/internal/adapters/events"
	"github.com/zatekoja/clinicdesk/internal/adapters/kvstore"
	"github.com/zatekoja/clinicdesk/internal/adapters/notify"
	"github.com/zatekoja/clinicdesk/internal/adapters/search"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/api/handlers"
	"github.com/zatekoja/clinicdesk/internal/api/routes"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/domain/entities"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/clinicapi"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/notifications"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
	"github.com/zatekoja/clinicdesk/pkg/config"
	"github.com/zatekoja/clinicdesk/pkg/secrets"
)

func main() {
	vault, err := secrets.Apply(context.Background(), secrets.ConfigFromEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets from Vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)
	if vault.Enabled {
		log.Info().Str("path", vault.Path).Strs("loaded", vault.Loaded).Strs("skipped", vault.Skipped).
			Msg("Secrets loaded from Vault")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	backend, err := kvstore.Open(ctx, cfg, metrics)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open key-value store")
	}
	defer backend.Close()

	// Redis-backed stores share their connection with the event bus so every instance
	// sees the same change stream
	var eventBus providers.EventBus
	if backend.Redis != nil {
		eventBus = events.NewRedisEventBus(backend.Redis)
		log.Info().Msg("Redis event bus initialized")
	} else {
		eventBus = events.NewMemoryEventBus()
		log.Info().Msg("In-memory event bus initialized")
	}

	policy, err := entities.TransitionPolicyByName(cfg.Appointment.Transitions)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid appointment transition policy")
	}

	hub := notify.NewHub()
	feedback := services.Feedback{
		Notifier: notify.Multi(notify.LogNotifier{}, hub),
		Events:   eventBus,
		Clock:    providers.SystemClock{},
		Metrics:  metrics,
	}

	// Authentication: the remote API when configured, else the built-in demo accounts
	var (
		authenticator providers.Authenticator
		registrar     providers.AccountRegistrar
		registry      providers.ClinicRegistry
	)
	if cfg.RemoteAPI.BaseURL != "" {
		remote := auth.NewRemoteAPI(clinicapi.NewClient(cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.Timeout))
		authenticator = remote
		registrar = remote
		registry = remote.ClinicRegistry()
		log.Info().Str("base_url", cfg.RemoteAPI.BaseURL).Msg("Remote clinic API enabled")
	} else {
		directory, err := auth.NewDemoDirectory(0)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build demo directory")
		}
		authenticator = directory
		log.Info().Msg("Using built-in demo accounts")
	}
	tokens := auth.NewJWTIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, providers.SystemClock{})

	store := backend.Store
	appointmentRepo := storage.NewAppointmentStore(store)
	clinicRepo := storage.NewClinicStore(store)
	prescriptionRepo := storage.NewPrescriptionStore(store)
	settingsRepo := storage.NewSettingsStore(store)

	// Initialize the clinic search index when Typesense is configured
	var (
		clinicIndex providers.ClinicSearchIndex
		indexSync   *services.ClinicIndexSyncService
	)
	if cfg.Typesense.URL != "" {
		tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
		if err != nil {
			log.Warn().Err(err).Msg("Typesense unavailable, clinic search falls back to substring matching")
		} else if err := tsClient.InitSchema(ctx); err != nil {
			log.Warn().Err(err).Msg("Failed to initialize Typesense schema")
		} else {
			index := search.NewTypesenseClinicIndex(tsClient)
			clinicIndex = index
			indexSync = services.NewClinicIndexSyncService(clinicRepo, index, eventBus)
			if err := indexSync.Start(); err != nil {
				log.Error().Err(err).Msg("Failed to start clinic index sync")
			}
			go func() {
				count, err := indexSync.Reindex(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("Initial clinic reindex failed")
					return
				}
				log.Info().Int("clinics", count).Msg("Clinic index rebuilt")
			}()
		}
	}

	appointmentService := services.NewAppointmentService(appointmentRepo, policy, feedback)
	clinicService := services.NewClinicService(clinicRepo, registry, feedback)
	clinicHoursService := services.NewClinicHoursService(storage.NewClinicHoursStore(store), clinicRepo, feedback)
	paymentService := services.NewPaymentService(storage.NewPaymentStore(store))
	notificationService := services.NewNotificationService(storage.NewNotificationStore(store), feedback)
	prescriptionService := services.NewPrescriptionService(prescriptionRepo, appointmentRepo, notificationService, feedback)
	sessionService := services.NewSessionService(storage.NewSessionStore(store), settingsRepo.UserPhone,
		authenticator, tokens, registrar, feedback)
	settingsService := services.NewSettingsService(settingsRepo, store, feedback)
	searchService := services.NewSearchService(clinicRepo, appointmentRepo, prescriptionRepo, clinicIndex)
	dashboardService := services.NewDashboardService(appointmentService, clinicService, paymentService)

	// WhatsApp reminders are optional
	var reminders handlers.ReminderService
	if cfg.WhatsApp.Enabled() {
		sender, err := notifications.NewWhatsAppCloudSender(&cfg.WhatsApp)
		if err != nil {
			log.Warn().Err(err).Msg("WhatsApp reminders disabled")
		} else {
			reminders = services.NewReminderService(appointmentRepo, settingsRepo.Notifications, sender,
				services.ReminderOptions{TemplateName: cfg.WhatsApp.ReminderTemplate, Language: cfg.WhatsApp.Language},
				feedback)
			log.Info().Msg("WhatsApp appointment reminders enabled")
		}
	}

	router := routes.NewRouter(routes.Handlers{
		Appointments:  handlers.NewAppointmentHandler(appointmentService, reminders),
		Clinics:       handlers.NewClinicHandler(clinicService, clinicHoursService),
		Prescriptions: handlers.NewPrescriptionHandler(prescriptionService),
		Payments:      handlers.NewPaymentHandler(paymentService),
		Session:       handlers.NewSessionHandler(sessionService),
		Notifications: handlers.NewNotificationHandler(notificationService),
		Settings:      handlers.NewSettingsHandler(settingsService),
		Search:        handlers.NewSearchHandler(searchService, dashboardService),
		SSE:           handlers.NewSSEHandler(eventBus, hub),
	}, tokens, cfg.Server.AllowedOrigins, metrics).WithReadiness(backend.Ping)

	server := &http.Server{
		Addr:        cfg.Server.Addr(),
		Handler:     router.SetupRoutes(),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: change streams stay open for the life of the connection
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("store", backend.Driver).
			Str("transitions", policy.Name()).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if indexSync != nil {
		indexSync.Stop()
	}

	if err := eventBus.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing event bus")
	}

	log.Info().Msg("Server stopped")
}
