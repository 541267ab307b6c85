package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/zatekoja/clinicdesk/internal/adapters/events"
	"github.com/zatekoja/clinicdesk/internal/adapters/kvstore"
	"github.com/zatekoja/clinicdesk/internal/adapters/search"
	"github.com/zatekoja/clinicdesk/internal/adapters/storage"
	"github.com/zatekoja/clinicdesk/internal/application/services"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/typesense"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
	"github.com/zatekoja/clinicdesk/pkg/config"
	"github.com/zatekoja/clinicdesk/pkg/secrets"
)

func main() {
	if _, err := secrets.Apply(context.Background(), secrets.ConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("Failed to load secrets from Vault")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.LogLevel)

	ctx := context.Background()

	backend, err := kvstore.Open(ctx, cfg, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open key-value store")
	}
	defer backend.Close()

	if os.Getenv("RESET_STORE") == "true" {
		log.Info().Str("driver", backend.Driver).Msg("RESET_STORE=true detected, clearing store before seeding")
		if err := storage.Reset(ctx, backend.Store); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset store")
		}
	}

	// Reading a collection writes its demo data when the key is missing
	store := backend.Store
	clinicRepo := storage.NewClinicStore(store)
	seeds := []struct {
		name string
		load func(context.Context) (int, error)
	}{
		{"appointments", countOf(storage.NewAppointmentStore(store).GetAll)},
		{"clinics", countOf(clinicRepo.GetAll)},
		{"payments", countOf(storage.NewPaymentStore(store).GetAll)},
		{"prescriptions", countOf(storage.NewPrescriptionStore(store).GetAll)},
		{"notifications", countOf(storage.NewNotificationStore(store).GetAll)},
	}
	for _, seed := range seeds {
		count, err := seed.load(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("collection", seed.name).Msg("Failed to seed collection")
		}
		log.Info().Str("collection", seed.name).Int("records", count).Msg("Collection seeded")
	}

	if cfg.Typesense.URL == "" {
		log.Info().Msg("Seeding completed")
		return
	}

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Typesense unavailable, skipping clinic index")
		return
	}
	if err := tsClient.InitSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Typesense schema")
	}

	bus := events.NewMemoryEventBus()
	defer bus.Close()
	sync := services.NewClinicIndexSyncService(clinicRepo, search.NewTypesenseClinicIndex(tsClient), bus)
	count, err := sync.Reindex(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to index clinics")
	}
	log.Info().Int("clinics", count).Msg("Seeding completed")
}

func countOf[T any](getAll func(context.Context) ([]T, error)) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		items, err := getAll(ctx)
		return len(items), err
	}
}
