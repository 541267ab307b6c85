package kvstore

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/clients/postgres"
	redisclient "github.com/zatekoja/clinicdesk/internal/infrastructure/clients/redis"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
	"github.com/zatekoja/clinicdesk/pkg/config"
)

// Backend is the opened store plus the Redis client when the driver uses one,
// so the event bus can share the connection.
type Backend struct {
	Store  providers.KeyValueStore
	Redis  *redisclient.Client
	Driver string
	close  func() error
	ping   func(context.Context) error
}

// Ping checks the connection behind the store; the memory driver is always reachable
func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

// Close releases the connection behind the store
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open connects the store selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, metrics *observability.Metrics) (*Backend, error) {
	var (
		store   providers.KeyValueStore
		rc      *redisclient.Client
		closeFn func() error
		pingFn  func(context.Context) error
	)

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store = NewMemoryStore(cfg.Store.KeyPrefix)

	case config.StoreDriverRedis:
		client, err := redisclient.NewClient(ctx, &cfg.Redis)
		if err != nil {
			return nil, err
		}
		rc = client
		closeFn = client.Close
		pingFn = client.Ping
		store = NewRedisStore(client, cfg.Store.KeyPrefix)

	case config.StoreDriverPostgres:
		client, err := postgres.NewClient(ctx, &cfg.Database)
		if err != nil {
			return nil, err
		}
		pg := NewPostgresStore(client.DB(), cfg.Database.Table, cfg.Store.KeyPrefix)
		if err := pg.EnsureSchema(ctx); err != nil {
			client.Close()
			return nil, err
		}
		closeFn = client.Close
		pingFn = client.Ping
		store = pg

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}

	log.Info().Str("driver", cfg.Store.Driver).Str("prefix", cfg.Store.KeyPrefix).Msg("Key-value store ready")
	return &Backend{
		Store:  NewInstrumentedStore(store, cfg.Store.Driver, metrics),
		Redis:  rc,
		Driver: cfg.Store.Driver,
		close:  closeFn,
		ping:   pingFn,
	}, nil
}
