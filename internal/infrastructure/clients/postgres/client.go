package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/clinicdesk/pkg/config"
	"github.com/zatekoja/clinicdesk/pkg/retry"
)

const pingTimeout = 5 * time.Second

// Client holds the connection pool behind the key-value table
type Client struct {
	db *sql.DB
}

// NewClient opens the pool described by cfg and waits, with backoff, until the server answers
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	client := NewClientFromDB(db, cfg)
	if err := client.waitReady(ctx, retry.DefaultConfig()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	log.Info().Str("host", cfg.Host).Str("database", cfg.Database).Str("table", cfg.Table).
		Int("max_open_conns", cfg.MaxOpenConns).Msg("Connected to PostgreSQL")
	return client, nil
}

// NewClientFromDB wraps an open pool and applies the limits from cfg. Zero limits keep the
// database/sql defaults.
func NewClientFromDB(db *sql.DB, cfg *config.DatabaseConfig) *Client {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	return &Client{db: db}
}

func (c *Client) waitReady(ctx context.Context, policy retry.Config) error {
	return retry.DoWithLog(ctx, policy, "PostgreSQL",
		func() error { return c.Ping(ctx) },
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).
				Msg("PostgreSQL connection attempt failed")
		},
	)
}

// DB returns the pool for the store adapter
func (c *Client) DB() *sql.DB {
	return c.db
}

// Ping checks the server within pingTimeout
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return c.db.PingContext(pingCtx)
}

// Close closes the pool
func (c *Client) Close() error {
	return c.db.Close()
}
