package kvstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

// PostgresStore implements the KeyValueStore interface on one PostgreSQL table:
// (key TEXT PRIMARY KEY, value TEXT, updated_at TIMESTAMPTZ)
type PostgresStore struct {
	db     *sql.DB
	q      *goqu.Database
	table  string
	prefix string
}

// NewPostgresStore creates a store over table
func NewPostgresStore(db *sql.DB, table, prefix string) *PostgresStore {
	return &PostgresStore{
		db:     db,
		q:      goqu.New("postgres", db),
		table:  table,
		prefix: prefix,
	}
}

// EnsureSchema creates the backing table when it does not exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`, quoteIdent(s.table))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create %s table: %w", s.table, err)
	}
	return nil
}

// Get retrieves the value stored under key
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := s.q.Select("value").
		From(s.table).
		Where(goqu.Ex{"key": s.prefix + key}).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var value string
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, providers.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts value under key
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := s.q.Insert(s.table).
		Rows(goqu.Record{
			"key":        s.prefix + key,
			"value":      string(value),
			"updated_at": goqu.L("NOW()"),
		}).
		OnConflict(goqu.DoUpdate("key", goqu.Record{
			"value":      goqu.L("EXCLUDED.value"),
			"updated_at": goqu.L("NOW()"),
		})).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Delete removes key
func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	query, args, err := s.q.Delete(s.table).
		Where(goqu.Ex{"key": s.prefix + key}).
		ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// Clear removes every row under the store prefix
func (s *PostgresStore) Clear(ctx context.Context) error {
	ds := s.q.Delete(s.table)
	if s.prefix != "" {
		ds = ds.Where(goqu.C("key").Like(escapeLike(s.prefix) + "%"))
	}
	query, args, err := ds.ToSQL()
	if err != nil {
		return fmt.Errorf("failed to build clear query: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear %s: %w", s.table, err)
	}
	return nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
