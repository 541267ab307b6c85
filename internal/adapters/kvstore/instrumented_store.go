package kvstore

import (
	"context"
	"errors"
	"time"

	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	"github.com/zatekoja/clinicdesk/internal/infrastructure/observability"
)

// InstrumentedStore records an operation histogram and miss counter around another store
type InstrumentedStore struct {
	next    providers.KeyValueStore
	driver  string
	metrics *observability.Metrics
}

// NewInstrumentedStore wraps next; a nil metrics returns next unchanged
func NewInstrumentedStore(next providers.KeyValueStore, driver string, metrics *observability.Metrics) providers.KeyValueStore {
	if metrics == nil {
		return next
	}
	return &InstrumentedStore{next: next, driver: driver, metrics: metrics}
}

func (s *InstrumentedStore) observe(ctx context.Context, op string, start time.Time) {
	observability.RecordStoreMetric(ctx, s.metrics, s.driver, op, time.Since(start))
}

// Get retrieves the value stored under key
func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.observe(ctx, "get", time.Now())
	value, err := s.next.Get(ctx, key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		observability.RecordStoreMiss(ctx, s.metrics, s.driver, key)
	}
	return value, err
}

// Set stores value under key
func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	defer s.observe(ctx, "set", time.Now())
	return s.next.Set(ctx, key, value)
}

// Delete removes key
func (s *InstrumentedStore) Delete(ctx context.Context, key string) error {
	defer s.observe(ctx, "delete", time.Now())
	return s.next.Delete(ctx, key)
}

// Clear removes every key
func (s *InstrumentedStore) Clear(ctx context.Context) error {
	defer s.observe(ctx, "clear", time.Now())
	return s.next.Clear(ctx)
}

// Close closes the wrapped store
func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}
