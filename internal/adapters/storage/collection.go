package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// Collection stores a slice of T as one JSON array under a single key. Stored values are
// decoded and validated on every load; a malformed value is an internal error and is never
// partially used.
type Collection[T any] struct {
	store    providers.KeyValueStore
	key      string
	seed     func() []T
	validate func(*T) error
	id       func(*T) string
}

// CollectionOption configures a Collection
type CollectionOption[T any] func(*Collection[T])

// WithSeed sets the records written on first access
func WithSeed[T any](seed func() []T) CollectionOption[T] {
	return func(c *Collection[T]) { c.seed = seed }
}

// WithValidation rejects stored records for which validate fails
func WithValidation[T any](validate func(*T) error) CollectionOption[T] {
	return func(c *Collection[T]) { c.validate = validate }
}

// WithUniqueID rejects stored collections that repeat an id
func WithUniqueID[T any](id func(*T) string) CollectionOption[T] {
	return func(c *Collection[T]) { c.id = id }
}

// NewCollection creates a collection stored under key
func NewCollection[T any](store providers.KeyValueStore, key string, opts ...CollectionOption[T]) *Collection[T] {
	c := &Collection[T]{store: store, key: key}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the store key backing the collection
func (c *Collection[T]) Key() string {
	return c.key
}

// GetAll returns the stored records in order. When the key is absent the seed records are
// written and returned.
func (c *Collection[T]) GetAll(ctx context.Context) ([]T, error) {
	raw, err := c.store.Get(ctx, c.key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return c.initialise(ctx)
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("failed to load %s", c.key), err)
	}

	items, err := c.decode(raw)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Sprintf("stored %s is malformed", c.key), err)
	}
	return items, nil
}

// SaveAll overwrites the stored records in a single write
func (c *Collection[T]) SaveAll(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to encode %s", c.key), err)
	}
	if err := c.store.Set(ctx, c.key, raw); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to save %s", c.key), err)
	}
	return nil
}

func (c *Collection[T]) initialise(ctx context.Context) ([]T, error) {
	if c.seed == nil {
		return []T{}, nil
	}
	items := c.seed()
	if err := c.SaveAll(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Collection[T]) decode(raw []byte) ([]T, error) {
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}

	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if c.validate != nil {
			if err := c.validate(&items[i]); err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
		}
		if c.id != nil {
			id := c.id(&items[i])
			if _, dup := seen[id]; dup {
				return nil, fmt.Errorf("record %d: duplicate id %s", i, id)
			}
			seen[id] = struct{}{}
		}
	}
	return items, nil
}
