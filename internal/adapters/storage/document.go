package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zatekoja/clinicdesk/internal/domain/providers"
	apperrors "github.com/zatekoja/clinicdesk/pkg/errors"
)

// Document stores a single JSON value under one key
type Document[T any] struct {
	store    providers.KeyValueStore
	key      string
	validate func(*T) error
}

// NewDocument creates a document stored under key; validate may be nil
func NewDocument[T any](store providers.KeyValueStore, key string, validate func(*T) error) *Document[T] {
	return &Document[T]{store: store, key: key, validate: validate}
}

// Get returns the stored value, or found=false when the key is absent
func (d *Document[T]) Get(ctx context.Context) (T, bool, error) {
	var value T
	raw, err := d.store.Get(ctx, d.key)
	if errors.Is(err, providers.ErrKeyNotFound) {
		return value, false, nil
	}
	if err != nil {
		return value, false, apperrors.NewInternalError(fmt.Sprintf("failed to load %s", d.key), err)
	}
	if err := json.Unmarshal(raw, &value); err != nil {
		return value, false, apperrors.NewInternalError(fmt.Sprintf("stored %s is malformed", d.key), err)
	}
	if d.validate != nil {
		if err := d.validate(&value); err != nil {
			return value, false, apperrors.NewInternalError(fmt.Sprintf("stored %s is malformed", d.key), err)
		}
	}
	return value, true, nil
}

// Save overwrites the stored value
func (d *Document[T]) Save(ctx context.Context, value T) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to encode %s", d.key), err)
	}
	if err := d.store.Set(ctx, d.key, raw); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to save %s", d.key), err)
	}
	return nil
}

// Delete removes the stored value
func (d *Document[T]) Delete(ctx context.Context) error {
	if err := d.store.Delete(ctx, d.key); err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to delete %s", d.key), err)
	}
	return nil
}
