package providers

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by a KeyValueStore when the key holds no value
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore defines the interface for the persisted string-keyed JSON store
type KeyValueStore interface {
	// Get retrieves the raw value stored under key, or ErrKeyNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Set overwrites the value stored under key in a single write
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error
	Delete(ctx context.Context, key string) error

	// Clear removes every key owned by this store
	Clear(ctx context.Context) error

	// Close releases the underlying connection
	Close() error
}
