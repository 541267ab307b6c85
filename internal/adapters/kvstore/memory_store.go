package kvstore

import (
	"context"
	"strings"
	"sync"

	"github.com/zatekoja/clinicdesk/internal/domain/providers"
)

// MemoryStore implements the KeyValueStore interface in process memory
type MemoryStore struct {
	mu     sync.RWMutex
	prefix string
	data   map[string][]byte
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(prefix string) *MemoryStore {
	return &MemoryStore{prefix: prefix, data: make(map[string][]byte)}
}

// Get retrieves a copy of the value stored under key
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[s.prefix+key]
	if !ok {
		return nil, providers.ErrKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value under key
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[s.prefix+key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, s.prefix+key)
	return nil
}

// Clear removes every key under the store prefix
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.data {
		if strings.HasPrefix(key, s.prefix) {
			delete(s.data, key)
		}
	}
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
