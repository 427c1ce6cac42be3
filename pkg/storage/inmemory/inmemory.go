// Package inmemory provides a map-backed Store used by tests and as the
// degraded fallback when the sqlite store cannot be opened.
package inmemory

import (
	"context"
	"sync"

	"github.com/storylinehq/storyline/pkg/storage"
)

// Store implements storage.Store with an in-memory map.
type Store struct {
	// mu guards values; reads dominate so a RWMutex pays off.
	mu sync.RWMutex

	values map[string]string
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]string),
	}
}

// Get returns the value for key, or storage.NotFoundError.
func (s *Store) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", storage.NotFoundError{Key: key}
	}

	return value, nil
}

// Set writes the value for key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}
