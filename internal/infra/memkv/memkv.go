// Package memkv provides an in-memory key-value substrate.
package memkv

import (
	"context"
	"sync"

	"github.com/runoshun/todo/internal/domain"
)

// Ensure Store implements domain.KVStore.
var _ domain.KVStore = (*Store)(nil)

// Store keeps values in a map. Contents are lost when the process exits.
type Store struct {
	data map[string]string
	mu   sync.RWMutex
}

// New creates an empty Store.
func New() *Store {
	return &Store{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

// Remove deletes key.
func (s *Store) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
