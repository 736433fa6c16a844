package state

import (
	"context"
	"sync"
)

// MemoryStorage is a process-local Store. It backs the "memory" driver and tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[Key]string
}

var _ Store = (*MemoryStorage)(nil)

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[Key]string)}
}

// Get returns the stored value or ErrNotFound.
func (s *MemoryStorage) Get(_ context.Context, key Key) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return "", ErrNotFound
	}

	return value, nil
}

// Put stores value under key.
func (s *MemoryStorage) Put(_ context.Context, key Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes key.
func (s *MemoryStorage) Delete(_ context.Context, key Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Snapshot returns a copy of every stored pair.
func (s *MemoryStorage) Snapshot() map[Key]string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Key]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}
