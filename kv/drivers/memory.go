package drivers

import (
	"context"
	"sync"
)

// InMemoryStore implements kv.Store using an in-memory map.
// Values do not survive the process; it backs tests and throwaway sessions.
type InMemoryStore struct {
	mu     sync.RWMutex
	prefix string
	values map[string]string
}

// NewInMemoryStore creates a new in-memory store.
func NewInMemoryStore(prefix string) *InMemoryStore {
	return &InMemoryStore{
		prefix: prefix,
		values: make(map[string]string),
	}
}

// Get implements kv.Store.
func (s *InMemoryStore) Get(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.values == nil {
		return "", false, ErrClosed
	}
	value, ok := s.values[s.prefix+key]
	return value, ok, nil
}

// Set implements kv.Store.
func (s *InMemoryStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		return ErrClosed
	}
	s.values[s.prefix+key] = value
	return nil
}

// Update implements kv.Updater. fn runs with the store locked.
func (s *InMemoryStore) Update(ctx context.Context, key string, fn func(string, bool) (string, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.values == nil {
		return ErrClosed
	}
	current, ok := s.values[s.prefix+key]
	next, err := fn(current, ok)
	if err != nil {
		return err
	}
	s.values[s.prefix+key] = next
	return nil
}

// Close implements kv.Store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = nil
	return nil
}
