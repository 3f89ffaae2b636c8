// Package mem provides an in-memory backing store, primarily for tests and
// for embedding where persistence is not needed.
package mem

import (
	"sync"

	"sessionstore/store"
)

// Store is the in-memory implementation of store.Store.
type Store struct {
	mu     sync.Mutex
	values map[string]string
	keys   []string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{values: map[string]string{}}
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return nil
}

// Remove deletes key; removing an unknown key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			// Swap-remove: index order is not stable across removals.
			s.keys[i] = s.keys[len(s.keys)-1]
			s.keys = s.keys[:len(s.keys)-1]
			break
		}
	}
	return nil
}

// Key returns the key at index i.
func (s *Store) Key(i int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.keys) {
		return "", false
	}
	return s.keys[i], true
}

// Len returns the current number of stored keys.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.keys)
}

// Compile-time assertion that Store implements store.Store.
var _ store.Store = (*Store)(nil)
