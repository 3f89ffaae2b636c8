// Package file provides a backing store persisted as a single JSON file,
// optionally encrypted at rest.
package file

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"

	"sessionstore/store"
)

// Store is a file-backed implementation of store.Store. The full key-value
// map is held in memory and written through to disk on every mutation, via
// a temp file then rename.
type Store struct {
	path       string
	passphrase string

	mu     sync.Mutex
	values map[string]string
	keys   []string
}

// New opens or creates a plaintext store at path.
func New(path string) (*Store, error) {
	return open(path, "")
}

// NewEncrypted opens or creates a store at path whose on-disk form is
// sealed with a key derived from passphrase.
func NewEncrypted(path, passphrase string) (*Store, error) {
	return open(path, passphrase)
}

func open(path, passphrase string) (*Store, error) {
	s := &Store{path: path, passphrase: passphrase, values: map[string]string{}}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// load reads the store file into memory; a missing file is an empty store.
func (s *Store) load() error {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "read store file")
	}
	if s.passphrase != "" {
		if b, err = unseal(s.passphrase, b); err != nil {
			return errors.Wrap(err, "unseal store file")
		}
	}
	if err := json.Unmarshal(b, &s.values); err != nil {
		return errors.Wrap(err, "decode store file")
	}
	s.keys = make([]string, 0, len(s.values))
	for k := range s.values {
		s.keys = append(s.keys, k)
	}
	return nil
}

// persist writes the in-memory map back to disk. Callers hold s.mu.
func (s *Store) persist() error {
	b, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	if s.passphrase != "" {
		if b, err = seal(s.passphrase, b); err != nil {
			return errors.Wrap(err, "seal store file")
		}
	}
	return writeFileAtomic(s.path, b, 0o600)
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.values[key]
	return v, ok, nil
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = value
	return s.persist()
}

// Remove deletes key and persists the store; removing an unknown key is a
// no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	for i, k := range s.keys {
		if k == key {
			s.keys[i] = s.keys[len(s.keys)-1]
			s.keys = s.keys[:len(s.keys)-1]
			break
		}
	}
	return s.persist()
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

// writeFileAtomic writes b via a temp file, then atomically replaces path.
func writeFileAtomic(path string, b []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()

	// Best-effort cleanup if anything fails before rename.
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(mode); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, path)
}

// Compile-time assertion that Store implements store.Store.
var _ store.Store = (*Store)(nil)
