// Package leveldb provides a backing store on top of goleveldb.
//
// goleveldb has no index-addressed access of its own, so the key set is
// mirrored in memory: the mirror is built from a full iteration at open and
// maintained on every mutation, which keeps Key and Len cheap and free of
// iterator-stability concerns.
package leveldb

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"sessionstore/store"
)

// Store is a goleveldb-backed implementation of store.Store.
type Store struct {
	db *leveldb.DB

	mu   sync.Mutex
	keys []string
	pos  map[string]int
}

// Open opens or creates a store in the database directory at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "open leveldb")
	}
	return newStore(db)
}

// OpenInMemory opens a store on goleveldb's in-memory storage, for tests.
func OpenInMemory() (*Store, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "open in-memory leveldb")
	}
	return newStore(db)
}

func newStore(db *leveldb.DB) (*Store, error) {
	s := &Store{db: db, pos: map[string]int{}}
	it := db.NewIterator(nil, nil)
	for it.Next() {
		key := string(it.Key())
		s.pos[key] = len(s.keys)
		s.keys = append(s.keys, key)
	}
	it.Release()
	if err := it.Error(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "index leveldb keys")
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "leveldb get")
	}
	return string(v), true, nil
}

// Set stores value under key.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.db.Put([]byte(key), []byte(value), nil); err != nil {
		return errors.Wrap(err, "leveldb put")
	}
	if _, ok := s.pos[key]; !ok {
		s.pos[key] = len(s.keys)
		s.keys = append(s.keys, key)
	}
	return nil
}

// Remove deletes key; removing an unknown key is a no-op.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.pos[key]
	if !ok {
		return nil
	}
	if err := s.db.Delete([]byte(key), nil); err != nil {
		return errors.Wrap(err, "leveldb delete")
	}
	last := len(s.keys) - 1
	s.keys[i] = s.keys[last]
	s.pos[s.keys[i]] = i
	s.keys = s.keys[:last]
	delete(s.pos, key)
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
