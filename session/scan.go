package session

import (
	"strings"

	"github.com/hashicorp/go-multierror"
)

// The backing store has no prefix query primitive, so both operations below
// walk the full index range. The store's key ordering is unspecified and
// indices are renumbered by deletions, which makes the snapshot discipline
// in removeByPrefix mandatory.

// keysWithPrefix returns every currently stored key beginning with prefix.
// The length is re-read on each step, per the backing store contract.
func (s *Store) keysWithPrefix(prefix string) []string {
	var keys []string
	for i := 0; i < s.backing.Len(); i++ {
		key, ok := s.backing.Key(i)
		if !ok {
			break
		}
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys
}

// removeByPrefix deletes every key under prefix. The matching keys are
// materialized into a fixed list before the first removal: removing while
// scanning can skip or double-visit keys once the store renumbers live
// indices. Removal failures are collected so one bad key does not mask the
// rest.
func (s *Store) removeByPrefix(prefix string) error {
	var errs *multierror.Error
	for _, key := range s.keysWithPrefix(prefix) {
		errs = multierror.Append(errs, s.backing.Remove(key))
	}
	return errs.ErrorOrNil()
}
