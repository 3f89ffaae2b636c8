// Package store defines the flat key-value backing store contract that the
// session layer is built on, with concrete backends in subpackages.
package store

// Store is a flat, synchronous, string-keyed store.
//
// Absence of a key is reported through the bool results, never through an
// error. Key and Len together form the index-addressed enumeration
// primitive: Len is the live key count and Key(i) the key at index i.
// No guarantee is made about key ordering, or about index stability once
// the store is mutated.
type Store interface {
	// Get returns the value stored under key.
	Get(key string) (value string, ok bool, err error)

	// Set stores value under key, overwriting any previous value.
	Set(key, value string) error

	// Remove deletes key. Removing an unknown key is a no-op.
	Remove(key string) error

	// Key returns the key at index i; ok is false when i is out of range.
	Key(i int) (key string, ok bool)

	// Len returns the current number of stored keys.
	Len() int
}
