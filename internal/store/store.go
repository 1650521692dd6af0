// Package store provides the in-memory keyed collection used for every record
// kind. A Store is not safe for concurrent use; callers serialize access.
//
// # Usage
//
//	users := store.New[entities.User]()
//	users.Put(u.ID, u)
//	for u := range users.All() {
//		...
//	}
package store

import (
	"errors"
	"iter"
	"maps"
	"slices"
)

// ErrNotFound is returned when a key is absent.
var ErrNotFound = errors.New("record not found")

// Store maps string keys to records. Enumeration is always in ascending
// byte-wise key order, so "1000" comes before "101".
type Store[V any] struct {
	items map[string]V
}

// New creates an empty store.
func New[V any]() *Store[V] {
	return &Store[V]{items: make(map[string]V)}
}

// FromSlice builds a store keyed by key(v). Later duplicates replace earlier ones.
func FromSlice[V any](values []V, key func(V) string) *Store[V] {
	s := New[V]()
	for _, v := range values {
		s.Put(key(v), v)
	}
	return s
}

// Put inserts or replaces the record stored under id.
func (s *Store[V]) Put(id string, v V) {
	s.items[id] = v
}

// Get returns the record stored under id or ErrNotFound.
func (s *Store[V]) Get(id string) (V, error) {
	v, ok := s.items[id]
	if !ok {
		var zero V
		return zero, ErrNotFound
	}
	return v, nil
}

// Has reports whether id is present.
func (s *Store[V]) Has(id string) bool {
	_, ok := s.items[id]
	return ok
}

// Delete removes id, returning ErrNotFound if it was absent.
func (s *Store[V]) Delete(id string) error {
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// Len returns the number of records.
func (s *Store[V]) Len() int {
	return len(s.items)
}

// Keys returns the keys in enumeration order.
func (s *Store[V]) Keys() []string {
	return slices.Sorted(maps.Keys(s.items))
}

// All yields every record in key order.
func (s *Store[V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, k := range s.Keys() {
			if !yield(s.items[k]) {
				return
			}
		}
	}
}

// Entries yields key/record pairs in key order.
func (s *Store[V]) Entries() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range s.Keys() {
			if !yield(k, s.items[k]) {
				return
			}
		}
	}
}

// Values collects All into a slice.
func (s *Store[V]) Values() []V {
	out := make([]V, 0, len(s.items))
	for v := range s.All() {
		out = append(out, v)
	}
	return out
}

// Update applies fn to every record in place, in key order.
func (s *Store[V]) Update(fn func(V) V) {
	for _, k := range s.Keys() {
		s.items[k] = fn(s.items[k])
	}
}

// FilterByForeignKey returns a new store holding only the entries whose
// foreign key does not satisfy match. The receiver is left untouched.
func (s *Store[V]) FilterByForeignKey(foreignKey func(V) string, match func(string) bool) *Store[V] {
	out := New[V]()
	for k, v := range s.items {
		if !match(foreignKey(v)) {
			out.items[k] = v
		}
	}
	return out
}

// Clone returns a shallow copy of the store.
func (s *Store[V]) Clone() *Store[V] {
	return &Store[V]{items: maps.Clone(s.items)}
}
