// Package kv is a small concurrent map used for in-flight bookkeeping.
// Keys are claimed by one owner at a time and released when the owner is
// done with them.
package kv

import "sync"

// Store maps keys to the value of whoever currently holds them.
type Store[K comparable, V any] struct {
	mu   sync.Mutex
	held map[K]V
}

func New[K comparable, V any]() *Store[K, V] {
	return &Store[K, V]{held: make(map[K]V)}
}

// Get returns the current holder of key.
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.held[key]
	return v, ok
}

// Claim records value as the holder of key if nobody holds it yet. A false
// return leaves the existing holder in place.
func (s *Store[K, V]) Claim(key K, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.held[key]; taken {
		return false
	}
	s.held[key] = value
	return true
}

// Release frees key if owner accepts its current holder. It reports whether
// the key was freed.
func (s *Store[K, V]) Release(key K, owner func(V) bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.held[key]
	if !ok || (owner != nil && !owner(v)) {
		return false
	}
	delete(s.held, key)
	return true
}

// Sweep frees every key for which drop returns true and returns how many
// were freed.
func (s *Store[K, V]) Sweep(drop func(K, V) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k, v := range s.held {
		if drop(k, v) {
			delete(s.held, k)
			n++
		}
	}
	return n
}

func (s *Store[K, V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.held)
}
