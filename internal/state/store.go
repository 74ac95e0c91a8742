// Package state holds the component state store: the shared mapping from
// component identifier to last-known value. One store exists per service
// instance; it is the only shared-mutable structure in the core.
package state

import "sync"

// Store is a concurrency-safe mapping from component identifier to the
// component's last-known value. Writes are last-write-wins with no
// versioning; reads observe either the old or the new value, never a
// partial write.
type Store struct {
	mu     sync.RWMutex
	states map[string]any
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		states: make(map[string]any),
	}
}

// Set upserts the value for a component identifier, overwriting any
// prior value unconditionally. Setting state is purely in-memory; it
// does not trigger rendering.
func (s *Store) Set(id string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[id] = value
}

// Get returns the current value for the identifier, or def when absent.
// It never fails.
func (s *Store) Get(id string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if value, ok := s.states[id]; ok {
		return value
	}
	return def
}

// Snapshot returns a copy of the full mapping. The copy is detached:
// later writes to the store do not show through.
func (s *Store) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.states))
	for id, value := range s.states {
		out[id] = value
	}
	return out
}

// Len returns the number of identifiers currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// ClearAll empties the mapping. Used only at explicit reset points, not
// on every render pass.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]any)
}
