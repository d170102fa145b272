// Package memory provides an in-memory StateStore.
package memory

import (
	"context"
	"slices"
	"sort"
	"sync"

	"github.com/aretw0/verdict/pkg/domain"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.ManagerState
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.ManagerState),
	}
}

// Save stores a copy of state. Value host states are immutable, so copying the slices
// is enough to isolate the store from the caller.
func (s *Store) Save(_ context.Context, sessionID string, state *domain.ManagerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[sessionID] = clone(state)
	return nil
}

// Load retrieves a copy of the stored state.
func (s *Store) Load(_ context.Context, sessionID string) (*domain.ManagerState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[sessionID]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return clone(state), nil
}

// Delete removes the state.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, sessionID)
	return nil
}

// List returns the stored session IDs in sorted order.
func (s *Store) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := make([]string, 0, len(s.data))
	for id := range s.data {
		sessions = append(sessions, id)
	}
	sort.Strings(sessions)
	return sessions, nil
}

func clone(state *domain.ManagerState) *domain.ManagerState {
	return &domain.ManagerState{
		ValueHosts:              slices.Clone(state.ValueHosts),
		FormBusinessLogicErrors: slices.Clone(state.FormBusinessLogicErrors),
	}
}
