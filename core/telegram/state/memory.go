package state

import (
	"context"
	"sync"
)

// MemoryStore keeps states in a map; it is lost on restart.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[int64]State
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[int64]State)}
}

// Get returns the user's state or Idle.
func (m *MemoryStore) Get(_ context.Context, userID int64) (State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.states[userID]; ok {
		return st, nil
	}
	return Idle, nil
}

// Set stores st for the user. Setting Idle removes the entry.
func (m *MemoryStore) Set(ctx context.Context, userID int64, st State) error {
	st = normalize(st)
	if st == Idle {
		return m.Clear(ctx, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[userID] = st
	return nil
}

// Clear resets the user to Idle.
func (m *MemoryStore) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, userID)
	return nil
}

// Len reports how many users are in a non-idle state.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
