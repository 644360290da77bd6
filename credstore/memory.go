package credstore

import (
	"context"
	"sync"
)

// MemoryStore defines a public type used by authgate APIs.
//
// MemoryStore holds the credential pair in process memory only. It satisfies
// the [Store] contract for tests and throwaway sessions; it does not survive a
// process restart.
type MemoryStore struct {
	mu    sync.RWMutex
	creds Credentials
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get describes the get operation and its observable behavior.
//
// Get never fails and returns the Anonymous credentials on a fresh store.
func (s *MemoryStore) Get(_ context.Context) Credentials {
	if s == nil {
		return Credentials{}
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// Set describes the set operation and its observable behavior.
//
// Set does not mutate shared global state beyond the receiver and can be used concurrently.
func (s *MemoryStore) Set(_ context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = creds
	return nil
}

// Clear describes the clear operation and its observable behavior.
//
// Clear is idempotent.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds = Credentials{}
	return nil
}
