package repo

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// memoryTripStore is an in-process TripStore for development and tests.
// Blobs are copied on both save and load so callers never share backing arrays.
type memoryTripStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

// NewMemoryTripStore constructs an empty in-memory TripStore.
func NewMemoryTripStore() TripStore {
	return &memoryTripStore{blobs: make(map[string][]byte)}
}

func (s *memoryTripStore) Save(_ context.Context, key string, doc []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(doc))
	copy(cp, doc)
	s.blobs[key] = cp
	return nil
}

func (s *memoryTripStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.blobs[key]
	if !ok {
		return nil, fmt.Errorf("repo.TripStore.Load: %w", domain.ErrNotFound)
	}
	cp := make([]byte, len(doc))
	copy(cp, doc)
	return cp, nil
}
