package support

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu       sync.RWMutex
	requests map[uuid.UUID]Request
}

// NewMemoryStore returns an in-memory Store for tests and development.
func NewMemoryStore() Store {
	return &memoryStore{requests: make(map[uuid.UUID]Request)}
}

func (s *memoryStore) Save(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests[req.ID] = *req
	return nil
}

func (s *memoryStore) Get(_ context.Context, id uuid.UUID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, ErrRequestNotFound
	}
	return &req, nil
}
