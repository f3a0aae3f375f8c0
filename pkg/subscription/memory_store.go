package subscription

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryStore struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]Customer
}

// NewMemoryStore returns an in-memory CustomerStore.
// Intended for tests and single-process development setups.
func NewMemoryStore() CustomerStore {
	return &memoryStore{
		customers: make(map[uuid.UUID]Customer),
	}
}

func (s *memoryStore) Get(_ context.Context, userID uuid.UUID) (*Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, ok := s.customers[userID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return &customer, nil
}

func (s *memoryStore) Save(_ context.Context, customer *Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *customer
	now := time.Now().UTC()
	if existing, ok := s.customers[c.UserID]; ok {
		c.CreatedAt = existing.CreatedAt
	} else if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	s.customers[c.UserID] = c
	return nil
}
