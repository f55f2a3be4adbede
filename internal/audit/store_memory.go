package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events in a slice. Intended for tests and
// single-node deployments without a database.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByApplication(_ context.Context, applicationID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.ApplicationID == applicationID {
			out = append(out, e)
		}
	}
	return out, nil
}
