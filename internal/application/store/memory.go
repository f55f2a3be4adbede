package store

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"whitelist/internal/application/models"
	"whitelist/pkg/platform/sentinel"
)

// InMemory keeps applications in a map plus an insertion-order index. It
// favors clarity over performance. The single mutex is held across the
// validate and mutate halves of ApplyReview, which is what makes the review
// transition a compare-and-swap rather than a blind overwrite.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[uuid.UUID]*models.Application
	order []uuid.UUID
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[uuid.UUID]*models.Application)}
}

func (s *InMemory) Create(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[app.ID] = app.Clone()
	s.order = append(s.order, app.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id uuid.UUID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if app, ok := s.byID[id]; ok {
		return app.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) List(_ context.Context) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	apps := make([]*models.Application, 0, len(s.order))
	for _, id := range s.order {
		apps = append(apps, s.byID[id].Clone())
	}
	return apps, nil
}

func (s *InMemory) ListByStatus(_ context.Context, status models.Status) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var apps []*models.Application
	for _, id := range s.order {
		if app := s.byID[id]; app.Status == status {
			apps = append(apps, app.Clone())
		}
	}
	return apps, nil
}

func (s *InMemory) ApplyReview(_ context.Context, id uuid.UUID, review models.Review) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	app, ok := s.byID[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if app.Status != models.StatusPending {
		return nil, sentinel.ErrAlreadyReviewed
	}
	app.ApplyReview(review)
	return app.Clone(), nil
}

func (s *InMemory) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byID, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}
