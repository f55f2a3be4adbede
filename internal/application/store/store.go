// Package store persists applications. Two implementations exist: an
// in-memory store for tests and single-node deployments, and a Postgres
// store for durable production use. Both guarantee that ApplyReview is
// serializable per application id.
package store

import (
	"context"

	"github.com/google/uuid"

	"whitelist/internal/application/models"
)

// Store is the persistence contract consumed by the lifecycle service.
//
// ApplyReview is the only mutation of an existing record and must be an
// atomic compare-and-swap: the transition commits only while the stored
// status is still pending, and a lost race surfaces as
// sentinel.ErrAlreadyReviewed. No other component writes to a stored
// application.
type Store interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error)
	// List returns all applications in insertion order.
	List(ctx context.Context) ([]*models.Application, error)
	ListByStatus(ctx context.Context, status models.Status) ([]*models.Application, error)
	// ApplyReview atomically transitions a pending application and returns
	// the updated record. Returns sentinel.ErrNotFound when the id is
	// unknown and sentinel.ErrAlreadyReviewed when the status is terminal.
	ApplyReview(ctx context.Context, id uuid.UUID, review models.Review) (*models.Application, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
