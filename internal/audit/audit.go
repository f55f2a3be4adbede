// Package audit captures structured audit events for submissions and review
// decisions. It is append-only and uses a small store interface so tests can
// swap sinks easily.
package audit

import (
	"context"
	"time"
)

const (
	EventApplicationSubmitted = "application.submitted"
	EventApplicationApproved  = "application.approved"
	EventApplicationRejected  = "application.rejected"
	EventApplicationDeleted   = "application.deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time
	ApplicationID string
	ActorID       string
	ActorName     string
	Action        string
	Reason        string
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByApplication(ctx context.Context, applicationID string) ([]Event, error)
}

// Publisher captures audit events into a store.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, applicationID string) ([]Event, error) {
	return p.store.ListByApplication(ctx, applicationID)
}
