// Package notify delivers outcome messages to humans. The lifecycle service
// treats every notifier call as best-effort: a failed delivery is logged and
// counted, never rolled back into the committed transition.
package notify

import (
	"context"
	"sync"

	"whitelist/internal/application/models"
)

// Outcome is the decision communicated to the community.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Notifier is the sink interface consumed by the lifecycle service.
type Notifier interface {
	// Notify announces a review decision. Called exactly once per committed
	// transition, after the store write.
	Notify(ctx context.Context, app *models.Application, reviewerDisplayName string, outcome Outcome) error
	// NotifySubmitted announces a new submission to the review channels.
	NotifySubmitted(ctx context.Context, app *models.Application) error
}

// Noop discards all notifications. Used when no Discord session is configured.
type Noop struct{}

func (Noop) Notify(context.Context, *models.Application, string, Outcome) error { return nil }
func (Noop) NotifySubmitted(context.Context, *models.Application) error         { return nil }

// Delivery records one Notify call for test assertions.
type Delivery struct {
	ApplicationID string
	Reviewer      string
	Outcome       Outcome
}

// Recorder is a test double capturing every call. Err, when set, is returned
// from Notify to exercise the best-effort path.
type Recorder struct {
	mu          sync.Mutex
	Err         error
	deliveries  []Delivery
	submissions []string
}

func (r *Recorder) Notify(_ context.Context, app *models.Application, reviewer string, outcome Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = append(r.deliveries, Delivery{
		ApplicationID: app.ID.String(),
		Reviewer:      reviewer,
		Outcome:       outcome,
	})
	return r.Err
}

func (r *Recorder) NotifySubmitted(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, app.ID.String())
	return r.Err
}

// Deliveries returns a copy of all recorded review notifications.
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Delivery(nil), r.deliveries...)
}

// Submissions returns the application ids announced as submitted.
func (r *Recorder) Submissions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.submissions...)
}
