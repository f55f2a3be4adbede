package models

import (
	"time"

	"github.com/google/uuid"

	dErrors "whitelist/pkg/domain-errors"
)

// Status is the lifecycle state of an application.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Application is the aggregate root for a whitelist request.
//
// Invariants:
//   - Status starts at pending and changes at most once (no re-review,
//     no reverting)
//   - ReviewedBy and ReviewedAt are both nil iff Status == pending, and
//     both set otherwise
//   - ReviewReason is non-empty whenever Status == rejected
//   - Every field other than Status, ReviewedBy, ReviewedAt and ReviewReason
//     is immutable after creation
//
// The review transition is enforced atomically by the store (mutex in memory,
// conditional UPDATE in Postgres) so that exactly one of two racing reviews
// wins and the other observes the already-reviewed state.
type Application struct {
	ID                   uuid.UUID  `json:"id"`
	UserID               string     `json:"userId"`
	Username             string     `json:"username"`
	DiscordID            string     `json:"discordId"`
	SteamID              string     `json:"steamId"`
	AboutYourself        string     `json:"aboutYourself"`
	RPExperience         string     `json:"rpExperience"`
	CharacterName        string     `json:"characterName"`
	CharacterAge         string     `json:"characterAge"`
	CharacterNationality string     `json:"characterNationality"`
	CharacterBackstory   string     `json:"characterBackstory"`
	ContentCreation      *string    `json:"contentCreation"`
	PreviousServers      *string    `json:"previousServers"`
	RulesRead            bool       `json:"rulesRead"`
	CfxLinked            bool       `json:"cfxLinked"`
	Status               Status     `json:"status"`
	ReviewedBy           *string    `json:"reviewedBy"`
	ReviewReason         *string    `json:"reviewReason"`
	CreatedAt            time.Time  `json:"createdAt"`
	ReviewedAt           *time.Time `json:"reviewedAt"`
}

// Review captures a decision to apply to a pending application.
type Review struct {
	Status     Status
	ReviewedBy string
	Reason     *string
	ReviewedAt time.Time
}

// CanReview checks whether the application is still open for a decision.
// Use with ApplyReview inside the store's atomic update.
func (a *Application) CanReview() error {
	if a.Status != StatusPending {
		return dErrors.New(dErrors.CodeConflict, "application has already been reviewed")
	}
	return nil
}

// ApplyReview transitions the application to its terminal status. Call
// CanReview first; the store holds its lock across both.
func (a *Application) ApplyReview(r Review) {
	a.Status = r.Status
	reviewer := r.ReviewedBy
	a.ReviewedBy = &reviewer
	at := r.ReviewedAt
	a.ReviewedAt = &at
	if r.Status == StatusRejected {
		a.ReviewReason = r.Reason
	}
}

// Clone returns a deep copy so store callers never share pointers with the
// stored record.
func (a *Application) Clone() *Application {
	cp := *a
	cp.ContentCreation = cloneString(a.ContentCreation)
	cp.PreviousServers = cloneString(a.PreviousServers)
	cp.ReviewedBy = cloneString(a.ReviewedBy)
	cp.ReviewReason = cloneString(a.ReviewReason)
	if a.ReviewedAt != nil {
		at := *a.ReviewedAt
		cp.ReviewedAt = &at
	}
	return &cp
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
