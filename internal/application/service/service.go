// Package service implements the application lifecycle engine: the single
// authority for submissions, review decisions and deletions. Both entry
// adapters call into this package and duplicate none of its rules.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"whitelist/internal/application/metrics"
	"whitelist/internal/application/models"
	"whitelist/internal/application/store"
	"whitelist/internal/audit"
	"whitelist/internal/notify"
	dErrors "whitelist/pkg/domain-errors"
	"whitelist/pkg/platform/sentinel"
	"whitelist/pkg/requestcontext"
)

// Service orchestrates the application lifecycle. All mutation of stored
// applications passes through here; the store's ApplyReview compare-and-swap
// is what keeps concurrent reviews serializable per application id.
type Service struct {
	store    store.Store
	notifier notify.Notifier
	auditor  *audit.Publisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(auditor *audit.Publisher) Option {
	return func(s *Service) { s.auditor = auditor }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New constructs the lifecycle service.
func New(st store.Store, notifier notify.Notifier, opts ...Option) *Service {
	s := &Service{
		store:    st,
		notifier: notifier,
		logger:   slog.Default(),
		tracer:   otel.Tracer("whitelist/application"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.notifier == nil {
		s.notifier = notify.Noop{}
	}
	return s
}

// Submit validates the canonical payload and creates a pending application
// for the authenticated requester. No special capability is required.
func (s *Service) Submit(ctx context.Context, req *models.SubmitApplicationRequest) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.Submit")
	defer span.End()

	requester := requestcontext.Requester(ctx)
	if !requester.IsAuthenticated() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:                   uuid.New(),
		UserID:               requester.ID,
		Username:             requester.Username,
		DiscordID:            req.DiscordID,
		SteamID:              req.SteamID,
		AboutYourself:        req.AboutYourself,
		RPExperience:         req.RPExperience,
		CharacterName:        req.CharacterName,
		CharacterAge:         req.CharacterAge,
		CharacterNationality: req.CharacterNationality,
		CharacterBackstory:   req.CharacterBackstory,
		ContentCreation:      req.ContentCreation,
		PreviousServers:      req.PreviousServers,
		RulesRead:            req.RulesRead,
		CfxLinked:            req.CfxLinked,
		Status:               models.StatusPending,
		CreatedAt:            requestcontext.Now(ctx),
	}

	if err := s.store.Create(ctx, app); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.emitAudit(ctx, audit.Event{
		ApplicationID: app.ID.String(),
		ActorID:       requester.ID,
		ActorName:     requester.Username,
		Action:        audit.EventApplicationSubmitted,
	})
	if s.metrics != nil {
		s.metrics.Submitted.Inc()
	}

	if err := s.notifier.NotifySubmitted(ctx, app); err != nil {
		s.warnNotifyFailure(ctx, app.ID, "submission", err)
	}
	return app, nil
}

// Review applies an admin decision to a pending application. Exactly one of
// two racing reviews commits; the loser observes the conflict. The
// notification runs after the committed transition and never rolls it back.
func (s *Service) Review(ctx context.Context, id uuid.UUID, req *models.ReviewApplicationRequest) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.Review")
	defer span.End()

	reviewer := requestcontext.Requester(ctx)
	if !reviewer.IsAdmin {
		// Capability check first: a non-admin learns nothing about whether
		// the application exists.
		return nil, dErrors.New(dErrors.CodeForbidden, "admin access required")
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review := models.Review{
		Status:     req.Status,
		ReviewedBy: reviewer.DisplayName,
		Reason:     req.Reason,
		ReviewedAt: requestcontext.Now(ctx),
	}
	if review.ReviewedBy == "" {
		review.ReviewedBy = reviewer.Username
	}

	app, err := s.store.ApplyReview(ctx, id, review)
	if err != nil {
		switch {
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		case errors.Is(err, sentinel.ErrAlreadyReviewed):
			if s.metrics != nil {
				s.metrics.ReviewConflicts.Inc()
			}
			return nil, dErrors.New(dErrors.CodeConflict, "application has already been reviewed")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to review application")
	}

	action := audit.EventApplicationApproved
	outcome := notify.OutcomeApproved
	if req.Status == models.StatusRejected {
		action = audit.EventApplicationRejected
		outcome = notify.OutcomeRejected
	}
	s.emitAudit(ctx, audit.Event{
		ApplicationID: app.ID.String(),
		ActorID:       reviewer.ID,
		ActorName:     review.ReviewedBy,
		Action:        action,
		Reason:        derefOrEmpty(req.Reason),
	})
	if s.metrics != nil {
		if req.Status == models.StatusApproved {
			s.metrics.Approved.Inc()
		} else {
			s.metrics.Rejected.Inc()
		}
	}

	if err := s.notifier.Notify(ctx, app, review.ReviewedBy, outcome); err != nil {
		s.warnNotifyFailure(ctx, app.ID, string(outcome), err)
	}
	return app, nil
}

// Delete removes an application unconditionally. Admin only, irreversible,
// no notification.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	requester := requestcontext.Requester(ctx)
	if !requester.IsAdmin {
		return dErrors.New(dErrors.CodeForbidden, "admin access required")
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete application")
	}

	s.emitAudit(ctx, audit.Event{
		ApplicationID: id.String(),
		ActorID:       requester.ID,
		ActorName:     requester.Username,
		Action:        audit.EventApplicationDeleted,
	})
	return nil
}

// Get returns a single application by id.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

// List returns applications in insertion order, optionally filtered by
// status. An empty status means all.
func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Application, error) {
	var (
		apps []*models.Application
		err  error
	)
	switch {
	case status == "":
		apps, err = s.store.List(ctx)
	case status.IsValid():
		apps, err = s.store.ListByStatus(ctx, status)
	default:
		return nil, dErrors.New(dErrors.CodeValidation, "status must be 'pending', 'approved' or 'rejected'")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		s.logger.InfoContext(ctx, event.Action,
			"application_id", event.ApplicationID,
			"actor", event.ActorName,
			"request_id", requestID,
			"log_type", "audit",
		)
	} else {
		s.logger.InfoContext(ctx, event.Action,
			"application_id", event.ApplicationID,
			"actor", event.ActorName,
			"log_type", "audit",
		)
	}
	if s.auditor == nil {
		return
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to persist audit event",
			"action", event.Action,
			"application_id", event.ApplicationID,
			"error", err,
		)
	}
}

// warnNotifyFailure records a failed best-effort notification. The transition
// it announces is already committed, so the error stops here.
func (s *Service) warnNotifyFailure(ctx context.Context, id uuid.UUID, kind string, err error) {
	s.logger.WarnContext(ctx, "notification failed after committed transition",
		"application_id", id,
		"notification", kind,
		"error", err,
	)
	if s.metrics != nil {
		s.metrics.NotificationFailures.Inc()
	}
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
