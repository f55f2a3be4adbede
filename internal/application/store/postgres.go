package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"whitelist/internal/application/models"
	"whitelist/pkg/platform/sentinel"
)

// Postgres persists applications in PostgreSQL. The store is pure I/O; the
// review invariants live in the service and the entity, with the single
// exception of the conditional UPDATE in ApplyReview, which is how the
// pending-to-terminal transition stays atomic under concurrent reviewers.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

const applicationColumns = `
	id, user_id, username, discord_id, steam_id,
	about_yourself, rp_experience,
	character_name, character_age, character_nationality, character_backstory,
	content_creation, previous_servers, rules_read, cfx_linked,
	status, reviewed_by, review_reason, created_at, reviewed_at
`

// EnsureSchema creates the applications table when it does not exist yet.
// Deployments with managed migrations can skip this.
func (s *Postgres) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS applications (
			id UUID PRIMARY KEY,
			user_id TEXT NOT NULL,
			username TEXT NOT NULL,
			discord_id TEXT NOT NULL,
			steam_id TEXT NOT NULL,
			about_yourself TEXT NOT NULL,
			rp_experience TEXT NOT NULL,
			character_name TEXT NOT NULL,
			character_age TEXT NOT NULL,
			character_nationality TEXT NOT NULL,
			character_backstory TEXT NOT NULL,
			content_creation TEXT,
			previous_servers TEXT,
			rules_read BOOLEAN NOT NULL DEFAULT FALSE,
			cfx_linked BOOLEAN NOT NULL DEFAULT FALSE,
			status TEXT NOT NULL DEFAULT 'pending',
			reviewed_by TEXT,
			review_reason TEXT,
			created_at TIMESTAMPTZ NOT NULL,
			reviewed_at TIMESTAMPTZ,
			seq BIGSERIAL
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure applications schema: %w", err)
	}
	return nil
}

func (s *Postgres) Create(ctx context.Context, app *models.Application) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, user_id, username, discord_id, steam_id,
			about_yourself, rp_experience,
			character_name, character_age, character_nationality, character_backstory,
			content_creation, previous_servers, rules_read, cfx_linked,
			status, reviewed_by, review_reason, created_at, reviewed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`,
		app.ID, app.UserID, app.Username, app.DiscordID, app.SteamID,
		app.AboutYourself, app.RPExperience,
		app.CharacterName, app.CharacterAge, app.CharacterNationality, app.CharacterBackstory,
		app.ContentCreation, app.PreviousServers, app.RulesRead, app.CfxLinked,
		app.Status, app.ReviewedBy, app.ReviewReason, app.CreatedAt, app.ReviewedAt,
	)
	if err != nil {
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return app, nil
}

func (s *Postgres) List(ctx context.Context) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications ORDER BY seq`
	return s.queryApplications(ctx, query)
}

func (s *Postgres) ListByStatus(ctx context.Context, status models.Status) ([]*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE status = $1 ORDER BY seq`
	return s.queryApplications(ctx, query, status)
}

// ApplyReview commits the transition only while the stored status is still
// pending. A lost race affects zero rows, and a follow-up lookup tells
// not-found apart from already-reviewed.
func (s *Postgres) ApplyReview(ctx context.Context, id uuid.UUID, review models.Review) (*models.Application, error) {
	query := `
		UPDATE applications
		SET status = $2, reviewed_by = $3, review_reason = $4, reviewed_at = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + applicationColumns
	var reason *string
	if review.Status == models.StatusRejected {
		reason = review.Reason
	}
	app, err := scanApplication(s.db.QueryRowContext(ctx, query,
		id, review.Status, review.ReviewedBy, reason, review.ReviewedAt,
	))
	if err == nil {
		return app, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("apply review: %w", err)
	}

	if _, err := s.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return nil, sentinel.ErrAlreadyReviewed
}

func (s *Postgres) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) queryApplications(ctx context.Context, query string, args ...any) ([]*models.Application, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("list applications: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID, &app.UserID, &app.Username, &app.DiscordID, &app.SteamID,
		&app.AboutYourself, &app.RPExperience,
		&app.CharacterName, &app.CharacterAge, &app.CharacterNationality, &app.CharacterBackstory,
		&app.ContentCreation, &app.PreviousServers, &app.RulesRead, &app.CfxLinked,
		&app.Status, &app.ReviewedBy, &app.ReviewReason, &app.CreatedAt, &app.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}
