package audit

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists audit events in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the audit_events table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS audit_events (
			id BIGSERIAL PRIMARY KEY,
			occurred_at TIMESTAMPTZ NOT NULL,
			application_id TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			actor_name TEXT NOT NULL,
			action TEXT NOT NULL,
			reason TEXT NOT NULL DEFAULT ''
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Append(ctx context.Context, event Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_events (occurred_at, application_id, actor_id, actor_name, action, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, event.Timestamp, event.ApplicationID, event.ActorID, event.ActorName, event.Action, event.Reason)
	if err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByApplication(ctx context.Context, applicationID string) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT occurred_at, application_id, actor_id, actor_name, action, reason
		FROM audit_events
		WHERE application_id = $1
		ORDER BY id
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		if err := rows.Scan(&e.Timestamp, &e.ApplicationID, &e.ActorID, &e.ActorName, &e.Action, &e.Reason); err != nil {
			return nil, fmt.Errorf("list audit events: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
