package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	audit "trustgate/pkg/platform/audit"
	txcontext "trustgate/pkg/platform/tx"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Schema creates the outbox table. Unpublished rows are indexed so the relay
// scan stays cheap as the table grows.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_outbox (
	id             UUID PRIMARY KEY,
	aggregate_type TEXT NOT NULL,
	aggregate_id   TEXT NOT NULL,
	event_type     TEXT NOT NULL,
	payload        JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL,
	published_at   TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS audit_outbox_unpublished_idx
	ON audit_outbox (created_at) WHERE published_at IS NULL;
`

// Store implements audit.Store using the transactional outbox pattern.
// Events are written to the outbox table and published to Kafka by the
// relay worker. When the caller's context carries a transaction the insert
// joins it, so a decision and its audit row commit together.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New creates a new PostgreSQL audit store that writes to the outbox.
func New(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// EnsureSchema creates the outbox table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create audit outbox: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Append writes an audit event to the outbox table for Kafka publishing.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	entry, err := audit.NewOutboxEntry(event, s.now())
	if err != nil {
		return err
	}

	aggregateType := "audit"
	if !event.ApplicantID.IsNil() {
		aggregateType = "applicant"
	}

	query := `
		INSERT INTO audit_outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		entry.ID,
		aggregateType,
		entry.Key,
		entry.EventType,
		entry.Payload,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert outbox entry: %w", err)
	}
	return nil
}

// Pending returns up to limit unpublished entries, oldest first.
func (s *Store) Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, event_type, payload, created_at
		FROM audit_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []audit.OutboxEntry
	for rows.Next() {
		var e audit.OutboxEntry
		if err := rows.Scan(&e.ID, &e.Key, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox: %w", err)
	}
	return entries, nil
}

// MarkPublished stamps the given entries as relayed.
func (s *Store) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	query := `UPDATE audit_outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`
	if _, err := s.db.ExecContext(ctx, query, s.now(), pq.Array(keys)); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
