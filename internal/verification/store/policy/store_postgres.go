package policy

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trustgate/internal/verification/scoring"
	"trustgate/pkg/platform/sentinel"
)

// Schema creates the policies table. Documents are compared as JSONB, so key
// order does not make two identical policies conflict.
const Schema = `
CREATE TABLE IF NOT EXISTS scoring_policies (
	version      TEXT PRIMARY KEY,
	document     JSONB NOT NULL,
	activated_at TIMESTAMPTZ NOT NULL
);
`

// PostgresStore persists policies next to the decisions scored with them.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the policies table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create policies table: %w", err)
	}
	return nil
}

// Save records p. Saving an identical document again only moves its
// activation time.
func (s *PostgresStore) Save(ctx context.Context, p scoring.Policy, activatedAt time.Time) error {
	doc, err := json.Marshal(p.Document())
	if err != nil {
		return fmt.Errorf("marshal policy %s: %w", p.Version(), err)
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scoring_policies (version, document, activated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (version) DO UPDATE SET activated_at = EXCLUDED.activated_at
		WHERE scoring_policies.document = EXCLUDED.document
	`, p.Version(), doc, activatedAt)
	if err != nil {
		return fmt.Errorf("save policy %s: %w", p.Version(), err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save policy %s: %w", p.Version(), err)
	}
	if n == 0 {
		return fmt.Errorf("policy %s: %w", p.Version(), sentinel.ErrConflict)
	}
	return nil
}

func (s *PostgresStore) FindByVersion(ctx context.Context, version string) (scoring.Policy, error) {
	var doc []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT document FROM scoring_policies WHERE version = $1`, version).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return scoring.Policy{}, sentinel.ErrNotFound
		}
		return scoring.Policy{}, fmt.Errorf("find policy %s: %w", version, err)
	}
	return decode(version, doc)
}

func (s *PostgresStore) List(ctx context.Context) ([]scoring.Policy, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT version, document FROM scoring_policies ORDER BY activated_at`)
	if err != nil {
		return nil, fmt.Errorf("query policies: %w", err)
	}
	defer rows.Close()

	var out []scoring.Policy
	for rows.Next() {
		var (
			version string
			doc     []byte
		)
		if err := rows.Scan(&version, &doc); err != nil {
			return nil, fmt.Errorf("scan policy: %w", err)
		}
		p, err := decode(version, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate policies: %w", err)
	}
	return out, nil
}

func decode(version string, data []byte) (scoring.Policy, error) {
	var doc scoring.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return scoring.Policy{}, fmt.Errorf("decode policy %s: %w", version, err)
	}
	p, err := doc.Policy()
	if err != nil {
		return scoring.Policy{}, fmt.Errorf("decode policy %s: %w", version, err)
	}
	return p, nil
}
