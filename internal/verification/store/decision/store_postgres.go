package decision

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	id "trustgate/pkg/domain"
	"trustgate/pkg/platform/sentinel"
	txcontext "trustgate/pkg/platform/tx"
)

// Schema creates the decisions table.
const Schema = `
CREATE TABLE IF NOT EXISTS verification_decisions (
	id             UUID PRIMARY KEY,
	submission_id  UUID NOT NULL UNIQUE,
	applicant_id   UUID NOT NULL,
	score          SMALLINT NOT NULL CHECK (score BETWEEN 0 AND 100),
	decision       TEXT NOT NULL,
	policy_version TEXT NOT NULL,
	bundle         JSONB NOT NULL,
	result         JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS verification_decisions_applicant_idx
	ON verification_decisions (applicant_id, created_at DESC);
`

const uniqueViolation = "23505"

// PostgresStore persists decisions in PostgreSQL. Save joins the transaction
// carried by ctx, if any.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the decisions table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create decisions table: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Save(ctx context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("decision record is required")
	}
	bundle, err := json.Marshal(rec.Bundle)
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}
	result, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	query := `
		INSERT INTO verification_decisions
			(id, submission_id, applicant_id, score, decision, policy_version, bundle, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(rec.ID),
		uuid.UUID(rec.SubmissionID),
		uuid.UUID(rec.ApplicantID),
		rec.Result.Score,
		string(rec.Result.Decision),
		rec.PolicyVersion,
		bundle,
		result,
		rec.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("save decision %s: %w", rec.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("save decision: %w", err)
	}
	return nil
}

const selectColumns = `id, submission_id, applicant_id, policy_version, bundle, result, created_at`

func (s *PostgresStore) FindByID(ctx context.Context, decisionID id.DecisionID) (*Record, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM verification_decisions WHERE id = $1`,
		uuid.UUID(decisionID))
	return scanRecord(row)
}

func (s *PostgresStore) FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*Record, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM verification_decisions WHERE submission_id = $1`,
		uuid.UUID(submissionID))
	return scanRecord(row)
}

func (s *PostgresStore) ListByApplicant(ctx context.Context, applicantID id.ApplicantID) ([]*Record, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectColumns+` FROM verification_decisions WHERE applicant_id = $1 ORDER BY created_at DESC`,
		uuid.UUID(applicantID))
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate decisions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                      Record
		decisionID, subID, appID uuid.UUID
		bundle, result           []byte
	)
	err := row.Scan(&decisionID, &subID, &appID, &rec.PolicyVersion, &bundle, &result, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("scan decision: %w", err)
	}
	rec.ID = id.DecisionID(decisionID)
	rec.SubmissionID = id.SubmissionID(subID)
	rec.ApplicantID = id.ApplicantID(appID)
	if err := json.Unmarshal(bundle, &rec.Bundle); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	if err := json.Unmarshal(result, &rec.Result); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &rec, nil
}
