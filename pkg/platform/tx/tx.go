// Package tx carries a SQL transaction through context so stores that share a
// database can join one unit of work without knowing about each other.
package tx

import (
	"context"
	"database/sql"
	"time"

	dErrors "trustgate/pkg/domain-errors"
)

type ctxKey struct{}

var txKey = ctxKey{}

// WithTx stores a SQL transaction in context for downstream store usage.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, txKey, tx)
}

// From extracts a SQL transaction from context if present.
func From(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey).(*sql.Tx)
	return tx, ok
}

// Runner runs fn as one unit of work. Stores called with the context passed
// to fn participate in it.
type Runner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// defaultTxTimeout bounds transactions whose context has no deadline.
const defaultTxTimeout = 5 * time.Second

// PostgresRunner wraps fn in a database transaction.
type PostgresRunner struct {
	db      *sql.DB
	timeout time.Duration
}

func NewPostgresRunner(db *sql.DB) *PostgresRunner {
	return &PostgresRunner{db: db, timeout: defaultTxTimeout}
}

func (r *PostgresRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(WithTx(ctx, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

// NoopRunner runs fn directly. In-memory stores have no rollback, so callers
// order their writes so that a failure leaves nothing half-visible.
type NoopRunner struct{}

func (NoopRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
