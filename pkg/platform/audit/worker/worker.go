// Package worker relays the audit outbox to the event stream.
package worker

import (
	"context"
	"log/slog"
	"time"

	audit "trustgate/pkg/platform/audit"

	"github.com/google/uuid"
)

// Source yields unpublished outbox entries and records their delivery.
type Source interface {
	Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Publisher delivers a batch of entries.
type Publisher interface {
	Publish(ctx context.Context, entries []audit.OutboxEntry) error
}

// Worker polls the outbox and publishes pending entries. Delivery is at
// least once: a crash between Publish and MarkPublished republishes the
// batch, and consumers dedupe on the event ID header.
type Worker struct {
	source    Source
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// Option configures the Worker.
type Option func(*Worker)

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func NewWorker(source Source, publisher Publisher, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		source:    source,
		publisher: publisher,
		logger:    logger,
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled. Failures are logged and retried on the
// next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				n, err := w.RelayOnce(ctx)
				if err != nil {
					w.logger.ErrorContext(ctx, "audit outbox relay failed", "error", err)
					break
				}
				if n < w.batchSize {
					break
				}
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries were relayed.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	entries, err := w.source.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := w.publisher.Publish(ctx, entries); err != nil {
		return 0, err
	}
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	if err := w.source.MarkPublished(ctx, ids); err != nil {
		return 0, err
	}
	return len(entries), nil
}
