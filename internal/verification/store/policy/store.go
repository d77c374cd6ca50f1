// Package policy persists every scoring policy version that was ever
// activated, so decisions scored under a retired version can still be
// replayed after a restart.
package policy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trustgate/internal/verification/scoring"
)

// Store keeps activated policies keyed by version. A version's content never
// changes: saving a different policy under a stored version fails with
// sentinel.ErrConflict.
type Store interface {
	Save(ctx context.Context, p scoring.Policy, activatedAt time.Time) error
	FindByVersion(ctx context.Context, version string) (scoring.Policy, error)
	// List returns stored policies, oldest activation first.
	List(ctx context.Context) ([]scoring.Policy, error)
}

// Rehydrate registers every stored policy with reg without changing the
// active version.
func Rehydrate(ctx context.Context, store Store, reg *scoring.Registry) (int, error) {
	stored, err := store.List(ctx)
	if err != nil {
		return 0, err
	}
	var errs []error
	for _, p := range stored {
		if err := reg.Register(p); err != nil {
			errs = append(errs, fmt.Errorf("stored policy %s: %w", p.Version(), err))
		}
	}
	return len(stored), errors.Join(errs...)
}
