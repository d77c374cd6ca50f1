package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, caches and collaborator
// adapters return these (optionally wrapped) so services can translate them
// into domain errors or inconclusive signals.
//
//   - ErrNotFound: record does not exist in the store
//   - ErrConflict: a unique key (decision ID, fingerprint) is already taken
//   - ErrUnavailable: backing service temporarily unreachable
//   - ErrTimeout: the call exceeded its time budget
//
// Validation failures use pkg/domain-errors directly.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
	ErrTimeout     = errors.New("timeout")
)
