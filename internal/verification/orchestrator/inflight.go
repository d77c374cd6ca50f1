package orchestrator

import (
	"context"
	"sync"

	id "trustgate/pkg/domain"
)

// inflight tracks the one running evaluation per applicant.
type inflight struct {
	mu      sync.Mutex
	flights map[id.ApplicantID]*flight
}

type flight struct {
	submission id.SubmissionID
	cancel     context.CancelCauseFunc
}

func newInflight() *inflight {
	return &inflight{flights: make(map[id.ApplicantID]*flight)}
}

// start registers a new evaluation, cancelling the applicant's previous one
// with ErrSuperseded. release must be called when the evaluation ends.
func (f *inflight) start(ctx context.Context, applicant id.ApplicantID, submission id.SubmissionID) (context.Context, func()) {
	ctx, cancel := context.WithCancelCause(ctx)
	fl := &flight{submission: submission, cancel: cancel}

	f.mu.Lock()
	if prev, ok := f.flights[applicant]; ok {
		prev.cancel(ErrSuperseded)
	}
	f.flights[applicant] = fl
	f.mu.Unlock()

	release := func() {
		f.mu.Lock()
		if f.flights[applicant] == fl {
			delete(f.flights, applicant)
		}
		f.mu.Unlock()
		cancel(nil)
	}
	return ctx, release
}

// withdraw cancels the applicant's running evaluation and returns its
// submission ID.
func (f *inflight) withdraw(applicant id.ApplicantID) (id.SubmissionID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.flights[applicant]
	if !ok {
		return id.SubmissionID{}, false
	}
	fl.cancel(ErrWithdrawn)
	delete(f.flights, applicant)
	return fl.submission, true
}
