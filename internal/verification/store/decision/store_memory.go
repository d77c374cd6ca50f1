package decision

import (
	"context"
	"fmt"
	"sort"
	"sync"

	id "trustgate/pkg/domain"
	"trustgate/pkg/platform/sentinel"
)

// InMemoryStore keeps decisions in process memory.
type InMemoryStore struct {
	mu           sync.RWMutex
	byID         map[id.DecisionID]*Record
	bySubmission map[id.SubmissionID]id.DecisionID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:         make(map[id.DecisionID]*Record),
		bySubmission: make(map[id.SubmissionID]id.DecisionID),
	}
}

func (s *InMemoryStore) Save(_ context.Context, rec *Record) error {
	if rec == nil {
		return fmt.Errorf("decision record is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[rec.ID]; ok {
		return fmt.Errorf("decision %s: %w", rec.ID, sentinel.ErrConflict)
	}
	if _, ok := s.bySubmission[rec.SubmissionID]; ok {
		return fmt.Errorf("submission %s already decided: %w", rec.SubmissionID, sentinel.ErrConflict)
	}
	stored := *rec
	s.byID[rec.ID] = &stored
	s.bySubmission[rec.SubmissionID] = rec.ID
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, decisionID id.DecisionID) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.byID[decisionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *rec
	return &out, nil
}

func (s *InMemoryStore) FindBySubmission(ctx context.Context, submissionID id.SubmissionID) (*Record, error) {
	s.mu.RLock()
	decisionID, ok := s.bySubmission[submissionID]
	s.mu.RUnlock()
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return s.FindByID(ctx, decisionID)
}

// ListByApplicant returns the applicant's decisions, newest first.
func (s *InMemoryStore) ListByApplicant(_ context.Context, applicantID id.ApplicantID) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Record
	for _, rec := range s.byID {
		if rec.ApplicantID == applicantID {
			cp := *rec
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
