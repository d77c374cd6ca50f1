package fingerprint

import (
	"context"
	"sync"
	"time"

	"trustgate/internal/verification/ports"
	id "trustgate/pkg/domain"
)

type claim struct {
	applicant id.ApplicantID
	expiresAt time.Time
}

// InMemoryStore remembers which applicant first claimed each fingerprint.
type InMemoryStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	now    func() time.Time
	claims map[string]claim
}

// NewInMemoryStore keeps claims for ttl; zero keeps them forever.
func NewInMemoryStore(ttl time.Duration) *InMemoryStore {
	return &InMemoryStore{ttl: ttl, now: time.Now, claims: make(map[string]claim)}
}

// IsDuplicate claims the fingerprint for the applicant if it is free. It is a
// duplicate only when another applicant holds the claim; a resubmission by
// the same applicant refreshes it.
func (s *InMemoryStore) IsDuplicate(_ context.Context, q ports.DuplicateQuery) (bool, error) {
	if q.Fingerprint == "" {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if c, ok := s.claims[q.Fingerprint]; ok && (c.expiresAt.IsZero() || now.Before(c.expiresAt)) {
		if c.applicant != q.ApplicantID {
			return true, nil
		}
	}
	c := claim{applicant: q.ApplicantID}
	if s.ttl > 0 {
		c.expiresAt = now.Add(s.ttl)
	}
	s.claims[q.Fingerprint] = c
	return false, nil
}
