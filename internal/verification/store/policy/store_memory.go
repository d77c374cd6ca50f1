package policy

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trustgate/internal/verification/scoring"
	"trustgate/pkg/platform/sentinel"
)

type stored struct {
	policy      scoring.Policy
	activatedAt time.Time
}

// InMemoryStore keeps policies in process memory. Used when no database is
// configured, where nothing outlives the process anyway.
type InMemoryStore struct {
	mu       sync.RWMutex
	versions map[string]stored
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{versions: make(map[string]stored)}
}

func (s *InMemoryStore) Save(_ context.Context, p scoring.Policy, activatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.versions[p.Version()]; ok && !existing.policy.Equal(p) {
		return fmt.Errorf("policy %s: %w", p.Version(), sentinel.ErrConflict)
	}
	s.versions[p.Version()] = stored{policy: p, activatedAt: activatedAt}
	return nil
}

func (s *InMemoryStore) FindByVersion(_ context.Context, version string) (scoring.Policy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.versions[version]
	if !ok {
		return scoring.Policy{}, sentinel.ErrNotFound
	}
	return st.policy, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]scoring.Policy, error) {
	s.mu.RLock()
	all := make([]stored, 0, len(s.versions))
	for _, st := range s.versions {
		all = append(all, st)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].activatedAt.Before(all[j].activatedAt)
	})
	out := make([]scoring.Policy, len(all))
	for i, st := range all {
		out[i] = st.policy
	}
	return out, nil
}
