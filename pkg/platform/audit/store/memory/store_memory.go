package memory

import (
	"context"
	"sort"
	"sync"

	id "trustgate/pkg/domain"
	audit "trustgate/pkg/platform/audit"
)

// InMemoryStore keeps audit events per applicant. Events without an applicant
// (policy and collaborator events) are kept under the nil ID.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ApplicantID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ApplicantID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.ApplicantID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ApplicantID] = append(s.events[event.ApplicantID], event)
	return nil
}

func (s *InMemoryStore) ListByApplicant(_ context.Context, applicantID id.ApplicantID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events[applicantID]...), nil
}

// ListRecent returns the most recent limit events across all applicants,
// newest first.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	var all []audit.Event
	for _, events := range s.events {
		all = append(all, events...)
	}
	s.mu.RUnlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}
