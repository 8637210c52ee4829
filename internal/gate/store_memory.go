package gate

import (
	"context"
	"sort"
	"sync"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
)

// InMemoryStore keeps gate activity per exeat in insertion order.
type InMemoryStore struct {
	mu         sync.RWMutex
	byExeat    map[domain.ExeatID][]*Activity
	unresolved []*Activity // activities with no decoded exeat reference
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byExeat: make(map[domain.ExeatID][]*Activity)}
}

func (s *InMemoryStore) Record(_ context.Context, activity *Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *activity
	if stored.ExeatID.IsZero() {
		s.unresolved = append(s.unresolved, &stored)
		return nil
	}
	s.byExeat[stored.ExeatID] = append(s.byExeat[stored.ExeatID], &stored)
	return nil
}

func (s *InMemoryStore) ListByExeat(_ context.Context, exeatID domain.ExeatID) ([]*Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activities := s.byExeat[exeatID]
	out := make([]*Activity, len(activities))
	for i, a := range activities {
		found := *a
		out[i] = &found
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *InMemoryStore) LastMovement(_ context.Context, exeatID domain.ExeatID) (*Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	activities := s.byExeat[exeatID]
	for i := len(activities) - 1; i >= 0; i-- {
		if activities[i].Result != ResultInvalid {
			found := *activities[i]
			return &found, nil
		}
	}
	return nil, sentinel.ErrNotFound
}
