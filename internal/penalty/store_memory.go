package penalty

import (
	"context"
	"sync"
	"time"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
)

type exeatCause struct {
	exeatID domain.ExeatID
	cause   Cause
}

// InMemoryStore enforces the one-penalty-per-(exeat,cause) invariant under a
// single lock, which doubles as the atomicity guarantee for concurrent
// CreateIfAbsent calls.
type InMemoryStore struct {
	mu        sync.RWMutex
	penalties map[domain.PenaltyID]*Penalty
	byPair    map[exeatCause]domain.PenaltyID
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		penalties: make(map[domain.PenaltyID]*Penalty),
		byPair:    make(map[exeatCause]domain.PenaltyID),
	}
}

func (s *InMemoryStore) CreateIfAbsent(_ context.Context, p *Penalty) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pair := exeatCause{exeatID: p.ExeatID, cause: p.Cause}
	if _, exists := s.byPair[pair]; exists {
		return false, nil
	}
	stored := *p
	s.penalties[p.ID] = &stored
	s.byPair[pair] = p.ID
	return true, nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.PenaltyID) (*Penalty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.penalties[id]; ok {
		found := *p
		return &found, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByStudent(_ context.Context, studentID domain.StudentID) ([]*Penalty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Penalty
	for _, p := range s.penalties {
		if p.StudentID == studentID {
			found := *p
			out = append(out, &found)
		}
	}
	return out, nil
}

func (s *InMemoryStore) ListByExeat(_ context.Context, exeatID domain.ExeatID) ([]*Penalty, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Penalty
	for _, p := range s.penalties {
		if p.ExeatID == exeatID {
			found := *p
			out = append(out, &found)
		}
	}
	return out, nil
}

func (s *InMemoryStore) MarkPaid(_ context.Context, id domain.PenaltyID, at time.Time) (*Penalty, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.penalties[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if p.Status != StatusPending {
		return nil, sentinel.ErrInvalidState
	}
	p.Status = StatusPaid
	paidAt := at
	p.PaidAt = &paidAt
	updated := *p
	return &updated, nil
}
