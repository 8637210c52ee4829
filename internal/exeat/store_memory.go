package exeat

import (
	"context"
	"sync"
	"time"

	"unipass/pkg/domain"
	"unipass/pkg/platform/sentinel"
	"unipass/pkg/requestcontext"
)

// InMemoryStore keeps the development and unit-test implementation
// lightweight. One mutex guards the whole map; per-entity contention is not
// a concern at test scale, and holding the lock across the check-then-write
// in Transition gives the same atomicity the Postgres store gets from its
// conditional UPDATE.
type InMemoryStore struct {
	mu     sync.RWMutex
	exeats map[domain.ExeatID]*Request
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{exeats: make(map[domain.ExeatID]*Request)}
}

func (s *InMemoryStore) Create(_ context.Context, req *Request) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.exeats[req.ID]; exists {
		return sentinel.ErrDuplicate
	}
	stored := *req
	s.exeats[req.ID] = &stored
	return nil
}

func (s *InMemoryStore) FindByID(_ context.Context, id domain.ExeatID) (*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if req, ok := s.exeats[id]; ok {
		found := *req
		return &found, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) ListByStudent(_ context.Context, studentID domain.StudentID) ([]*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Request
	for _, req := range s.exeats {
		if req.StudentID == studentID {
			found := *req
			out = append(out, &found)
		}
	}
	return out, nil
}

func (s *InMemoryStore) Transition(ctx context.Context, id domain.ExeatID, from, to Status, mutate func(*Request)) (*Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.exeats[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	if req.Status != from {
		return nil, sentinel.ErrInvalidState
	}
	req.Status = to
	req.UpdatedAt = requestcontext.Now(ctx)
	if mutate != nil {
		mutate(req)
	}
	updated := *req
	return &updated, nil
}

func (s *InMemoryStore) ListApprovedReturnDue(_ context.Context, cutoff time.Time) ([]*Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Request
	for _, req := range s.exeats {
		if req.Status == StatusApproved && !req.ReturnAt.After(cutoff) {
			found := *req
			out = append(out, &found)
		}
	}
	return out, nil
}
