package revocation

import (
	"context"
	"sync"
	"time"
)

// Clock is injected for testability (defaults to time.Now).
type Clock func() time.Time

// InMemoryStore is the single-process revocation list.
type InMemoryStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // jti -> expiry
	clock   Clock
}

// InMemoryOption configures an InMemoryStore.
type InMemoryOption func(*InMemoryStore)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(s *InMemoryStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func NewInMemoryStore(opts ...InMemoryOption) *InMemoryStore {
	s := &InMemoryStore{
		revoked: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *InMemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Minute
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revoked[jti] = s.clock().Add(ttl)
	return nil
}

func (s *InMemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.RLock()
	expiry, ok := s.revoked[jti]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if s.clock().After(expiry) {
		s.mu.Lock()
		delete(s.revoked, jti)
		s.mu.Unlock()
		return false, nil
	}
	return true, nil
}
