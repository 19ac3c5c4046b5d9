package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu    sync.Mutex
	limit int
	now   func() time.Time
	data  map[string]Usage
}

func newMemoryStore(limit int, now func() time.Time) *memoryStore {
	return &memoryStore{
		limit: limit,
		now:   now,
		data:  make(map[string]Usage),
	}
}

// current returns the principal's usage for the active window. Callers hold mu.
func (s *memoryStore) current(principal string) Usage {
	now := nowUTC(s.now)
	u, ok := s.data[principal]
	if !ok {
		u = newUsage(s.limit, now)
	}
	u, _ = rollover(u, now)
	s.data[principal] = u
	return u
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, principal string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(principal), nil
}

func (s *memoryStore) Consume(ctx context.Context, principal string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(principal)
	if n <= 0 {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return u, ErrLimitReached
	}
	u.Used += n
	s.data[principal] = u
	return u, nil
}

func (s *memoryStore) Refund(ctx context.Context, principal string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(principal)
	u.Used = max(u.Used-max(n, 0), 0)
	s.data[principal] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, principal string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := newUsage(s.limit, nowUTC(s.now))
	if prev, ok := s.data[principal]; ok {
		u.Plan = prev.Plan
	}
	s.data[principal] = u
	return u, nil
}
