package usage

import (
	"context"
	"time"
)

type store interface {
	EnsurePeriod(ctx context.Context, principal string) (Usage, error)
	Consume(ctx context.Context, principal string, n int) (Usage, error)
	Refund(ctx context.Context, principal string, n int) (Usage, error)
	Reset(ctx context.Context, principal string) (Usage, error)
}

// Service meters analysis runs per principal.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store granting limit credits a week.
func NewService(limit int) *Service {
	return &Service{store: newMemoryStore(limit, nil)}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(pgStore store) *Service {
	return &Service{store: pgStore}
}

// Get returns the current usage, rolling the window over when it has expired.
func (s *Service) Get(ctx context.Context, principal string) (Usage, error) {
	return s.store.EnsurePeriod(ctx, principal)
}

// CanConsume reports whether the principal can spend n credits.
func (s *Service) CanConsume(ctx context.Context, principal string, n int) (bool, Usage, error) {
	u, err := s.store.EnsurePeriod(ctx, principal)
	if err != nil {
		return false, Usage{}, err
	}
	return n <= 0 || u.Used+n <= u.Limit, u, nil
}

// Consume spends n credits or returns ErrLimitReached.
func (s *Service) Consume(ctx context.Context, principal string, n int) (Usage, error) {
	return s.store.Consume(ctx, principal, n)
}

// Refund gives back n credits, used when an analysis could not be scheduled.
func (s *Service) Refund(ctx context.Context, principal string, n int) (Usage, error) {
	return s.store.Refund(ctx, principal, n)
}

// Reset sets usage to zero and restarts the window.
func (s *Service) Reset(ctx context.Context, principal string) (Usage, error) {
	return s.store.Reset(ctx, principal)
}

func nowUTC(now func() time.Time) time.Time {
	if now == nil {
		return time.Now().UTC()
	}
	return now().UTC()
}
