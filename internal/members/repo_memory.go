package members

import (
	"context"
	"sync"
	"time"

	"sim-backend/internal/sim"
)

type MemoryRepo struct {
	mu      sync.RWMutex
	members map[string]Member
	now     func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{members: make(map[string]Member), now: time.Now}
}

func (r *MemoryRepo) Upsert(ctx context.Context, member Member) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now().UTC()
	if existing, ok := r.members[member.ID]; ok {
		member.CreatedAt = existing.CreatedAt
		member.Role = existing.Role
		member.OrganizationID = existing.OrganizationID
	} else {
		member.CreatedAt = now
	}
	member.UpdatedAt = now
	r.members[member.ID] = member
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, memberID string) (Member, error) {
	if err := ctx.Err(); err != nil {
		return Member{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	member, ok := r.members[memberID]
	if !ok {
		return Member{}, ErrNotFound
	}
	return member, nil
}

func (r *MemoryRepo) SetRole(ctx context.Context, memberID string, role sim.Role, organizationID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	member, ok := r.members[memberID]
	if !ok {
		return ErrNotFound
	}
	member.Role = role
	member.OrganizationID = organizationID
	member.UpdatedAt = r.now().UTC()
	r.members[memberID] = member
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
