package initiatives

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Initiative
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Initiative)}
}

func (r *MemoryRepo) Create(ctx context.Context, i Initiative) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[i.ID] = i
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Initiative, error) {
	if err := ctx.Err(); err != nil {
		return Initiative{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.data[id]
	if !ok {
		return Initiative{}, ErrNotFound
	}
	return i, nil
}

// ListByOrganization returns an organization's initiatives, oldest first.
func (r *MemoryRepo) ListByOrganization(ctx context.Context, orgID string) ([]Initiative, error) {
	return r.filter(ctx, func(i Initiative) bool { return i.OrganizationID == orgID })
}

// ListAll returns every initiative, oldest first.
func (r *MemoryRepo) ListAll(ctx context.Context) ([]Initiative, error) {
	return r.filter(ctx, func(Initiative) bool { return true })
}

func (r *MemoryRepo) filter(ctx context.Context, keep func(Initiative) bool) ([]Initiative, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Initiative, 0, len(r.data))
	for _, i := range r.data {
		if keep(i) {
			out = append(out, i)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID < out[b].ID
		}
		return out[a].CreatedAt.Before(out[b].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, i Initiative) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[i.ID]; !ok {
		return ErrNotFound
	}
	r.data[i.ID] = i
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[id]; !ok {
		return ErrNotFound
	}
	delete(r.data, id)
	return nil
}

// DeleteByOrganization drops every initiative of an organization, matching the
// Postgres cascade.
func (r *MemoryRepo) DeleteByOrganization(ctx context.Context, orgID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, i := range r.data {
		if i.OrganizationID == orgID {
			delete(r.data, id)
		}
	}
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
