package organizations

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Organization
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Organization)}
}

func (r *MemoryRepo) Create(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[org.ID] = clone(org)
	return nil
}

func (r *MemoryRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	if err := ctx.Err(); err != nil {
		return Organization{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	org, ok := r.data[id]
	if !ok {
		return Organization{}, ErrNotFound
	}
	return clone(org), nil
}

// List returns organizations ordered by name.
func (r *MemoryRepo) List(ctx context.Context) ([]Organization, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Organization, 0, len(r.data))
	for _, org := range r.data {
		out = append(out, clone(org))
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *MemoryRepo) Update(ctx context.Context, org Organization) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.data[org.ID]; !ok {
		return ErrNotFound
	}
	r.data[org.ID] = clone(org)
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

func clone(org Organization) Organization {
	org.StrategicPriorities = append([]string(nil), org.StrategicPriorities...)
	return org
}

var _ Repo = (*MemoryRepo)(nil)
