package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores analyses in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu   sync.RWMutex
	byID map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{byID: make(map[string]Analysis)}
}

// Create stores the analysis.
func (r *MemoryRepo) Create(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[analysis.ID] = analysis
	return nil
}

// GetByID returns an analysis by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// UpdateStatus applies a partial status update.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, analysisID string, update StatusUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	analysis, ok := r.byID[analysisID]
	if !ok {
		return ErrNotFound
	}
	update.apply(&analysis)
	r.byID[analysisID] = analysis
	return nil
}

// ListByOrganization returns an organization's analyses, newest first, with limit/offset.
func (r *MemoryRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	var analyses []Analysis
	for _, a := range r.byID {
		if a.OrganizationID == organizationID {
			analyses = append(analyses, a)
		}
	}
	r.mu.RUnlock()

	if len(analyses) == 0 || offset >= len(analyses) {
		return []Analysis{}, nil
	}

	sort.Slice(analyses, func(i, j int) bool {
		if analyses[i].CreatedAt.Equal(analyses[j].CreatedAt) {
			return analyses[i].ID > analyses[j].ID
		}
		return analyses[i].CreatedAt.After(analyses[j].CreatedAt)
	})

	end := len(analyses)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return analyses[offset:end], nil
}

// ClaimGuest reassigns every analysis owned by guestUserID to userID.
func (r *MemoryRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	claimed := 0
	for id, a := range r.byID {
		if a.UserID == guestUserID {
			a.UserID = userID
			r.byID[id] = a
			claimed++
		}
	}
	return claimed, nil
}

var _ Repo = (*MemoryRepo)(nil)
