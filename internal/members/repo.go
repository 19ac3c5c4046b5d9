package members

import (
	"context"
	"errors"

	"sim-backend/internal/sim"
)

var ErrNotFound = errors.New("member not found")

// Repo persists members.
type Repo interface {
	// Upsert stores identity fields and keeps any role already chosen.
	Upsert(ctx context.Context, member Member) error
	GetByID(ctx context.Context, memberID string) (Member, error)
	SetRole(ctx context.Context, memberID string, role sim.Role, organizationID string) error
}
