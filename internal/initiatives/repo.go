package initiatives

import "context"

// Repo defines persistence operations for initiatives.
type Repo interface {
	Create(ctx context.Context, i Initiative) error
	GetByID(ctx context.Context, id string) (Initiative, error)
	ListByOrganization(ctx context.Context, orgID string) ([]Initiative, error)
	ListAll(ctx context.Context) ([]Initiative, error)
	Update(ctx context.Context, i Initiative) error
	Delete(ctx context.Context, id string) error
}
