package members

import (
	"context"
	"database/sql"
	"errors"

	"sim-backend/internal/sim"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, member Member) error {
	const query = `
INSERT INTO members (id, email, name, picture_url, auth_provider, provider_user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, now(), now())
ON CONFLICT (id) DO UPDATE SET
  email = EXCLUDED.email,
  name = EXCLUDED.name,
  picture_url = EXCLUDED.picture_url,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		member.ID,
		member.Email,
		member.Name,
		member.PictureURL,
		member.AuthProvider,
		member.ProviderUserID,
	)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, memberID string) (Member, error) {
	const query = `
SELECT id, email, name, picture_url, auth_provider, provider_user_id, executive_role, organization_id, created_at, updated_at
FROM members
WHERE id = $1
LIMIT 1`
	var member Member
	var role sql.NullString
	var orgID sql.NullString
	err := r.DB.QueryRowContext(ctx, query, memberID).Scan(
		&member.ID,
		&member.Email,
		&member.Name,
		&member.PictureURL,
		&member.AuthProvider,
		&member.ProviderUserID,
		&role,
		&orgID,
		&member.CreatedAt,
		&member.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Member{}, ErrNotFound
		}
		return Member{}, err
	}
	if role.Valid {
		member.Role = sim.Role(role.String)
	}
	if orgID.Valid {
		member.OrganizationID = orgID.String
	}
	return member, nil
}

func (r *PGRepo) SetRole(ctx context.Context, memberID string, role sim.Role, organizationID string) error {
	const query = `
UPDATE members
SET executive_role = $1, organization_id = $2, updated_at = now()
WHERE id = $3`
	res, err := r.DB.ExecContext(ctx, query, nullableString(string(role)), nullableString(organizationID), memberID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

var _ Repo = (*PGRepo)(nil)
