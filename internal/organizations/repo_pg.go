package organizations

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"sim-backend/internal/sim"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, name, type, beds, revenue, market, strategic_priorities, created_by, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new organization.
func (r *PGRepo) Create(ctx context.Context, org Organization) error {
	const query = `
INSERT INTO healthcare_organizations (
    id,
    name,
    type,
    beds,
    revenue,
    market,
    strategic_priorities,
    created_by,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	priorities, err := encodePriorities(org.StrategicPriorities)
	if err != nil {
		return err
	}
	var createdBy sql.NullString
	if org.CreatedBy != "" {
		createdBy = sql.NullString{String: org.CreatedBy, Valid: true}
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		org.ID,
		org.Name,
		string(org.Type),
		org.Beds,
		org.Revenue,
		org.Market,
		priorities,
		createdBy,
		org.CreatedAt,
		org.UpdatedAt,
	)
	return err
}

// GetByID fetches one organization.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Organization, error) {
	query := `SELECT ` + selectColumns + ` FROM healthcare_organizations WHERE id = $1`
	org, err := scanOrganization(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Organization{}, ErrNotFound
		}
		return Organization{}, err
	}
	return org, nil
}

// List returns organizations ordered by name.
func (r *PGRepo) List(ctx context.Context) ([]Organization, error) {
	query := `SELECT ` + selectColumns + ` FROM healthcare_organizations ORDER BY name, id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Organization
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, org)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of an organization.
func (r *PGRepo) Update(ctx context.Context, org Organization) error {
	const query = `
UPDATE healthcare_organizations
SET name = $1, type = $2, beds = $3, revenue = $4, market = $5, strategic_priorities = $6, updated_at = $7
WHERE id = $8`
	priorities, err := encodePriorities(org.StrategicPriorities)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		org.Name, string(org.Type), org.Beds, org.Revenue, org.Market, priorities, org.UpdatedAt, org.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes an organization; its initiatives and analyses cascade.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM healthcare_organizations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanOrganization(row rowScanner) (Organization, error) {
	var org Organization
	var typ string
	var priorities []byte
	var createdBy sql.NullString
	if err := row.Scan(
		&org.ID,
		&org.Name,
		&typ,
		&org.Beds,
		&org.Revenue,
		&org.Market,
		&priorities,
		&createdBy,
		&org.CreatedAt,
		&org.UpdatedAt,
	); err != nil {
		return Organization{}, err
	}
	org.Type = sim.OrganizationType(typ)
	if createdBy.Valid {
		org.CreatedBy = createdBy.String
	}
	if len(priorities) > 0 {
		if err := json.Unmarshal(priorities, &org.StrategicPriorities); err != nil {
			return Organization{}, fmt.Errorf("decode strategic_priorities: %w", err)
		}
	}
	return org, nil
}

func encodePriorities(p []string) (string, error) {
	if p == nil {
		p = []string{}
	}
	b, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("encode strategic_priorities: %w", err)
	}
	return string(b), nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
