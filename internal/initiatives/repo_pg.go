package initiatives

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, organization_id, name, description, financial_impact, operational_complexity, competitive_disruption, time_urgency, created_at, updated_at`

// Create inserts a new initiative.
func (r *PGRepo) Create(ctx context.Context, i Initiative) error {
	const query = `
INSERT INTO strategic_initiatives (
    id,
    organization_id,
    name,
    description,
    financial_impact,
    operational_complexity,
    competitive_disruption,
    time_urgency,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.DB.ExecContext(ctx, query,
		i.ID,
		i.OrganizationID,
		i.Name,
		i.Description,
		i.FinancialImpact,
		i.OperationalComplexity,
		i.CompetitiveDisruption,
		i.TimeUrgency,
		i.CreatedAt,
		i.UpdatedAt,
	)
	return err
}

// GetByID fetches one initiative.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Initiative, error) {
	query := `SELECT ` + selectColumns + ` FROM strategic_initiatives WHERE id = $1`
	var i Initiative
	err := r.DB.QueryRowContext(ctx, query, id).Scan(scanTargets(&i)...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Initiative{}, ErrNotFound
		}
		return Initiative{}, err
	}
	return i, nil
}

// ListByOrganization returns an organization's initiatives, oldest first.
func (r *PGRepo) ListByOrganization(ctx context.Context, orgID string) ([]Initiative, error) {
	query := `SELECT ` + selectColumns + ` FROM strategic_initiatives WHERE organization_id = $1 ORDER BY created_at, id`
	return r.list(ctx, query, orgID)
}

// ListAll returns every initiative, oldest first.
func (r *PGRepo) ListAll(ctx context.Context) ([]Initiative, error) {
	query := `SELECT ` + selectColumns + ` FROM strategic_initiatives ORDER BY created_at, id`
	return r.list(ctx, query)
}

func (r *PGRepo) list(ctx context.Context, query string, args ...any) ([]Initiative, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Initiative
	for rows.Next() {
		var i Initiative
		if err := rows.Scan(scanTargets(&i)...); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// Update overwrites the editable fields of an initiative.
func (r *PGRepo) Update(ctx context.Context, i Initiative) error {
	const query = `
UPDATE strategic_initiatives
SET name = $1, description = $2, financial_impact = $3, operational_complexity = $4,
    competitive_disruption = $5, time_urgency = $6, updated_at = $7
WHERE id = $8`
	res, err := r.DB.ExecContext(ctx, query,
		i.Name, i.Description, i.FinancialImpact, i.OperationalComplexity,
		i.CompetitiveDisruption, i.TimeUrgency, i.UpdatedAt, i.ID)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// Delete removes an initiative.
func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM strategic_initiatives WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func scanTargets(i *Initiative) []any {
	return []any{
		&i.ID,
		&i.OrganizationID,
		&i.Name,
		&i.Description,
		&i.FinancialImpact,
		&i.OperationalComplexity,
		&i.CompetitiveDisruption,
		&i.TimeUrgency,
		&i.CreatedAt,
		&i.UpdatedAt,
	}
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
