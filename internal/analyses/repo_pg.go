package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sim-backend/internal/sim"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const selectColumns = `id, organization_id, user_id, status, snapshot_key, result, error_code, error_message, created_at, started_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO sim_analyses (
    id,
    organization_id,
    user_id,
    status,
    snapshot_key,
    result,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

	result, err := encodeResult(analysis.Result)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.OrganizationID,
		analysis.UserID,
		analysis.Status,
		nullString(analysis.SnapshotKey),
		result,
		analysis.CreatedAt,
	)
	return err
}

// GetByID fetches an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	query := `SELECT ` + selectColumns + ` FROM sim_analyses WHERE id = $1`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// UpdateStatus applies a partial status update. COALESCE keeps columns whose
// update field is nil.
func (r *PGRepo) UpdateStatus(ctx context.Context, analysisID string, update StatusUpdate) error {
	const query = `
UPDATE sim_analyses
SET status = $1,
    result = COALESCE($2, result),
    snapshot_key = COALESCE($3, snapshot_key),
    error_code = COALESCE($4, error_code),
    error_message = COALESCE($5, error_message),
    started_at = COALESCE($6, started_at),
    completed_at = COALESCE($7, completed_at)
WHERE id = $8`

	result, err := encodeResult(update.Result)
	if err != nil {
		return err
	}
	res, err := r.DB.ExecContext(ctx, query,
		update.Status,
		result,
		nullStringPtr(update.SnapshotKey),
		nullStringPtr(update.ErrorCode),
		nullStringPtr(update.ErrorMessage),
		nullTime(update.StartedAt),
		nullTime(update.CompletedAt),
		analysisID,
	)
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

// ListByOrganization lists analyses ordered newest-first.
func (r *PGRepo) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	query := `SELECT ` + selectColumns + `
FROM sim_analyses
WHERE organization_id = $1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var snapshotKey sql.NullString
	var result []byte
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	if err := row.Scan(
		&analysis.ID,
		&analysis.OrganizationID,
		&analysis.UserID,
		&analysis.Status,
		&snapshotKey,
		&result,
		&errorCode,
		&errorMessage,
		&analysis.CreatedAt,
		&startedAt,
		&completedAt,
	); err != nil {
		return Analysis{}, err
	}
	if snapshotKey.Valid {
		analysis.SnapshotKey = snapshotKey.String
	}
	if len(result) > 0 {
		var decoded sim.AnalysisResult
		if err := json.Unmarshal(result, &decoded); err != nil {
			return Analysis{}, fmt.Errorf("decode analysis result: %w", err)
		}
		analysis.Result = &decoded
	}
	if errorCode.Valid {
		analysis.ErrorCode = &errorCode.String
	}
	if errorMessage.Valid {
		analysis.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		analysis.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}
	return analysis, nil
}

func encodeResult(result *sim.AnalysisResult) (sql.NullString, error) {
	if result == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(result)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode analysis result: %w", err)
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// ClaimGuest reassigns every analysis owned by guestUserID to userID.
func (r *PGRepo) ClaimGuest(ctx context.Context, guestUserID, userID string) (int, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE sim_analyses SET user_id = $1 WHERE user_id = $2`, userID, guestUserID)
	if err != nil {
		return 0, fmt.Errorf("claim guest analyses: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("claim guest analyses: %w", err)
	}
	return int(n), nil
}

var _ Repo = (*PGRepo)(nil)
