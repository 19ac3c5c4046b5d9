package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type pgStore struct {
	DB    *sql.DB
	limit int
	now   func() time.Time
}

// NewPGStore constructs a Postgres-backed credit store granting limit credits a week.
func NewPGStore(db *sql.DB, limit int) *pgStore {
	return &pgStore{DB: db, limit: limit}
}

func (s *pgStore) EnsurePeriod(ctx context.Context, principal string) (Usage, error) {
	return s.inTx(ctx, principal, func(tx *sql.Tx, u Usage) (Usage, error) {
		return u, nil
	})
}

func (s *pgStore) Consume(ctx context.Context, principal string, n int) (Usage, error) {
	return s.inTx(ctx, principal, func(tx *sql.Tx, u Usage) (Usage, error) {
		if n <= 0 {
			return u, nil
		}
		if u.Used+n > u.Limit {
			return u, ErrLimitReached
		}
		u.Used += n
		return u, s.writeUsed(ctx, tx, principal, u)
	})
}

func (s *pgStore) Refund(ctx context.Context, principal string, n int) (Usage, error) {
	return s.inTx(ctx, principal, func(tx *sql.Tx, u Usage) (Usage, error) {
		u.Used = max(u.Used-max(n, 0), 0)
		return u, s.writeUsed(ctx, tx, principal, u)
	})
}

func (s *pgStore) Reset(ctx context.Context, principal string) (Usage, error) {
	u := newUsage(s.limit, nowUTC(s.now))
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO analysis_credits (principal, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (principal) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
		principal, u.Plan, u.Limit, u.ResetsAt)
	if err != nil {
		return Usage{}, fmt.Errorf("reset credits: %w", err)
	}
	return u, nil
}

// inTx locks the principal's row, rolls the window over if needed and applies fn.
// The transaction commits only when fn succeeds.
func (s *pgStore) inTx(ctx context.Context, principal string, fn func(*sql.Tx, Usage) (Usage, error)) (out Usage, err error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, principal)
	if err != nil {
		return Usage{}, err
	}
	if out, err = fn(tx, u); err != nil {
		return out, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return out, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, principal string) (Usage, error) {
	now := nowUTC(s.now)
	var u Usage
	err := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM analysis_credits WHERE principal = $1 FOR UPDATE`, principal).
		Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if errors.Is(err, sql.ErrNoRows) {
		u = newUsage(s.limit, now)
		if _, err := tx.ExecContext(ctx, `
INSERT INTO analysis_credits (principal, plan, limit_amount, used, resets_at) VALUES ($1, $2, $3, $4, $5)`,
			principal, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
			return Usage{}, err
		}
		return u, nil
	}
	if err != nil {
		return Usage{}, err
	}

	if rolled, changed := rollover(u, now); changed {
		u = rolled
		if _, err := tx.ExecContext(ctx, `UPDATE analysis_credits SET used = $1, resets_at = $2 WHERE principal = $3`,
			u.Used, u.ResetsAt, principal); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}

func (s *pgStore) writeUsed(ctx context.Context, tx *sql.Tx, principal string, u Usage) error {
	_, err := tx.ExecContext(ctx, `UPDATE analysis_credits SET used = $1 WHERE principal = $2`, u.Used, principal)
	return err
}

var _ store = (*pgStore)(nil)
