package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/dbx"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, queue, payload, state, attempts_made, max_attempts, run_after, repeat_every,
	failed_reason, created_at, updated_at, finished_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanJob(s scanner) (*models.Job, error) {
	j := &models.Job{}
	var payload []byte
	var repeat int64
	var finished sql.NullTime
	err := s.Scan(&j.ID, &j.Queue, &payload, &j.State, &j.AttemptsMade, &j.MaxAttempts, &j.RunAfter, &repeat,
		&j.FailedReason, &j.CreatedAt, &j.UpdatedAt, &finished)
	if err != nil {
		return nil, err
	}
	j.Payload = payload
	j.RepeatEvery = time.Duration(repeat)
	j.FinishedAt = dbx.TimePtr(finished)
	return j, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, j *models.Job) (*models.Job, bool, error) {
	query :=
		`INSERT INTO jobs (id, queue, payload, state, attempts_made, max_attempts, run_after, repeat_every,
			failed_reason, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (queue, id) DO NOTHING`

	res, err := r.db.ExecContext(ctx, query, j.ID, j.Queue, string(j.Payload), j.State, j.AttemptsMade,
		j.MaxAttempts, j.RunAfter, int64(j.RepeatEvery), j.FailedReason, j.CreatedAt, j.UpdatedAt)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	inserted, err := dbx.Affected(res)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}
	if inserted {
		return j.Clone(), true, nil
	}

	existing, err := r.Get(ctx, j.Queue, j.ID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (r *PostgresRepository) Get(ctx context.Context, queue models.QueueName, id string) (*models.Job, error) {
	return get(ctx, r.db, queue, id)
}

func get(ctx context.Context, db dbx.DBTX, queue models.QueueName, id string) (*models.Job, error) {
	query := `SELECT ` + selectColumns + ` FROM jobs WHERE queue = $1 AND id = $2`

	j, err := scanJob(db.QueryRowContext(ctx, query, queue, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return j, nil
}

// ClaimNext uses SKIP LOCKED so concurrent workers never claim the same row.
func (r *PostgresRepository) ClaimNext(ctx context.Context, queue models.QueueName, now, staleBefore time.Time) (*models.Job, error) {
	query :=
		`UPDATE jobs SET state = 'active', updated_at = $2
		 WHERE queue = $1 AND id = (
		     SELECT id FROM jobs
		     WHERE queue = $1 AND (
		         (state = 'waiting' AND run_after <= $2)
		         OR (state = 'active' AND $3::timestamptz IS NOT NULL AND updated_at <= $3::timestamptz)
		     )
		     ORDER BY run_after, created_at
		     LIMIT 1
		     FOR UPDATE SKIP LOCKED
		 )
		 RETURNING ` + selectColumns

	var stale sql.NullTime
	if !staleBefore.IsZero() {
		stale = sql.NullTime{Time: staleBefore, Valid: true}
	}

	j, err := scanJob(r.db.QueryRowContext(ctx, query, queue, now, stale))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return j, nil
}

// Finish settles an active job. The update and the state check behind a
// miss share one transaction.
func (r *PostgresRepository) Finish(ctx context.Context, queue models.QueueName, id string, state models.JobState, reason string, runAfter, now time.Time) error {
	query :=
		`UPDATE jobs
		 SET state = $3::text, failed_reason = $4, attempts_made = attempts_made + 1, updated_at = $6,
		     run_after = CASE WHEN $3::text = 'waiting' THEN $5::timestamptz ELSE run_after END,
		     finished_at = CASE WHEN $3::text = 'waiting' THEN NULL ELSE $6::timestamptz END
		 WHERE queue = $1 AND id = $2 AND state = 'active'`

	return dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		res, err := tx.ExecContext(ctx, query, queue, id, state, reason, runAfter, now)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		ok, err := dbx.Affected(res)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if ok {
			return nil
		}
		if _, err := get(ctx, tx, queue, id); err != nil {
			return err
		}
		return common.ErrInvalidState
	})
}

func (r *PostgresRepository) Remove(ctx context.Context, queue models.QueueName, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM jobs WHERE queue = $1 AND id = $2 AND state = 'waiting'`, queue, id)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) CountByState(ctx context.Context, queue models.QueueName, now time.Time) (map[models.JobState]int, error) {
	query :=
		`SELECT CASE WHEN state = 'waiting' AND run_after > $2 THEN 'delayed' ELSE state END AS visible, COUNT(*)
		 FROM jobs WHERE queue = $1
		 GROUP BY visible`

	rows, err := r.db.QueryContext(ctx, query, queue, now)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make(map[models.JobState]int)
	for rows.Next() {
		var state models.JobState
		var n int
		if err := rows.Scan(&state, &n); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out[state] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListWaiting(ctx context.Context, queue models.QueueName) ([]*models.Job, error) {
	query := `SELECT ` + selectColumns + ` FROM jobs WHERE queue = $1 AND state = 'waiting' ORDER BY run_after, created_at`

	rows, err := r.db.QueryContext(ctx, query, queue)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}
