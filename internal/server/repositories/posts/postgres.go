package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/dbx"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, vehicle_id, dealer_id, platform, platform_post_id, COALESCE(idempotency_key, ''), status,
	created_at, posted_at, archived_at, deleted_at, impressions, clicks, leads, conversions,
	last_metrics_update_at, error_message`

const uniqueViolation = "23505"

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(s scanner) (*models.Post, error) {
	p := &models.Post{}
	var posted, archived, deleted, metrics sql.NullTime
	err := s.Scan(&p.ID, &p.VehicleID, &p.DealerID, &p.Platform, &p.PlatformPostID, &p.IdempotencyKey, &p.Status,
		&p.CreatedAt, &posted, &archived, &deleted, &p.Impressions, &p.Clicks, &p.Leads, &p.Conversions,
		&metrics, &p.ErrorMessage)
	if err != nil {
		return nil, err
	}
	p.PostedAt = dbx.TimePtr(posted)
	p.ArchivedAt = dbx.TimePtr(archived)
	p.DeletedAt = dbx.TimePtr(deleted)
	p.LastMetricsUpdateAt = dbx.TimePtr(metrics)
	return p, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Post) error {
	query :=
		`INSERT INTO posts (id, vehicle_id, dealer_id, platform, platform_post_id, idempotency_key, status,
			created_at, posted_at, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query, p.ID, p.VehicleID, p.DealerID, p.Platform, p.PlatformPostID,
		nullString(p.IdempotencyKey), p.Status, p.CreatedAt, dbx.NullTime(p.PostedAt), p.ErrorMessage)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return common.ErrAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) getBy(ctx context.Context, where string, arg any) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM posts WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *PostgresRepository) FindByIdempotencyKey(ctx context.Context, key string) (*models.Post, error) {
	return r.getBy(ctx, "idempotency_key = $1", key)
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByVehicle(ctx context.Context, vehicleID string) ([]*models.Post, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM posts WHERE vehicle_id = $1
		ORDER BY posted_at DESC NULLS LAST, created_at DESC`, vehicleID)
}

func (r *PostgresRepository) ListByDealer(ctx context.Context, dealerID string, platform models.Platform) ([]*models.Post, error) {
	if platform == "" {
		return r.query(ctx, `SELECT `+selectColumns+` FROM posts WHERE dealer_id = $1 ORDER BY created_at DESC`, dealerID)
	}
	return r.query(ctx, `SELECT `+selectColumns+` FROM posts WHERE dealer_id = $1 AND platform = $2
		ORDER BY created_at DESC`, dealerID, platform)
}

func (r *PostgresRepository) ListActive(ctx context.Context, dealerID string) ([]*models.Post, error) {
	return r.query(ctx, `SELECT `+selectColumns+` FROM posts WHERE dealer_id = $1 AND status = 'posted'
		ORDER BY created_at DESC`, dealerID)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if !ok {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.PostStatus, at time.Time) error {
	return r.exec(ctx,
		`UPDATE posts
		 SET status = $2::text,
		     archived_at = CASE WHEN $2::text = 'archived' THEN $3::timestamptz ELSE archived_at END,
		     deleted_at = CASE WHEN $2::text = 'deleted' THEN $3::timestamptz ELSE deleted_at END
		 WHERE id = $1`, id, status, at)
}

func (r *PostgresRepository) UpdateMetrics(ctx context.Context, id string, m models.PostMetrics, at time.Time) error {
	return r.exec(ctx,
		`UPDATE posts
		 SET impressions = $2, clicks = $3, leads = $4, conversions = $5, last_metrics_update_at = $6
		 WHERE id = $1`, id, m.Impressions, m.Clicks, m.Leads, m.Conversions, at)
}

func (r *PostgresRepository) RecordError(ctx context.Context, id string, msg string) error {
	return r.exec(ctx, `UPDATE posts SET status = 'failed', error_message = $2 WHERE id = $1`, id, msg)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) (bool, error) {
	err := r.exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if errors.Is(err, common.ErrorNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
