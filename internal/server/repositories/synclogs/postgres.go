package synclogs

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
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectColumns = `id, connection_id, dealer_id, provider_type, status, vehicles_imported, vehicles_updated,
	total_vehicles, started_at, completed_at, error, correlation_id, duration_ms, snapshot_key`

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (*models.SyncLog, error) {
	l := &models.SyncLog{}
	var completed sql.NullTime
	err := s.Scan(&l.ID, &l.ConnectionID, &l.DealerID, &l.ProviderType, &l.Status, &l.VehiclesImported,
		&l.VehiclesUpdated, &l.TotalVehicles, &l.StartedAt, &completed, &l.Error, &l.CorrelationID,
		&l.DurationMs, &l.SnapshotKey)
	if err != nil {
		return nil, err
	}
	l.CompletedAt = dbx.TimePtr(completed)
	return l, nil
}

func (r *PostgresRepository) Create(ctx context.Context, l *models.SyncLog) error {
	query :=
		`INSERT INTO sync_logs (id, connection_id, dealer_id, provider_type, status, started_at, correlation_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query, l.ID, l.ConnectionID, l.DealerID, l.ProviderType, l.Status,
		l.StartedAt, l.CorrelationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Complete(ctx context.Context, id string, out models.SyncOutcome, completedAt time.Time) (*models.SyncLog, error) {
	query :=
		`UPDATE sync_logs
		 SET status = $2, vehicles_imported = $3, vehicles_updated = $4, total_vehicles = $5, error = $6,
		     completed_at = $7,
		     duration_ms = FLOOR(EXTRACT(EPOCH FROM ($7::timestamptz - started_at)) * 1000)::bigint
		 WHERE id = $1 AND status = 'running'
		 RETURNING ` + selectColumns

	l, err := scanLog(r.db.QueryRowContext(ctx, query, id, out.Status, out.VehiclesImported, out.VehiclesUpdated,
		out.TotalVehicles, out.Error, completedAt))
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("db error: %w", err)
	}

	// nothing updated: either unknown or already completed
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, common.ErrInvalidState
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.SyncLog, error) {
	l, err := scanLog(r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM sync_logs WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return l, nil
}

func (r *PostgresRepository) list(ctx context.Context, column, value string, limit int) ([]*models.SyncLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM sync_logs WHERE %s = $1 ORDER BY started_at DESC LIMIT $2`, selectColumns, column)

	rows, err := r.db.QueryContext(ctx, query, value, limit)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.SyncLog, 0)
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByConnection(ctx context.Context, connectionID string, limit int) ([]*models.SyncLog, error) {
	return r.list(ctx, "connection_id", connectionID, limit)
}

func (r *PostgresRepository) ListByDealer(ctx context.Context, dealerID string, limit int) ([]*models.SyncLog, error) {
	return r.list(ctx, "dealer_id", dealerID, limit)
}

func (r *PostgresRepository) SetSnapshotKey(ctx context.Context, id, key string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sync_logs SET snapshot_key = $2 WHERE id = $1`, id, key)
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
