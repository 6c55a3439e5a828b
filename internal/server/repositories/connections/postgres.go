package connections

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

const selectColumns = `id, dealer_id, provider_type, credentials_ciphertext, credentials_iv, credentials_auth_tag,
	created_at, last_synced_at, last_sync_status, last_sync_error, revoked_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanConnection(s scanner) (*models.ProviderConnection, error) {
	c := &models.ProviderConnection{}
	var lastSynced, revoked sql.NullTime
	err := s.Scan(&c.ID, &c.DealerID, &c.ProviderType,
		&c.EncryptedCredentials.Ciphertext, &c.EncryptedCredentials.IV, &c.EncryptedCredentials.AuthTag,
		&c.CreatedAt, &lastSynced, &c.LastSyncStatus, &c.LastSyncError, &revoked)
	if err != nil {
		return nil, err
	}
	c.LastSyncedAt = dbx.TimePtr(lastSynced)
	c.RevokedAt = dbx.TimePtr(revoked)
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, conn *models.ProviderConnection) error {
	query :=
		`INSERT INTO provider_connections (id, dealer_id, provider_type, credentials_ciphertext, credentials_iv,
			credentials_auth_tag, created_at, last_sync_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query, conn.ID, conn.DealerID, conn.ProviderType,
		conn.EncryptedCredentials.Ciphertext, conn.EncryptedCredentials.IV, conn.EncryptedCredentials.AuthTag,
		conn.CreatedAt, conn.LastSyncStatus)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.ProviderConnection, error) {
	query := `SELECT ` + selectColumns + ` FROM provider_connections WHERE id = $1`

	c, err := scanConnection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) ListByDealer(ctx context.Context, dealerID string) ([]*models.ProviderConnection, error) {
	query := `SELECT ` + selectColumns + ` FROM provider_connections
		WHERE dealer_id = $1 AND revoked_at IS NULL
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, dealerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ProviderConnection, 0)
	for rows.Next() {
		c, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string, syncedAt time.Time) error {
	query :=
		`UPDATE provider_connections
		 SET last_sync_status = $2, last_sync_error = $3, last_synced_at = $4
		 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, status, syncErr, syncedAt)
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

func (r *PostgresRepository) Revoke(ctx context.Context, id string, at time.Time) (bool, error) {
	query :=
		`UPDATE provider_connections
		 SET revoked_at = $2, credentials_ciphertext = '', credentials_iv = '', credentials_auth_tag = ''
		 WHERE id = $1 AND revoked_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	ok, err := dbx.Affected(res)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
