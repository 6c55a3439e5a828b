// Package services holds the domain services: the credential-holding
// connection registry, inventory and sync, post ledger, listings, scheduling
// and feed snapshot archival.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/cryptox"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/connections"
)

// ConnectionRegistry keeps provider connections. It is the only component
// that touches the vault: credentials go in encrypted and come out only
// through GetDecryptedCredentials.
type ConnectionRegistry struct {
	repo  connections.Repository
	vault *cryptox.Vault
	now   func() time.Time
	log   logging.Logger
}

func NewConnectionRegistry(repo connections.Repository, vault *cryptox.Vault, log logging.Logger) *ConnectionRegistry {
	return &ConnectionRegistry{
		repo:  repo,
		vault: vault,
		now:   time.Now,
		log:   logging.ForModule(log, "connections"),
	}
}

// Create encrypts creds immediately and stores a new connection in the
// pending sync state.
func (r *ConnectionRegistry) Create(ctx context.Context, dealerID string, providerType models.ProviderType, creds models.Credentials) (*models.ConnectionInfo, error) {
	if dealerID == "" || providerType == "" {
		return nil, fmt.Errorf("%w: dealer id and provider type are required", common.ErrInvalidInput)
	}

	blob, err := r.vault.EncryptEntry(map[string]string(creds))
	if err != nil {
		return nil, fmt.Errorf("encrypt credentials: %w", err)
	}

	conn := &models.ProviderConnection{
		ID:                   uuid.NewString(),
		DealerID:             dealerID,
		ProviderType:         providerType,
		EncryptedCredentials: *blob,
		CreatedAt:            r.now().UTC(),
		LastSyncStatus:       models.SyncStatusPending,
	}

	if err := r.repo.Create(ctx, conn); err != nil {
		return nil, err
	}

	r.log.Info(ctx, "connection created", "connection_id", conn.ID, "dealer_id", dealerID, "provider", string(providerType))

	info := conn.Info()
	return &info, nil
}

func (r *ConnectionRegistry) active(ctx context.Context, id string) (*models.ProviderConnection, error) {
	conn, err := r.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if conn.Revoked() {
		return nil, common.ErrorNotFound
	}
	return conn, nil
}

// GetSafe returns the secret-free view. Revoked connections are not found.
func (r *ConnectionRegistry) GetSafe(ctx context.Context, id string) (*models.ConnectionInfo, error) {
	conn, err := r.active(ctx, id)
	if err != nil {
		return nil, err
	}
	info := conn.Info()
	return &info, nil
}

func (r *ConnectionRegistry) ListSafe(ctx context.Context, dealerID string) ([]models.ConnectionInfo, error) {
	conns, err := r.repo.ListByDealer(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ConnectionInfo, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.Info())
	}
	return out, nil
}

// GetDecryptedCredentials opens the stored blob. Unknown or revoked ids give
// common.ErrorNotFound; a blob that fails authentication gives an error
// matching common.ErrDecryption.
func (r *ConnectionRegistry) GetDecryptedCredentials(ctx context.Context, id string) (models.Credentials, error) {
	conn, err := r.active(ctx, id)
	if err != nil {
		return nil, err
	}

	creds := map[string]string{}
	if err := r.vault.DecryptEntry(&conn.EncryptedCredentials, &creds); err != nil {
		if errors.Is(err, common.ErrDecryption) {
			r.log.Error(ctx, "credential decryption failed", "connection_id", id)
		}
		return nil, err
	}
	return models.Credentials(creds), nil
}

// Revoke soft-deletes the connection and destroys its blob.
func (r *ConnectionRegistry) Revoke(ctx context.Context, id string) (bool, error) {
	ok, err := r.repo.Revoke(ctx, id, r.now().UTC())
	if err != nil {
		return false, err
	}
	if ok {
		r.log.Info(ctx, "connection revoked", "connection_id", id)
	}
	return ok, nil
}

// UpdateSyncStatus records the outcome of the latest sync. Concurrent
// updates are last-writer-wins.
func (r *ConnectionRegistry) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string) error {
	return r.repo.UpdateSyncStatus(ctx, id, status, syncErr, r.now().UTC())
}
