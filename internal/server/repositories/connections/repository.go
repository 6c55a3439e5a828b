// Package connections stores provider connection records, including the
// encrypted credential blob. Only the service layer reads the blob.
package connections

import (
	"context"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, conn *models.ProviderConnection) error
	// Get returns the record even when revoked; callers decide.
	Get(ctx context.Context, id string) (*models.ProviderConnection, error)
	// ListByDealer returns non-revoked connections, oldest first.
	ListByDealer(ctx context.Context, dealerID string) ([]*models.ProviderConnection, error)
	UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string, syncedAt time.Time) error
	// Revoke marks the connection revoked and destroys the blob. It reports
	// false when the connection is unknown or already revoked.
	Revoke(ctx context.Context, id string, at time.Time) (bool, error)
}
