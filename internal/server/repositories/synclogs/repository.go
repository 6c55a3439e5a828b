// Package synclogs persists one record per sync attempt.
package synclogs

import (
	"context"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, l *models.SyncLog) error
	// Complete moves a running log to its terminal state. A log that is not
	// running yields common.ErrInvalidState, so completion happens once.
	Complete(ctx context.Context, id string, out models.SyncOutcome, completedAt time.Time) (*models.SyncLog, error)
	Get(ctx context.Context, id string) (*models.SyncLog, error)
	// ListByConnection and ListByDealer return newest first.
	ListByConnection(ctx context.Context, connectionID string, limit int) ([]*models.SyncLog, error)
	ListByDealer(ctx context.Context, dealerID string, limit int) ([]*models.SyncLog, error)
	SetSnapshotKey(ctx context.Context, id, key string) error
}
