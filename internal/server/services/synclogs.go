package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/synclogs"
)

// SyncLogStore is the audit trail of sync attempts.
type SyncLogStore struct {
	repo synclogs.Repository
	now  func() time.Time
}

func NewSyncLogStore(repo synclogs.Repository) *SyncLogStore {
	return &SyncLogStore{repo: repo, now: time.Now}
}

// Start records a new attempt in the running state.
func (s *SyncLogStore) Start(ctx context.Context, conn models.ConnectionInfo, correlationID string) (*models.SyncLog, error) {
	l := &models.SyncLog{
		ID:            uuid.NewString(),
		ConnectionID:  conn.ID,
		DealerID:      conn.DealerID,
		ProviderType:  conn.ProviderType,
		Status:        models.SyncLogRunning,
		StartedAt:     s.now().UTC(),
		CorrelationID: correlationID,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// Complete closes a running log; a second call fails with
// common.ErrInvalidState.
func (s *SyncLogStore) Complete(ctx context.Context, id string, out models.SyncOutcome) (*models.SyncLog, error) {
	return s.repo.Complete(ctx, id, out, s.now().UTC())
}

func (s *SyncLogStore) Get(ctx context.Context, id string) (*models.SyncLog, error) {
	return s.repo.Get(ctx, id)
}

func (s *SyncLogStore) ListByConnection(ctx context.Context, connectionID string, limit int) ([]*models.SyncLog, error) {
	if limit <= 0 {
		limit = models.DefaultSyncLogsPerConnection
	}
	return s.repo.ListByConnection(ctx, connectionID, limit)
}

func (s *SyncLogStore) ListByDealer(ctx context.Context, dealerID string, limit int) ([]*models.SyncLog, error) {
	if limit <= 0 {
		limit = models.DefaultSyncLogsPerDealer
	}
	return s.repo.ListByDealer(ctx, dealerID, limit)
}

func (s *SyncLogStore) AttachSnapshot(ctx context.Context, id, key string) error {
	return s.repo.SetSnapshotKey(ctx, id, key)
}
