package connections

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/cryptox"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.ProviderConnection
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.ProviderConnection)}
}

func clone(c *models.ProviderConnection) *models.ProviderConnection {
	out := *c
	if c.LastSyncedAt != nil {
		t := *c.LastSyncedAt
		out.LastSyncedAt = &t
	}
	if c.RevokedAt != nil {
		t := *c.RevokedAt
		out.RevokedAt = &t
	}
	return &out
}

func (r *MemoryRepository) Create(ctx context.Context, conn *models.ProviderConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[conn.ID] = clone(conn)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.ProviderConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(c), nil
}

func (r *MemoryRepository) ListByDealer(ctx context.Context, dealerID string) ([]*models.ProviderConnection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.ProviderConnection, 0)
	for _, c := range r.items {
		if c.DealerID == dealerID && !c.Revoked() {
			out = append(out, clone(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) UpdateSyncStatus(ctx context.Context, id string, status models.SyncStatus, syncErr string, syncedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	c.LastSyncStatus = status
	c.LastSyncError = syncErr
	c.LastSyncedAt = &syncedAt
	return nil
}

func (r *MemoryRepository) Revoke(ctx context.Context, id string, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.items[id]
	if !ok || c.Revoked() {
		return false, nil
	}
	c.RevokedAt = &at
	c.EncryptedCredentials = cryptox.EncryptedBlob{}
	return true, nil
}
