package synclogs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.SyncLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.SyncLog)}
}

func clone(l *models.SyncLog) *models.SyncLog {
	c := *l
	if l.CompletedAt != nil {
		t := *l.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

func (r *MemoryRepository) Create(ctx context.Context, l *models.SyncLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = clone(l)
	return nil
}

func (r *MemoryRepository) Complete(ctx context.Context, id string, out models.SyncOutcome, completedAt time.Time) (*models.SyncLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if l.Status != models.SyncLogRunning {
		return nil, common.ErrInvalidState
	}

	l.Status = out.Status
	l.VehiclesImported = out.VehiclesImported
	l.VehiclesUpdated = out.VehiclesUpdated
	l.TotalVehicles = out.TotalVehicles
	l.Error = out.Error
	l.CompletedAt = &completedAt
	l.DurationMs = completedAt.Sub(l.StartedAt).Milliseconds()

	return clone(l), nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.SyncLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(l), nil
}

func (r *MemoryRepository) list(match func(*models.SyncLog) bool, limit int) []*models.SyncLog {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.SyncLog, 0)
	for _, l := range r.items {
		if match(l) {
			out = append(out, clone(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (r *MemoryRepository) ListByConnection(ctx context.Context, connectionID string, limit int) ([]*models.SyncLog, error) {
	return r.list(func(l *models.SyncLog) bool { return l.ConnectionID == connectionID }, limit), nil
}

func (r *MemoryRepository) ListByDealer(ctx context.Context, dealerID string, limit int) ([]*models.SyncLog, error) {
	return r.list(func(l *models.SyncLog) bool { return l.DealerID == dealerID }, limit), nil
}

func (r *MemoryRepository) SetSnapshotKey(ctx context.Context, id, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.items[id]
	if !ok {
		return common.ErrorNotFound
	}
	l.SnapshotKey = key
	return nil
}
