package listings

import (
	"context"
	"sync"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	items map[string]*models.Listing
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[string]*models.Listing)}
}

func clone(l *models.Listing) *models.Listing {
	c := *l
	c.Keywords = append([]string(nil), l.Keywords...)
	return &c
}

func (r *MemoryRepository) Save(ctx context.Context, l *models.Listing) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[l.ID] = clone(l)
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(l), nil
}

func (r *MemoryRepository) LatestByVehicle(ctx context.Context, vehicleID string) (*models.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *models.Listing
	for _, l := range r.items {
		if l.VehicleID != vehicleID {
			continue
		}
		if latest == nil || l.GeneratedAt.After(latest.GeneratedAt) {
			latest = l
		}
	}
	if latest == nil {
		return nil, common.ErrorNotFound
	}
	return clone(latest), nil
}
