package vehicles

import (
	"context"
	"sort"
	"sync"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// MemoryRepository serializes all writes under one lock, which makes the
// key lookup and the write of Upsert a single step.
type MemoryRepository struct {
	mu    sync.RWMutex
	byID  map[string]*models.Vehicle
	byKey map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:  make(map[string]*models.Vehicle),
		byKey: make(map[string]string),
	}
}

func (r *MemoryRepository) Upsert(ctx context.Context, v *models.Vehicle) (*models.Vehicle, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := naturalKey(v.DealerID, v.ProviderID)
	if id, ok := r.byKey[key]; ok {
		existing := r.byID[id]
		merged := v.Clone()
		merged.ID = existing.ID
		merged.CreatedAt = existing.CreatedAt
		r.byID[id] = merged
		return merged.Clone(), false, nil
	}

	stored := v.Clone()
	r.byID[stored.ID] = stored
	r.byKey[key] = stored.ID
	return stored.Clone(), true, nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return v.Clone(), nil
}

func (r *MemoryRepository) filtered(f models.VehicleFilter) []*models.Vehicle {
	out := make([]*models.Vehicle, 0)
	for _, v := range r.byID {
		if matches(v, f) {
			out = append(out, v)
		}
	}
	return out
}

func (r *MemoryRepository) List(ctx context.Context, f models.VehicleFilter) ([]*models.Vehicle, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := r.filtered(f)
	sort.Slice(all, func(i, j int) bool {
		if all[i].UpdatedAt.Equal(all[j].UpdatedAt) {
			return all[i].ID < all[j].ID
		}
		return all[i].UpdatedAt.After(all[j].UpdatedAt)
	})

	if f.Offset >= len(all) {
		return []*models.Vehicle{}, nil
	}
	end := f.Offset + limitOf(f)
	if end > len(all) {
		end = len(all)
	}

	out := make([]*models.Vehicle, 0, end-f.Offset)
	for _, v := range all[f.Offset:end] {
		out = append(out, v.Clone())
	}
	return out, nil
}

func (r *MemoryRepository) Count(ctx context.Context, f models.VehicleFilter) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.filtered(f)), nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, ok := r.byID[id]
	if !ok {
		return false, nil
	}
	delete(r.byID, id)
	delete(r.byKey, naturalKey(v.DealerID, v.ProviderID))
	return true, nil
}
