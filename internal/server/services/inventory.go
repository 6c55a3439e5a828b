package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/vehicles"
)

// InventoryStore holds dealer vehicles keyed by (dealer, provider id).
type InventoryStore struct {
	repo vehicles.Repository
	now  func() time.Time
}

func NewInventoryStore(repo vehicles.Repository) *InventoryStore {
	return &InventoryStore{repo: repo, now: time.Now}
}

// Upsert creates v or updates the vehicle with the same natural key,
// keeping its id and creation time. inserted tells which happened.
func (s *InventoryStore) Upsert(ctx context.Context, v *models.Vehicle) (*models.Vehicle, bool, error) {
	if v == nil || v.DealerID == "" || v.ProviderID == "" {
		return nil, false, common.ErrInvalidVehicle
	}

	now := s.now().UTC()
	in := v.Clone()
	in.ID = uuid.NewString()
	in.CreatedAt = now
	in.UpdatedAt = now
	if in.LastSyncedAt.IsZero() {
		in.LastSyncedAt = now
	}

	return s.repo.Upsert(ctx, in)
}

func (s *InventoryStore) Get(ctx context.Context, id string) (*models.Vehicle, error) {
	return s.repo.Get(ctx, id)
}

// List returns matching vehicles, most recently updated first.
func (s *InventoryStore) List(ctx context.Context, f models.VehicleFilter) ([]*models.Vehicle, error) {
	if f.Limit <= 0 {
		f.Limit = models.DefaultVehicleLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	return s.repo.List(ctx, f)
}

func (s *InventoryStore) Count(ctx context.Context, f models.VehicleFilter) (int, error) {
	return s.repo.Count(ctx, f)
}

func (s *InventoryStore) Delete(ctx context.Context, id string) (bool, error) {
	return s.repo.Delete(ctx, id)
}
