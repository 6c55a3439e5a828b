package services

import (
	"context"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/vehicles"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryStore_UpsertIsIdempotent(t *testing.T) {
	s := NewInventoryStore(vehicles.NewMemoryRepository())
	now := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	in := &models.Vehicle{DealerID: "dealer-1", ProviderID: "p-1", Make: "Ford", Model: "F-150", Price: 30000}

	first, inserted, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.Equal(t, now, first.LastSyncedAt)

	now = now.Add(time.Hour)
	in.Price = 28000
	second, inserted, err := s.Upsert(ctx, in)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, 28000.0, second.Price)

	n, err := s.Count(ctx, models.VehicleFilter{DealerID: "dealer-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, _, err = s.Upsert(ctx, &models.Vehicle{DealerID: "dealer-1"})
	assert.ErrorIs(t, err, common.ErrInvalidVehicle)
	_, _, err = s.Upsert(ctx, nil)
	assert.ErrorIs(t, err, common.ErrInvalidVehicle)
}

func TestInventoryStore_ListAndDelete(t *testing.T) {
	s := NewInventoryStore(vehicles.NewMemoryRepository())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, _, err := s.Upsert(ctx, &models.Vehicle{DealerID: "dealer-1", ProviderID: id, Make: "Honda"})
		require.NoError(t, err)
	}

	list, err := s.List(ctx, models.VehicleFilter{DealerID: "dealer-1", Limit: -1, Offset: -5})
	require.NoError(t, err)
	require.Len(t, list, 3)

	ok, err := s.Delete(ctx, list[0].ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.Get(ctx, list[0].ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
