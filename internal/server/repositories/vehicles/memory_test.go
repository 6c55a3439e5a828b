package vehicles

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func vehicle(id, dealer, providerID string, updated time.Time) *models.Vehicle {
	return &models.Vehicle{
		ID:                   id,
		DealerID:             dealer,
		ProviderConnectionID: "conn-1",
		ProviderID:           providerID,
		ProviderType:         models.ProviderMock,
		VIN:                  "1HGBH41JXMN109186",
		Year:                 2020,
		Make:                 "Toyota",
		Model:                "Camry",
		Mileage:              35000,
		Price:                24999,
		Condition:            models.ConditionUsed,
		Status:               models.VehicleAvailable,
		Features:             []string{"Bluetooth"},
		CreatedAt:            updated,
		UpdatedAt:            updated,
		LastSyncedAt:         updated,
	}
}

func TestMemoryRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	first, inserted, err := r.Upsert(ctx, vehicle("v-1", "d1", "mock-1", t0))
	require.NoError(t, err)
	assert.True(t, inserted)

	again := vehicle("v-2", "d1", "mock-1", t0.Add(time.Hour))
	again.Price = 23999
	second, inserted, err := r.Upsert(ctx, again)
	require.NoError(t, err)
	assert.False(t, inserted)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CreatedAt.Equal(t0), "createdAt preserved")
	assert.True(t, second.UpdatedAt.Equal(t0.Add(time.Hour)))
	assert.Equal(t, float64(23999), second.Price)

	n, err := r.Count(ctx, models.VehicleFilter{DealerID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryRepository_UpsertMergeTakesWholeRecord(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	orig := vehicle("v-1", "d1", "mock-1", t0)
	orig.Description = "One owner"
	orig.Trim = "XLE"
	_, _, err := r.Upsert(ctx, orig)
	require.NoError(t, err)

	next := vehicle("v-ignored", "d1", "mock-1", t0.Add(time.Hour))
	next.Status = models.VehicleSold
	next.Features = nil
	merged, inserted, err := r.Upsert(ctx, next)
	require.NoError(t, err)
	assert.False(t, inserted)

	stored, err := r.Get(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, merged, stored)
	assert.Equal(t, "v-1", stored.ID)
	assert.True(t, stored.CreatedAt.Equal(t0))
	assert.Equal(t, models.VehicleSold, stored.Status)
	assert.Empty(t, stored.Description, "dropped fields are cleared")
	assert.Empty(t, stored.Trim)
	assert.Empty(t, stored.Features)
}

func TestMemoryRepository_SameProviderIDDifferentDealers(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, ins1, err := r.Upsert(ctx, vehicle("v-1", "d1", "mock-1", t0))
	require.NoError(t, err)
	_, ins2, err := r.Upsert(ctx, vehicle("v-2", "d2", "mock-1", t0))
	require.NoError(t, err)

	assert.True(t, ins1)
	assert.True(t, ins2)
}

func TestMemoryRepository_ConcurrentUpsertSameKey(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	var wg sync.WaitGroup
	var mu sync.Mutex
	insertedCount := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, inserted, err := r.Upsert(ctx, vehicle(fmt.Sprintf("v-%d", i), "d1", "mock-1", t0))
			assert.NoError(t, err)
			if inserted {
				mu.Lock()
				insertedCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, insertedCount)
	n, err := r.Count(ctx, models.VehicleFilter{DealerID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestMemoryRepository_ListFiltersAndOrder(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	a := vehicle("a", "d1", "p-a", t0)
	b := vehicle("b", "d1", "p-b", t0.Add(2*time.Hour))
	b.Make, b.Model, b.VIN = "Ford", "F-150", "1FTEW1E50KFA12345"
	c := vehicle("c", "d1", "p-c", t0.Add(time.Hour))
	c.Status = models.VehicleSold
	d := vehicle("d", "d2", "p-d", t0)

	for _, v := range []*models.Vehicle{a, b, c, d} {
		_, _, err := r.Upsert(ctx, v)
		require.NoError(t, err)
	}

	tests := []struct {
		name   string
		filter models.VehicleFilter
		want   []string
	}{
		{name: "dealer sorted by updatedAt desc", filter: models.VehicleFilter{DealerID: "d1"}, want: []string{"b", "c", "a"}},
		{name: "status", filter: models.VehicleFilter{DealerID: "d1", Status: models.VehicleSold}, want: []string{"c"}},
		{name: "query make case-insensitive", filter: models.VehicleFilter{DealerID: "d1", Query: "ford"}, want: []string{"b"}},
		{name: "query vin", filter: models.VehicleFilter{Query: "1ftew"}, want: []string{"b"}},
		{name: "limit", filter: models.VehicleFilter{DealerID: "d1", Limit: 2}, want: []string{"b", "c"}},
		{name: "offset", filter: models.VehicleFilter{DealerID: "d1", Offset: 2}, want: []string{"a"}},
		{name: "offset past end", filter: models.VehicleFilter{DealerID: "d1", Offset: 10}, want: []string{}},
		{name: "connection", filter: models.VehicleFilter{ConnectionID: "other"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := r.List(ctx, tt.filter)
			require.NoError(t, err)
			ids := make([]string, 0, len(list))
			for _, v := range list {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestMemoryRepository_GetDelete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, err := r.Upsert(ctx, vehicle("v-1", "d1", "mock-1", t0))
	require.NoError(t, err)

	got, err := r.Get(ctx, "v-1")
	require.NoError(t, err)
	got.Features[0] = "mutated"

	again, err := r.Get(ctx, "v-1")
	require.NoError(t, err)
	assert.Equal(t, "Bluetooth", again.Features[0])

	ok, err := r.Delete(ctx, "v-1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = r.Get(ctx, "v-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, inserted, err := r.Upsert(ctx, vehicle("v-9", "d1", "mock-1", t0))
	require.NoError(t, err)
	assert.True(t, inserted, "natural key is free again after delete")
}
