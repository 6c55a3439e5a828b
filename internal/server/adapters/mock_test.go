package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockAdapter_FetchVehicles(t *testing.T) {
	m := NewMockAdapter()
	ctx := context.Background()

	ok, err := m.TestConnection(ctx, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := m.FetchVehicles(ctx, nil)
	require.NoError(t, err)
	require.Len(t, got, 5)

	ids := make([]string, 0, len(got))
	for _, v := range got {
		ids = append(ids, v.ProviderID)
	}
	assert.Equal(t, []string{"mock-1", "mock-2", "mock-3", "mock-4", "mock-5"}, ids)
	assert.Equal(t, models.ConditionCertified, got[4].Condition)
}

func TestMockAdapter_FreshSlicePerCall(t *testing.T) {
	m := NewMockAdapter()
	ctx := context.Background()

	first, err := m.FetchVehicles(ctx, nil)
	require.NoError(t, err)
	first[0].Make = "Changed"

	second, err := m.FetchVehicles(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, "Toyota", second[0].Make)
}

func TestMockAdapter_FetchVehicle(t *testing.T) {
	m := NewMockAdapter()
	ctx := context.Background()

	v, err := m.FetchVehicle(ctx, nil, "mock-3")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "F-150", v.Model)

	v, err = m.FetchVehicle(ctx, nil, "nope")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestMockAdapter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMockAdapter().FetchVehicles(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProviderVehicle_ToVehicle(t *testing.T) {
	conn := models.ConnectionInfo{ID: "c1", DealerID: "d1", ProviderType: models.ProviderMock}
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	pv := mockInventory()[0]
	v := pv.ToVehicle(conn, at)

	assert.Empty(t, v.ID)
	assert.Equal(t, "d1", v.DealerID)
	assert.Equal(t, "c1", v.ProviderConnectionID)
	assert.Equal(t, "mock-1", v.ProviderID)
	assert.Equal(t, models.ProviderMock, v.ProviderType)
	assert.Equal(t, at, v.LastSyncedAt)

	v.Features[0] = "mutated"
	assert.Equal(t, "Backup Camera", pv.Features[0])
}
