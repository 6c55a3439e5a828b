package jobs

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 8, 3, 9, 0, 0, 0, time.UTC)

func job(id string, runAfter time.Time) *models.Job {
	return &models.Job{
		ID:          id,
		Queue:       models.QueuePosting,
		Payload:     json.RawMessage(`{"vehicleId":"v1"}`),
		State:       models.JobWaiting,
		MaxAttempts: 3,
		RunAfter:    runAfter,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestMemoryRepository_InsertDedupesByID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, inserted, err := r.Insert(ctx, job("j1", now))
	require.NoError(t, err)
	assert.True(t, inserted)

	dup := job("j1", now.Add(time.Hour))
	stored, inserted, err := r.Insert(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.True(t, stored.RunAfter.Equal(now), "original job is kept")

	other := job("j1", now)
	other.Queue = models.QueueRetry
	_, inserted, err = r.Insert(ctx, other)
	require.NoError(t, err)
	assert.True(t, inserted, "ids are scoped per queue")
}

func TestMemoryRepository_ClaimNextOrderAndDelay(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()

	_, _, _ = r.Insert(ctx, job("later", now.Add(time.Hour)))
	_, _, _ = r.Insert(ctx, job("second", now.Add(-time.Minute)))
	_, _, _ = r.Insert(ctx, job("first", now.Add(-time.Hour)))

	j, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, "first", j.ID)
	assert.Equal(t, models.JobActive, j.State)

	j, err = r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "second", j.ID)

	j, err = r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)
	assert.Nil(t, j, "delayed job is not due")

	j, err = r.ClaimNext(ctx, models.QueuePosting, now.Add(2*time.Hour), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "later", j.ID)
}

func TestMemoryRepository_ConcurrentClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, _ = r.Insert(ctx, job("only", now))

	var wg sync.WaitGroup
	var mu sync.Mutex
	claimed := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
			assert.NoError(t, err)
			if j != nil {
				mu.Lock()
				claimed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, claimed)
}

func TestMemoryRepository_FinishTransitions(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, _ = r.Insert(ctx, job("j1", now))

	assert.ErrorIs(t, r.Finish(ctx, models.QueuePosting, "j1", models.JobCompleted, "", now, now), common.ErrInvalidState,
		"waiting job cannot be finished")

	_, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)
	require.NoError(t, r.Finish(ctx, models.QueuePosting, "j1", models.JobWaiting, "boom", now.Add(2*time.Second), now))

	j, err := r.Get(ctx, models.QueuePosting, "j1")
	require.NoError(t, err)
	assert.Equal(t, 1, j.AttemptsMade)
	assert.Equal(t, models.JobDelayed, j.StateAt(now))
	assert.Equal(t, "boom", j.FailedReason)
	assert.Nil(t, j.FinishedAt)

	_, err = r.ClaimNext(ctx, models.QueuePosting, now.Add(3*time.Second), time.Time{})
	require.NoError(t, err)
	require.NoError(t, r.Finish(ctx, models.QueuePosting, "j1", models.JobFailed, "boom again", time.Time{}, now))

	j, err = r.Get(ctx, models.QueuePosting, "j1")
	require.NoError(t, err)
	assert.Equal(t, 2, j.AttemptsMade)
	assert.Equal(t, models.JobFailed, j.State)
	assert.NotNil(t, j.FinishedAt)

	assert.ErrorIs(t, r.Finish(ctx, models.QueuePosting, "nope", models.JobFailed, "", now, now), common.ErrorNotFound)
}

func TestMemoryRepository_RemoveOnlyWaiting(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, _ = r.Insert(ctx, job("delayed", now.Add(time.Hour)))
	_, _, _ = r.Insert(ctx, job("active", now.Add(-time.Hour)))
	_, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)

	ok, err := r.Remove(ctx, models.QueuePosting, "active")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = r.Remove(ctx, models.QueuePosting, "delayed")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Remove(ctx, models.QueuePosting, "delayed")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRepository_CountAndListWaiting(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, _ = r.Insert(ctx, job("due", now))
	_, _, _ = r.Insert(ctx, job("delayed", now.Add(time.Hour)))
	_, _, _ = r.Insert(ctx, job("claimed", now.Add(-time.Hour)))
	_, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)

	counts, err := r.CountByState(ctx, models.QueuePosting, now)
	require.NoError(t, err)
	assert.Equal(t, map[models.JobState]int{models.JobWaiting: 1, models.JobDelayed: 1, models.JobActive: 1}, counts)

	waiting, err := r.ListWaiting(ctx, models.QueuePosting)
	require.NoError(t, err)
	require.Len(t, waiting, 2)
	assert.Equal(t, "due", waiting[0].ID)
	assert.Equal(t, "delayed", waiting[1].ID)
}

func TestMemoryRepository_ClaimNextReclaimsStaleActive(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryRepository()
	_, _, _ = r.Insert(ctx, job("abandoned", now.Add(-time.Hour)))

	j, err := r.ClaimNext(ctx, models.QueuePosting, now, time.Time{})
	require.NoError(t, err)
	require.NotNil(t, j)

	j, err = r.ClaimNext(ctx, models.QueuePosting, now.Add(time.Minute), now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Nil(t, j, "active job inside its lease stays with its worker")

	later := now.Add(20 * time.Minute)
	j, err = r.ClaimNext(ctx, models.QueuePosting, later, later.Add(-15*time.Minute))
	require.NoError(t, err)
	require.NotNil(t, j)
	assert.Equal(t, "abandoned", j.ID)
	assert.Equal(t, later, j.UpdatedAt)

	require.NoError(t, r.Finish(ctx, models.QueuePosting, "abandoned", models.JobCompleted, "", later, later))
}
