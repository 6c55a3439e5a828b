package queue

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_Drain(t *testing.T) {
	b, _, _ := newTestBroker(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.Retry().Enqueue(ctx, models.RetryJob{AttemptNumber: 1}, Options{})
		require.NoError(t, err)
	}
	_, err := b.Retry().Enqueue(ctx, models.RetryJob{AttemptNumber: 2}, Options{Delay: time.Hour})
	require.NoError(t, err)

	d := NewDispatcher(b, time.Second, logging.Nop())

	_, err = d.Drain(ctx, models.QueueRetry)
	assert.Error(t, err, "no handler registered")

	var calls int
	d.Handle(models.QueueRetry, func(ctx context.Context, job *models.Job) error {
		calls++
		return nil
	})

	n, err := d.Drain(ctx, models.QueueRetry)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 3, calls)

	n, err = d.Drain(ctx, models.QueueRetry)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDispatcher_StartStop(t *testing.T) {
	b := NewBroker(jobs.NewMemoryRepository(), logging.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	_, err := b.Posting().Enqueue(ctx, models.PostingJob{VehicleID: "v1"}, Options{})
	require.NoError(t, err)

	var done atomic.Int32
	d := NewDispatcher(b, 20*time.Millisecond, logging.Nop())
	d.Handle(models.QueuePosting, func(ctx context.Context, job *models.Job) error {
		done.Add(1)
		return nil
	})

	require.NoError(t, d.Start(ctx))
	defer d.Stop()

	assert.Eventually(t, func() bool { return done.Load() == 1 }, 2*time.Second, 10*time.Millisecond)
}
