// Package jobs is the durable store behind the job queues. Each queue is a
// partition of one table keyed by (queue, id).
package jobs

import (
	"context"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	// Insert stores j unless the queue already holds a job with that id. The
	// stored job is returned either way; inserted tells which.
	Insert(ctx context.Context, j *models.Job) (stored *models.Job, inserted bool, err error)
	Get(ctx context.Context, queue models.QueueName, id string) (*models.Job, error)
	// ClaimNext moves the oldest due waiting job to active in one step and
	// returns it, or nil when nothing is due. An active job last touched at or
	// before staleBefore was abandoned by its worker and is claimed again; a
	// zero staleBefore disables that.
	ClaimNext(ctx context.Context, queue models.QueueName, now, staleBefore time.Time) (*models.Job, error)
	// Finish records the outcome of an attempt on an active job. state is
	// completed, failed, or waiting (retry at runAfter). AttemptsMade grows by one.
	Finish(ctx context.Context, queue models.QueueName, id string, state models.JobState, reason string, runAfter, now time.Time) error
	// Remove deletes a job only while it is waiting (due or delayed).
	Remove(ctx context.Context, queue models.QueueName, id string) (bool, error)
	CountByState(ctx context.Context, queue models.QueueName, now time.Time) (map[models.JobState]int, error)
	// ListWaiting returns waiting jobs ordered by run time.
	ListWaiting(ctx context.Context, queue models.QueueName) ([]*models.Job, error)
}
