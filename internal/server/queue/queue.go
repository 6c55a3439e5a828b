// Package queue implements durable job queues on top of the jobs
// repository: delayed execution, per-queue retry policy, recurrence and
// caller-assigned job ids for deduplication.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
)

// Options tune one Enqueue call.
type Options struct {
	// Delay postpones the first run; negative values are treated as zero.
	Delay time.Duration
	// JobID, when set, makes the enqueue idempotent: an existing job with
	// the same id in this queue is returned instead of a new one.
	JobID string
}

// activeLease is how long a claimed job may stay active without an outcome
// before another worker takes it over.
const activeLease = 15 * time.Minute

// Handler runs one job. Return Permanent(err) to fail without retry.
type Handler func(ctx context.Context, job *models.Job) error

type Queue struct {
	name   models.QueueName
	repo   jobs.Repository
	policy Policy
	now    func() time.Time
	log    logging.Logger
}

func newQueue(name models.QueueName, repo jobs.Repository, policy Policy, now func() time.Time, log logging.Logger) *Queue {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Queue{
		name:   name,
		repo:   repo,
		policy: policy,
		now:    now,
		log:    log.With("queue", string(name)),
	}
}

func (q *Queue) Name() models.QueueName { return q.name }

func (q *Queue) Policy() Policy { return q.policy }

// Enqueue stores payload as a new job and returns its id.
func (q *Queue) Enqueue(ctx context.Context, payload any, opts Options) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode %s payload: %w", q.name, err)
	}

	id := opts.JobID
	if id == "" {
		id = uuid.NewString()
	}

	delay := opts.Delay
	if delay < 0 {
		delay = 0
	}

	now := q.now()
	job := &models.Job{
		ID:          id,
		Queue:       q.name,
		Payload:     data,
		State:       models.JobWaiting,
		MaxAttempts: q.policy.MaxAttempts,
		RunAfter:    now.Add(delay),
		RepeatEvery: q.policy.RepeatEvery,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, inserted, err := q.repo.Insert(ctx, job)
	if err != nil {
		return "", err
	}
	if !inserted {
		q.log.Debug(ctx, "duplicate enqueue ignored", "job_id", stored.ID)
	}
	return stored.ID, nil
}

// GetJob returns the job with its state resolved at the current time, so a
// waiting job due in the future reads as delayed.
func (q *Queue) GetJob(ctx context.Context, id string) (*models.Job, error) {
	j, err := q.repo.Get(ctx, q.name, id)
	if err != nil {
		return nil, err
	}
	j.State = j.StateAt(q.now())
	return j, nil
}

func (q *Queue) GetState(ctx context.Context, id string) (models.JobState, error) {
	j, err := q.GetJob(ctx, id)
	if err != nil {
		return "", err
	}
	return j.State, nil
}

// Remove deletes a waiting or delayed job. It reports false for unknown
// jobs and for jobs that are active or finished.
func (q *Queue) Remove(ctx context.Context, id string) (bool, error) {
	return q.repo.Remove(ctx, q.name, id)
}

// Counts returns the number of jobs per visible state.
func (q *Queue) Counts(ctx context.Context) (map[models.JobState]int, error) {
	return q.repo.CountByState(ctx, q.name, q.now())
}

// Count returns the number of jobs not yet run: waiting plus delayed.
func (q *Queue) Count(ctx context.Context) (int, error) {
	c, err := q.Counts(ctx)
	if err != nil {
		return 0, err
	}
	return c[models.JobWaiting] + c[models.JobDelayed], nil
}

func (q *Queue) FailedCount(ctx context.Context) (int, error) {
	c, err := q.Counts(ctx)
	if err != nil {
		return 0, err
	}
	return c[models.JobFailed], nil
}

// ListByState lists jobs that have not started yet. Only waiting and
// delayed are listable; other states give common.ErrInvalidInput.
func (q *Queue) ListByState(ctx context.Context, state models.JobState) ([]*models.Job, error) {
	if state != models.JobWaiting && state != models.JobDelayed {
		return nil, fmt.Errorf("%w: cannot list %s jobs", common.ErrInvalidInput, state)
	}

	all, err := q.repo.ListWaiting(ctx, q.name)
	if err != nil {
		return nil, err
	}

	now := q.now()
	out := make([]*models.Job, 0, len(all))
	for _, j := range all {
		if s := j.StateAt(now); s == state {
			j.State = s
			out = append(out, j)
		}
	}
	return out, nil
}

// Process claims one due job and runs h on it. It reports whether a job was
// claimed. Handler failures are recorded on the job, not returned; the
// error is only for storage failures. The outcome is written even when ctx
// is cancelled while h runs.
func (q *Queue) Process(ctx context.Context, h Handler) (bool, error) {
	now := q.now()
	job, err := q.repo.ClaimNext(ctx, q.name, now, now.Add(-activeLease))
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}

	runErr := q.run(ctx, h, job)
	return true, q.settle(context.WithoutCancel(ctx), job, runErr)
}

func (q *Queue) run(ctx context.Context, h Handler, job *models.Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = Permanent(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return h(ctx, job)
}

func (q *Queue) settle(ctx context.Context, job *models.Job, runErr error) error {
	now := q.now()
	attempts := job.AttemptsMade + 1
	log := q.log.With("job_id", job.ID, "attempt", attempts)

	switch {
	case runErr == nil || errors.Is(runErr, ErrStopRepeating):
		if err := q.repo.Finish(ctx, q.name, job.ID, models.JobCompleted, "", now, now); err != nil {
			return err
		}
		log.Debug(ctx, "job completed")
		if runErr == nil {
			return q.repeat(ctx, job)
		}
		log.Info(ctx, "job recurrence stopped")
		return nil

	case IsPermanent(runErr) || attempts >= job.MaxAttempts:
		if err := q.repo.Finish(ctx, q.name, job.ID, models.JobFailed, runErr.Error(), now, now); err != nil {
			return err
		}
		log.Warn(ctx, "job failed", "error", runErr.Error(), "permanent", IsPermanent(runErr))
		return q.repeat(ctx, job)

	default:
		next := now.Add(q.policy.delayAfter(attempts))
		if err := q.repo.Finish(ctx, q.name, job.ID, models.JobWaiting, runErr.Error(), next, now); err != nil {
			return err
		}
		log.Info(ctx, "job will be retried", "error", runErr.Error(), "run_after", next)
		return nil
	}
}

// repeat schedules the next cycle of a recurring job as a new job.
func (q *Queue) repeat(ctx context.Context, job *models.Job) error {
	if job.RepeatEvery <= 0 {
		return nil
	}

	now := q.now()
	next := &models.Job{
		ID:          uuid.NewString(),
		Queue:       q.name,
		Payload:     job.Payload,
		State:       models.JobWaiting,
		MaxAttempts: job.MaxAttempts,
		RunAfter:    now.Add(job.RepeatEvery),
		RepeatEvery: job.RepeatEvery,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, _, err := q.repo.Insert(ctx, next); err != nil {
		return err
	}
	q.log.Debug(ctx, "job repeat scheduled", "job_id", next.ID, "previous_job_id", job.ID, "run_after", next.RunAfter)
	return nil
}
