package jobs

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type MemoryRepository struct {
	mu     sync.Mutex
	queues map[models.QueueName]map[string]*models.Job
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{queues: make(map[models.QueueName]map[string]*models.Job)}
}

func (r *MemoryRepository) queue(name models.QueueName) map[string]*models.Job {
	q, ok := r.queues[name]
	if !ok {
		q = make(map[string]*models.Job)
		r.queues[name] = q
	}
	return q
}

func (r *MemoryRepository) Insert(ctx context.Context, j *models.Job) (*models.Job, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.queue(j.Queue)
	if existing, ok := q[j.ID]; ok {
		return existing.Clone(), false, nil
	}
	q[j.ID] = j.Clone()
	return j.Clone(), true, nil
}

func (r *MemoryRepository) Get(ctx context.Context, queue models.QueueName, id string) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.queue(queue)[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return j.Clone(), nil
}

func (r *MemoryRepository) sortedWaiting(queue models.QueueName) []*models.Job {
	out := make([]*models.Job, 0)
	for _, j := range r.queue(queue) {
		if j.State == models.JobWaiting {
			out = append(out, j)
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].RunAfter.Equal(out[b].RunAfter) {
			return out[a].CreatedAt.Before(out[b].CreatedAt)
		}
		return out[a].RunAfter.Before(out[b].RunAfter)
	})
	return out
}

func (r *MemoryRepository) ClaimNext(ctx context.Context, queue models.QueueName, now, staleBefore time.Time) (*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var pick *models.Job
	for _, j := range r.sortedWaiting(queue) {
		if !j.RunAfter.After(now) {
			pick = j
		}
		break
	}
	if !staleBefore.IsZero() {
		for _, j := range r.queue(queue) {
			if j.State != models.JobActive || j.UpdatedAt.After(staleBefore) {
				continue
			}
			if pick == nil || j.RunAfter.Before(pick.RunAfter) {
				pick = j
			}
		}
	}
	if pick == nil {
		return nil, nil
	}

	pick.State = models.JobActive
	pick.UpdatedAt = now
	return pick.Clone(), nil
}

func (r *MemoryRepository) Finish(ctx context.Context, queue models.QueueName, id string, state models.JobState, reason string, runAfter, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.queue(queue)[id]
	if !ok {
		return common.ErrorNotFound
	}
	if j.State != models.JobActive {
		return common.ErrInvalidState
	}

	j.AttemptsMade++
	j.State = state
	j.FailedReason = reason
	j.UpdatedAt = now
	if state == models.JobWaiting {
		j.RunAfter = runAfter
	} else {
		j.FinishedAt = &now
	}
	return nil
}

func (r *MemoryRepository) Remove(ctx context.Context, queue models.QueueName, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	q := r.queue(queue)
	j, ok := q[id]
	if !ok || j.State != models.JobWaiting {
		return false, nil
	}
	delete(q, id)
	return true, nil
}

func (r *MemoryRepository) CountByState(ctx context.Context, queue models.QueueName, now time.Time) (map[models.JobState]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[models.JobState]int)
	for _, j := range r.queue(queue) {
		out[j.StateAt(now)]++
	}
	return out, nil
}

func (r *MemoryRepository) ListWaiting(ctx context.Context, queue models.QueueName) ([]*models.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	waiting := r.sortedWaiting(queue)
	out := make([]*models.Job, 0, len(waiting))
	for _, j := range waiting {
		out = append(out, j.Clone())
	}
	return out, nil
}
