package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/jobs"
)

// Queues lists every queue the broker owns, in dispatch order.
var Queues = []models.QueueName{
	models.QueuePosting,
	models.QueueRetry,
	models.QueueAnalytics,
	models.QueueRepost,
}

// Broker owns the four job queues over one jobs repository.
type Broker struct {
	queues map[models.QueueName]*Queue
}

type BrokerOption func(*brokerOptions)

type brokerOptions struct {
	now      func() time.Time
	policies map[models.QueueName]Policy
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) BrokerOption {
	return func(o *brokerOptions) { o.now = now }
}

// WithPolicy overrides the policy of one queue.
func WithPolicy(name models.QueueName, p Policy) BrokerOption {
	return func(o *brokerOptions) { o.policies[name] = p }
}

// WithAnalyticsInterval sets how often analytics jobs recur.
func WithAnalyticsInterval(d time.Duration) BrokerOption {
	return func(o *brokerOptions) {
		p := o.policies[models.QueueAnalytics]
		if d > 0 {
			p.RepeatEvery = d
		}
		o.policies[models.QueueAnalytics] = p
	}
}

func NewBroker(repo jobs.Repository, log logging.Logger, opts ...BrokerOption) *Broker {
	o := &brokerOptions{now: time.Now, policies: DefaultPolicies(0)}
	for _, opt := range opts {
		opt(o)
	}

	log = logging.ForModule(log, "queue")
	b := &Broker{queues: make(map[models.QueueName]*Queue, len(Queues))}
	for _, name := range Queues {
		b.queues[name] = newQueue(name, repo, o.policies[name], o.now, log)
	}
	return b
}

// Queue returns the named queue or nil.
func (b *Broker) Queue(name models.QueueName) *Queue {
	return b.queues[name]
}

// Lookup is Queue with an error for unknown names.
func (b *Broker) Lookup(name models.QueueName) (*Queue, error) {
	q, ok := b.queues[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown queue %q", common.ErrInvalidInput, name)
	}
	return q, nil
}

func (b *Broker) Posting() *Queue   { return b.queues[models.QueuePosting] }
func (b *Broker) Retry() *Queue     { return b.queues[models.QueueRetry] }
func (b *Broker) Analytics() *Queue { return b.queues[models.QueueAnalytics] }
func (b *Broker) Repost() *Queue    { return b.queues[models.QueueRepost] }

// FindJob searches every queue for id and returns the first match.
func (b *Broker) FindJob(ctx context.Context, id string) (*models.Job, error) {
	for _, name := range Queues {
		j, err := b.queues[name].GetJob(ctx, id)
		if err == nil {
			return j, nil
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}
	return nil, common.ErrorNotFound
}

// Stats returns per-state counts for every queue.
func (b *Broker) Stats(ctx context.Context) (map[models.QueueName]map[models.JobState]int, error) {
	out := make(map[models.QueueName]map[models.JobState]int, len(Queues))
	for _, name := range Queues {
		c, err := b.queues[name].Counts(ctx)
		if err != nil {
			return nil, err
		}
		out[name] = c
	}
	return out, nil
}
