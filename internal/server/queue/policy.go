package queue

import (
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// Policy is the per-queue retry and recurrence configuration.
type Policy struct {
	// MaxAttempts bounds handler runs per job; at least 1.
	MaxAttempts int
	// Backoff is the base of the exponential delay between attempts:
	// Backoff, 2*Backoff, 4*Backoff...
	Backoff time.Duration
	// RepeatEvery, when positive, enqueues a fresh job with the same payload
	// this long after each run finishes.
	RepeatEvery time.Duration
}

const (
	postingAttempts = 3
	postingBackoff  = 2 * time.Second

	DefaultAnalyticsInterval = 24 * time.Hour
)

// DefaultPolicies returns the policies of the four queues. analyticsEvery
// <= 0 means DefaultAnalyticsInterval.
func DefaultPolicies(analyticsEvery time.Duration) map[models.QueueName]Policy {
	if analyticsEvery <= 0 {
		analyticsEvery = DefaultAnalyticsInterval
	}
	return map[models.QueueName]Policy{
		models.QueuePosting:   {MaxAttempts: postingAttempts, Backoff: postingBackoff},
		models.QueueRetry:     {MaxAttempts: 1},
		models.QueueAnalytics: {MaxAttempts: 1, RepeatEvery: analyticsEvery},
		models.QueueRepost:    {MaxAttempts: postingAttempts, Backoff: postingBackoff},
	}
}

// delayAfter returns the wait before the next attempt, given attempts
// already made (1 after the first failure).
func (p Policy) delayAfter(attemptsMade int) time.Duration {
	if p.Backoff <= 0 || attemptsMade < 1 {
		return 0
	}
	return p.Backoff << (attemptsMade - 1)
}

// MaxRetryAttempt is the last RetryJob attempt number that is ever scheduled.
const MaxRetryAttempt = 3

var retryTiers = map[int]time.Duration{
	1: 5 * time.Minute,
	2: 15 * time.Minute,
	3: 60 * time.Minute,
}

// RetryBackoff returns the delay before RetryJob attempt n. ok is false for
// attempts outside 1..MaxRetryAttempt, which must not be scheduled.
func RetryBackoff(attempt int) (delay time.Duration, ok bool) {
	delay, ok = retryTiers[attempt]
	return delay, ok
}
