package models

import (
	"encoding/json"
	"time"
)

type QueueName string

const (
	QueuePosting   QueueName = "posting"
	QueueRetry     QueueName = "retry"
	QueueAnalytics QueueName = "analytics"
	QueueRepost    QueueName = "repost"
)

// JobState is the externally visible job state. Delayed is never stored: it
// is a waiting job whose RunAfter lies in the future.
type JobState string

const (
	JobWaiting   JobState = "waiting"
	JobDelayed   JobState = "delayed"
	JobActive    JobState = "active"
	JobCompleted JobState = "completed"
	JobFailed    JobState = "failed"
)

type Job struct {
	ID           string          `json:"id"`
	Queue        QueueName       `json:"queue"`
	Payload      json.RawMessage `json:"payload"`
	State        JobState        `json:"state"`
	AttemptsMade int             `json:"attemptsMade"`
	MaxAttempts  int             `json:"maxAttempts"`
	RunAfter     time.Time       `json:"runAfter"`
	RepeatEvery  time.Duration   `json:"repeatEvery,omitempty"`
	FailedReason string          `json:"failedReason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	FinishedAt   *time.Time      `json:"finishedAt,omitempty"`
}

// StateAt resolves the visible state at now.
func (j *Job) StateAt(now time.Time) JobState {
	if j.State == JobWaiting && j.RunAfter.After(now) {
		return JobDelayed
	}
	return j.State
}

func (j *Job) Clone() *Job {
	c := *j
	c.Payload = append(json.RawMessage(nil), j.Payload...)
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		c.FinishedAt = &t
	}
	return &c
}

// PostingJob publishes a vehicle listing to a platform.
type PostingJob struct {
	VehicleID    string    `json:"vehicleId"`
	Platform     Platform  `json:"platform"`
	ListingID    string    `json:"listingId"`
	ConnectionID string    `json:"connectionId"`
	DealerID     string    `json:"dealerId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// RetryJob re-attempts a failed posting. AttemptNumber starts at 1.
type RetryJob struct {
	OriginalJobID string   `json:"originalJobId"`
	VehicleID     string   `json:"vehicleId"`
	DealerID      string   `json:"dealerId"`
	Platform      Platform `json:"platform"`
	ConnectionID  string   `json:"connectionId"`
	AttemptNumber int      `json:"attemptNumber"`
	Error         string   `json:"error"`
}

// AnalyticsJob refreshes metrics for one post; it recurs.
type AnalyticsJob struct {
	PostID       string   `json:"postId"`
	Platform     Platform `json:"platform"`
	ConnectionID string   `json:"connectionId"`
}

// RepostJob checks whether a stale listing should be re-posted.
type RepostJob struct {
	VehicleID              string   `json:"vehicleId"`
	Platform               Platform `json:"platform"`
	ConnectionID           string   `json:"connectionId"`
	DealerID               string   `json:"dealerId"`
	DaysWithoutInteraction int      `json:"daysWithoutInteraction"`
}
