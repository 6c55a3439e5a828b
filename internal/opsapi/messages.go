package opsapi

import (
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

// CreateConnectionRequest carries provider credentials in plaintext. They are
// encrypted before anything is stored and never echoed back.
type CreateConnectionRequest struct {
	ProviderType models.ProviderType `json:"providerType"`
	Credentials  map[string]string   `json:"credentials"`
}

type ConnectionResponse struct {
	Connection models.ConnectionInfo `json:"connection"`
}

type ListConnectionsRequest struct{}

type ListConnectionsResponse struct {
	Connections []models.ConnectionInfo `json:"connections"`
}

type RevokeConnectionRequest struct {
	ConnectionID string `json:"connectionId"`
}

type RevokeConnectionResponse struct {
	Revoked bool `json:"revoked"`
}

type SyncConnectionRequest struct {
	ConnectionID string `json:"connectionId"`
}

type SyncConnectionResponse struct {
	Success          bool     `json:"success"`
	VehiclesImported int      `json:"vehiclesImported"`
	VehiclesUpdated  int      `json:"vehiclesUpdated"`
	LogID            string   `json:"logId"`
	CorrelationID    string   `json:"correlationId"`
	Errors           []string `json:"errors,omitempty"`
}

// ListSyncLogsRequest lists one connection's logs, or all of the dealer's
// when ConnectionID is empty. Limit <= 0 uses the server default.
type ListSyncLogsRequest struct {
	ConnectionID string `json:"connectionId,omitempty"`
	Limit        int    `json:"limit,omitempty"`
}

type ListSyncLogsResponse struct {
	Logs []*models.SyncLog `json:"logs"`
}

// SchedulePostRequest schedules one post, or EveryNDays > 0 schedules the
// recurring series instead.
type SchedulePostRequest struct {
	VehicleID       string          `json:"vehicleId"`
	Platform        models.Platform `json:"platform"`
	ListingID       string          `json:"listingId"`
	ConnectionID    string          `json:"connectionId"`
	SpecificTime    *time.Time      `json:"specificTime,omitempty"`
	OptimalTiming   bool            `json:"optimalTiming,omitempty"`
	ImmediatelyPost bool            `json:"immediatelyPost,omitempty"`
	EveryNDays      int             `json:"everyNDays,omitempty"`
}

type ScheduledPost struct {
	JobID        string    `json:"jobId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

type SchedulePostResponse struct {
	Scheduled []ScheduledPost `json:"scheduled"`
}

type ListScheduledPostsRequest struct{}

type ScheduledPostView struct {
	JobID        string          `json:"jobId"`
	VehicleID    string          `json:"vehicleId"`
	Platform     models.Platform `json:"platform"`
	ListingID    string          `json:"listingId"`
	ScheduledFor time.Time       `json:"scheduledFor"`
}

type ListScheduledPostsResponse struct {
	Posts []ScheduledPostView `json:"posts"`
}

type GetJobStatusRequest struct {
	JobID string `json:"jobId"`
}

// JobStatus is the polling view of a job. The payload is not exposed.
type JobStatus struct {
	JobID        string           `json:"jobId"`
	Queue        models.QueueName `json:"queue"`
	State        models.JobState  `json:"state"`
	AttemptsMade int              `json:"attemptsMade"`
	MaxAttempts  int              `json:"maxAttempts"`
	FailedReason string           `json:"failedReason,omitempty"`
	RunAfter     time.Time        `json:"runAfter"`
	FinishedAt   *time.Time       `json:"finishedAt,omitempty"`
}

type CancelJobRequest struct {
	JobID string `json:"jobId"`
}

type CancelJobResponse struct {
	Cancelled bool `json:"cancelled"`
}
