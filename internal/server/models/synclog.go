package models

import "time"

type SyncLogStatus string

const (
	SyncLogPending SyncLogStatus = "pending"
	SyncLogRunning SyncLogStatus = "running"
	SyncLogSuccess SyncLogStatus = "success"
	SyncLogError   SyncLogStatus = "error"
)

// SyncLog records exactly one sync attempt.
type SyncLog struct {
	ID               string        `json:"id"`
	ConnectionID     string        `json:"connectionId"`
	DealerID         string        `json:"dealerId"`
	ProviderType     ProviderType  `json:"providerType"`
	Status           SyncLogStatus `json:"status"`
	VehiclesImported int           `json:"vehiclesImported"`
	VehiclesUpdated  int           `json:"vehiclesUpdated"`
	TotalVehicles    int           `json:"totalVehicles"`
	StartedAt        time.Time     `json:"startedAt"`
	CompletedAt      *time.Time    `json:"completedAt,omitempty"`
	Error            string        `json:"error,omitempty"`
	CorrelationID    string        `json:"correlationId"`
	DurationMs       int64         `json:"durationMs,omitempty"`
	SnapshotKey      string        `json:"snapshotKey,omitempty"`
}

// SyncOutcome is the terminal data written when a running log completes.
type SyncOutcome struct {
	Status           SyncLogStatus
	VehiclesImported int
	VehiclesUpdated  int
	TotalVehicles    int
	Error            string
}

const (
	DefaultSyncLogsPerConnection = 50
	DefaultSyncLogsPerDealer     = 100
)
