package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/adapters"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// SyncResult is returned to callers of a sync. Errors lists per-vehicle
// failures on success, or the single top-level failure otherwise.
type SyncResult struct {
	Success          bool     `json:"success"`
	VehiclesImported int      `json:"vehiclesImported"`
	VehiclesUpdated  int      `json:"vehiclesUpdated"`
	LogID            string   `json:"logId"`
	CorrelationID    string   `json:"correlationId"`
	Errors           []string `json:"errors,omitempty"`
}

// SnapshotArchiver stores the normalized feed of a sync and returns the
// object key.
type SnapshotArchiver interface {
	Archive(ctx context.Context, log *models.SyncLog, items []*adapters.ProviderVehicle) (string, error)
}

// SyncEngine pulls a provider feed into the inventory.
type SyncEngine struct {
	connections *ConnectionRegistry
	inventory   *InventoryStore
	logs        *SyncLogStore
	adapters    *adapters.Registry
	archiver    SnapshotArchiver
	now         func() time.Time
	log         logging.Logger
}

func NewSyncEngine(
	connections *ConnectionRegistry,
	inventory *InventoryStore,
	logs *SyncLogStore,
	registry *adapters.Registry,
	log logging.Logger,
) *SyncEngine {
	return &SyncEngine{
		connections: connections,
		inventory:   inventory,
		logs:        logs,
		adapters:    registry,
		now:         time.Now,
		log:         logging.ForModule(log, "sync"),
	}
}

// SetArchiver enables feed snapshots. Archival is best effort.
func (e *SyncEngine) SetArchiver(a SnapshotArchiver) {
	e.archiver = a
}

// SyncConnection syncs a connection with the adapter registered for its
// provider type.
func (e *SyncEngine) SyncConnection(ctx context.Context, connectionID, correlationID string) (*SyncResult, error) {
	info, err := e.connections.GetSafe(ctx, connectionID)
	if err != nil {
		return nil, err
	}

	adapter, err := e.adapters.Get(info.ProviderType)
	if err != nil {
		return nil, err
	}

	return e.Sync(ctx, connectionID, info.DealerID, adapter, correlationID)
}

// Sync runs one sync attempt and writes exactly one sync log for it. The
// returned error covers only failures that prevent the log from being
// created; an unknown, revoked or foreign connection and everything after it
// is reported through the result and the log.
func (e *SyncEngine) Sync(ctx context.Context, connectionID, dealerID string, adapter adapters.Adapter, correlationID string) (*SyncResult, error) {
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	log := e.log.With(logging.KeyCorrelationID, correlationID, "connection_id", connectionID)

	syncLog, err := e.logs.Start(ctx, models.ConnectionInfo{
		ID:           connectionID,
		DealerID:     dealerID,
		ProviderType: adapter.ProviderType(),
	}, correlationID)
	if err != nil {
		return nil, fmt.Errorf("create sync log: %w", err)
	}
	log = log.With("sync_log_id", syncLog.ID)
	log.Info(ctx, "sync started", "provider", string(adapter.ProviderType()))

	result := &SyncResult{LogID: syncLog.ID, CorrelationID: correlationID}
	info, runErr := e.resolve(ctx, connectionID, dealerID)
	var items []*adapters.ProviderVehicle
	if runErr == nil {
		items, runErr = e.run(ctx, log, info, adapter, result)
	}

	// the terminal writes must land even if the caller went away
	finishCtx := context.WithoutCancel(ctx)

	outcome := models.SyncOutcome{Status: models.SyncLogSuccess}
	status := models.SyncStatusSuccess
	var syncErr string

	if runErr != nil {
		syncErr = runErr.Error()
		result.Success = false
		result.VehiclesImported = 0
		result.VehiclesUpdated = 0
		result.Errors = []string{syncErr}
		outcome = models.SyncOutcome{Status: models.SyncLogError, Error: syncErr}
		status = models.SyncStatusError
		log.Error(ctx, "sync failed", "error", syncErr)
	} else {
		result.Success = true
		outcome.VehiclesImported = result.VehiclesImported
		outcome.VehiclesUpdated = result.VehiclesUpdated
		outcome.TotalVehicles = len(items)
		log.Info(ctx, "sync completed",
			"imported", result.VehiclesImported,
			"updated", result.VehiclesUpdated,
			"failed", len(result.Errors))
	}

	completed, err := e.logs.Complete(finishCtx, syncLog.ID, outcome)
	if err != nil {
		log.Error(ctx, "complete sync log failed", "error", err)
	}
	// an unresolved connection has no status of this dealer's to update
	if info != nil {
		if err := e.connections.UpdateSyncStatus(finishCtx, connectionID, status, syncErr); err != nil {
			log.Error(ctx, "update sync status failed", "error", err)
		}
	}

	if runErr == nil && e.archiver != nil && completed != nil {
		e.archive(finishCtx, log, completed, items)
	}

	return result, nil
}

// resolve loads the connection, which must be active and owned by dealerID.
func (e *SyncEngine) resolve(ctx context.Context, connectionID, dealerID string) (*models.ConnectionInfo, error) {
	info, err := e.connections.GetSafe(ctx, connectionID)
	if err != nil {
		return nil, fmt.Errorf("resolve connection: %w", err)
	}
	if info.DealerID != dealerID {
		return nil, fmt.Errorf("resolve connection: %w", common.ErrorNotFound)
	}
	return info, nil
}

func (e *SyncEngine) run(ctx context.Context, log logging.Logger, info *models.ConnectionInfo, adapter adapters.Adapter, result *SyncResult) ([]*adapters.ProviderVehicle, error) {
	creds, err := e.connections.GetDecryptedCredentials(ctx, info.ID)
	if err != nil {
		return nil, fmt.Errorf("decrypt credentials: %w", err)
	}
	log.Debug(ctx, "credentials decrypted")

	ok, err := adapter.TestConnection(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("test connection: %w", err)
	}
	if !ok {
		return nil, common.ErrAdapterConnection
	}
	log.Debug(ctx, "connection test passed")

	items, err := adapter.FetchVehicles(ctx, creds)
	if err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	log.Info(ctx, "vehicles fetched", "count", len(items))

	syncedAt := e.now().UTC()
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sync interrupted: %w", err)
		}

		_, inserted, err := e.inventory.Upsert(ctx, item.ToVehicle(*info, syncedAt))
		if err != nil {
			msg := fmt.Errorf("%w: %s: %v", common.ErrPartialImport, item.ProviderID, err).Error()
			result.Errors = append(result.Errors, msg)
			log.Warn(ctx, "vehicle import failed", "provider_id", item.ProviderID, "error", err)
			continue
		}

		if inserted {
			result.VehiclesImported++
		} else {
			result.VehiclesUpdated++
		}
		log.Debug(ctx, "vehicle upserted", "provider_id", item.ProviderID, "inserted", inserted)
	}

	return items, nil
}

func (e *SyncEngine) archive(ctx context.Context, log logging.Logger, syncLog *models.SyncLog, items []*adapters.ProviderVehicle) {
	key, err := e.archiver.Archive(ctx, syncLog, items)
	if err != nil {
		log.Warn(ctx, "snapshot archive failed", "error", err)
		return
	}
	if err := e.logs.AttachSnapshot(ctx, syncLog.ID, key); err != nil {
		log.Warn(ctx, "snapshot key not recorded", "error", err)
		return
	}
	log.Debug(ctx, "snapshot archived", "key", key)
}
