package grpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/opsapi"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/services"
)

func (s *GRPCServer) Ping(ctx context.Context, req *opsapi.PingRequest) (*opsapi.PingResponse, error) {

	return &opsapi.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) CreateConnection(ctx context.Context, req *opsapi.CreateConnectionRequest) (*opsapi.ConnectionResponse, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	info, err := s.Connections.Create(ctx, dealerID, req.ProviderType, models.Credentials(req.Credentials))
	if err != nil {
		s.logger.Error(ctx, "create connection failed", "dealer_id", dealerID, "error", err)
		return nil, toStatus(err)
	}

	return &opsapi.ConnectionResponse{Connection: *info}, nil
}

func (s *GRPCServer) ListConnections(ctx context.Context, req *opsapi.ListConnectionsRequest) (*opsapi.ListConnectionsResponse, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	conns, err := s.Connections.ListSafe(ctx, dealerID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &opsapi.ListConnectionsResponse{Connections: conns}, nil
}

// ownConnection returns the connection if it is active and belongs to the
// caller; anything else is not found.
func (s *GRPCServer) ownConnection(ctx context.Context, id string) (*models.ConnectionInfo, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}
	info, err := s.Connections.GetSafe(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}
	if info.DealerID != dealerID {
		return nil, toStatus(common.ErrorNotFound)
	}
	return info, nil
}

func (s *GRPCServer) RevokeConnection(ctx context.Context, req *opsapi.RevokeConnectionRequest) (*opsapi.RevokeConnectionResponse, error) {
	if _, err := s.ownConnection(ctx, req.ConnectionID); err != nil {
		return nil, err
	}

	ok, err := s.Connections.Revoke(ctx, req.ConnectionID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &opsapi.RevokeConnectionResponse{Revoked: ok}, nil
}

func (s *GRPCServer) SyncConnection(ctx context.Context, req *opsapi.SyncConnectionRequest) (*opsapi.SyncConnectionResponse, error) {
	if _, err := s.ownConnection(ctx, req.ConnectionID); err != nil {
		return nil, err
	}

	res, err := s.Sync.SyncConnection(ctx, req.ConnectionID, correlationIDFrom(ctx))
	if err != nil {
		s.logger.Error(ctx, "sync failed to start", "connection_id", req.ConnectionID, "error", err)
		return nil, toStatus(err)
	}

	return &opsapi.SyncConnectionResponse{
		Success:          res.Success,
		VehiclesImported: res.VehiclesImported,
		VehiclesUpdated:  res.VehiclesUpdated,
		LogID:            res.LogID,
		CorrelationID:    res.CorrelationID,
		Errors:           res.Errors,
	}, nil
}

func (s *GRPCServer) ListSyncLogs(ctx context.Context, req *opsapi.ListSyncLogsRequest) (*opsapi.ListSyncLogsResponse, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	var logs []*models.SyncLog
	if req.ConnectionID != "" {
		if _, err := s.ownConnection(ctx, req.ConnectionID); err != nil {
			return nil, err
		}
		logs, err = s.SyncLogs.ListByConnection(ctx, req.ConnectionID, req.Limit)
	} else {
		logs, err = s.SyncLogs.ListByDealer(ctx, dealerID, req.Limit)
	}
	if err != nil {
		return nil, toStatus(err)
	}

	return &opsapi.ListSyncLogsResponse{Logs: logs}, nil
}

func (s *GRPCServer) SchedulePost(ctx context.Context, req *opsapi.SchedulePostRequest) (*opsapi.SchedulePostResponse, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	v, err := s.Inventory.Get(ctx, req.VehicleID)
	if err != nil {
		return nil, toStatus(err)
	}
	if v.DealerID != dealerID {
		return nil, toStatus(common.ErrorNotFound)
	}
	if req.ConnectionID == "" {
		return nil, toStatus(fmt.Errorf("%w: connection id is required", common.ErrInvalidInput))
	}
	if _, err := s.ownConnection(ctx, req.ConnectionID); err != nil {
		return nil, err
	}

	target := services.PostTarget{
		VehicleID:    req.VehicleID,
		Platform:     req.Platform,
		ListingID:    req.ListingID,
		ConnectionID: req.ConnectionID,
		DealerID:     dealerID,
	}

	var scheduled []services.ScheduledPost
	if req.EveryNDays > 0 {
		scheduled, err = s.Scheduler.ScheduleRecurringPosts(ctx, target, req.EveryNDays)
	} else {
		var sp *services.ScheduledPost
		sp, err = s.Scheduler.SchedulePost(ctx, target, services.ScheduleOptions{
			SpecificTime:    req.SpecificTime,
			OptimalTiming:   req.OptimalTiming,
			ImmediatelyPost: req.ImmediatelyPost,
		})
		if sp != nil {
			scheduled = append(scheduled, *sp)
		}
	}
	if err != nil {
		s.logger.Error(ctx, "schedule post failed", "vehicle_id", req.VehicleID, "error", err)
		return nil, toStatus(err)
	}

	out := &opsapi.SchedulePostResponse{Scheduled: make([]opsapi.ScheduledPost, 0, len(scheduled))}
	for _, sp := range scheduled {
		out.Scheduled = append(out.Scheduled, opsapi.ScheduledPost{JobID: sp.JobID, ScheduledFor: sp.ScheduledFor})
	}
	return out, nil
}

func (s *GRPCServer) ListScheduledPosts(ctx context.Context, req *opsapi.ListScheduledPostsRequest) (*opsapi.ListScheduledPostsResponse, error) {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return nil, err
	}

	views, err := s.Scheduler.ScheduledPosts(ctx, dealerID)
	if err != nil {
		return nil, toStatus(err)
	}

	out := &opsapi.ListScheduledPostsResponse{Posts: make([]opsapi.ScheduledPostView, 0, len(views))}
	for _, v := range views {
		out.Posts = append(out.Posts, opsapi.ScheduledPostView(v))
	}
	return out, nil
}

// jobOwner reads the dealer id from payloads that carry one.
func jobOwner(job *models.Job) string {
	var p struct {
		DealerID string `json:"dealerId"`
	}
	if err := json.Unmarshal(job.Payload, &p); err != nil {
		return ""
	}
	return p.DealerID
}

func (s *GRPCServer) ownJob(ctx context.Context, job *models.Job) error {
	dealerID, err := dealerIDFrom(ctx)
	if err != nil {
		return err
	}
	if owner := jobOwner(job); owner != "" && owner != dealerID {
		return toStatus(common.ErrorNotFound)
	}
	return nil
}

func (s *GRPCServer) GetJobStatus(ctx context.Context, req *opsapi.GetJobStatusRequest) (*opsapi.JobStatus, error) {
	if req.JobID == "" {
		return nil, toStatus(fmt.Errorf("%w: job id is required", common.ErrInvalidInput))
	}

	job, err := s.Broker.FindJob(ctx, req.JobID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.ownJob(ctx, job); err != nil {
		return nil, err
	}

	return &opsapi.JobStatus{
		JobID:        job.ID,
		Queue:        job.Queue,
		State:        job.State,
		AttemptsMade: job.AttemptsMade,
		MaxAttempts:  job.MaxAttempts,
		FailedReason: job.FailedReason,
		RunAfter:     job.RunAfter,
		FinishedAt:   job.FinishedAt,
	}, nil
}

// CancelJob removes a scheduled posting job that has not started.
func (s *GRPCServer) CancelJob(ctx context.Context, req *opsapi.CancelJobRequest) (*opsapi.CancelJobResponse, error) {
	job, err := s.Broker.Posting().GetJob(ctx, req.JobID)
	if err != nil {
		return nil, toStatus(err)
	}
	if err := s.ownJob(ctx, job); err != nil {
		return nil, err
	}

	ok, err := s.Scheduler.CancelScheduledPost(ctx, req.JobID)
	if err != nil {
		return nil, toStatus(err)
	}

	return &opsapi.CancelJobResponse{Cancelled: ok}, nil
}
