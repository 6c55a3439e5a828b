package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/posts"
)

// NewPost describes a listing that a platform has just accepted.
type NewPost struct {
	VehicleID      string
	DealerID       string
	Platform       models.Platform
	PlatformPostID string
	IdempotencyKey string
}

// PostLedger records platform posts and their engagement.
type PostLedger struct {
	repo posts.Repository
	now  func() time.Time
	log  logging.Logger
}

func NewPostLedger(repo posts.Repository, log logging.Logger) *PostLedger {
	return &PostLedger{
		repo: repo,
		now:  time.Now,
		log:  logging.ForModule(log, "posts"),
	}
}

// Create stores an active post. A second post with the same idempotency key
// fails with common.ErrAlreadyExists.
func (l *PostLedger) Create(ctx context.Context, in NewPost) (*models.Post, error) {
	if in.VehicleID == "" || in.DealerID == "" || in.Platform == "" {
		return nil, fmt.Errorf("%w: vehicle id, dealer id and platform are required", common.ErrInvalidInput)
	}

	now := l.now().UTC()
	p := &models.Post{
		ID:             uuid.NewString(),
		VehicleID:      in.VehicleID,
		DealerID:       in.DealerID,
		Platform:       in.Platform,
		PlatformPostID: in.PlatformPostID,
		IdempotencyKey: in.IdempotencyKey,
		Status:         models.PostPosted,
		CreatedAt:      now,
		PostedAt:       &now,
	}

	if err := l.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	l.log.Info(ctx, "post recorded", "post_id", p.ID, "vehicle_id", p.VehicleID, "platform", string(p.Platform))
	return p, nil
}

func (l *PostLedger) Get(ctx context.Context, id string) (*models.Post, error) {
	return l.repo.Get(ctx, id)
}

// FindByIdempotencyKey returns common.ErrorNotFound when no post carries key.
func (l *PostLedger) FindByIdempotencyKey(ctx context.Context, key string) (*models.Post, error) {
	if key == "" {
		return nil, common.ErrorNotFound
	}
	return l.repo.FindByIdempotencyKey(ctx, key)
}

// GetByVehicle lists the posts of a vehicle, most recently posted first.
func (l *PostLedger) GetByVehicle(ctx context.Context, vehicleID string) ([]*models.Post, error) {
	return l.repo.ListByVehicle(ctx, vehicleID)
}

// LatestByVehicle returns the most recently posted entry for the vehicle, or
// nil when it was never posted.
func (l *PostLedger) LatestByVehicle(ctx context.Context, vehicleID string) (*models.Post, error) {
	list, err := l.repo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (l *PostLedger) GetByDealer(ctx context.Context, dealerID string) ([]*models.Post, error) {
	return l.repo.ListByDealer(ctx, dealerID, "")
}

func (l *PostLedger) GetByDealerAndPlatform(ctx context.Context, dealerID string, platform models.Platform) ([]*models.Post, error) {
	return l.repo.ListByDealer(ctx, dealerID, platform)
}

// GetActive lists the dealer's posts that are still live.
func (l *PostLedger) GetActive(ctx context.Context, dealerID string) ([]*models.Post, error) {
	return l.repo.ListActive(ctx, dealerID)
}

// UpdateStatus moves a post to status, stamping archivedAt or deletedAt.
// Leaving deleted, or returning to posted, fails with common.ErrInvalidState.
func (l *PostLedger) UpdateStatus(ctx context.Context, id string, status models.PostStatus) (*models.Post, error) {
	p, err := l.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", common.ErrInvalidState, p.Status, status)
	}

	if err := l.repo.UpdateStatus(ctx, id, status, l.now().UTC()); err != nil {
		return nil, err
	}
	l.log.Debug(ctx, "post status updated", "post_id", id, "from", string(p.Status), "to", string(status))
	return l.repo.Get(ctx, id)
}

// UpdateMetrics overwrites the engagement counters.
func (l *PostLedger) UpdateMetrics(ctx context.Context, id string, m models.PostMetrics) (*models.Post, error) {
	if err := l.repo.UpdateMetrics(ctx, id, m, l.now().UTC()); err != nil {
		return nil, err
	}
	return l.repo.Get(ctx, id)
}

// RecordError marks the post failed with msg.
func (l *PostLedger) RecordError(ctx context.Context, id, msg string) (*models.Post, error) {
	if err := l.repo.RecordError(ctx, id, msg); err != nil {
		return nil, err
	}
	l.log.Warn(ctx, "post failed", "post_id", id, "error", msg)
	return l.repo.Get(ctx, id)
}

func (l *PostLedger) Delete(ctx context.Context, id string) (bool, error) {
	return l.repo.Delete(ctx, id)
}

// IsDuplicate reports whether err came from a reused idempotency key.
func IsDuplicate(err error) bool {
	return errors.Is(err, common.ErrAlreadyExists)
}
