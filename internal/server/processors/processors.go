// Package processors holds the queue handlers: posting, application level
// retry, analytics refresh and the weekly repost check.
package processors

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/platforms"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/services"
)

type Deps struct {
	Inventory   *services.InventoryStore
	Listings    *services.ListingStore
	Connections *services.ConnectionRegistry
	Ledger      *services.PostLedger
	Scheduler   *services.Scheduler
	Posters     *platforms.Registry
	Broker      *queue.Broker
}

type Processors struct {
	Deps
	now func() time.Time
	log logging.Logger
}

func New(deps Deps, log logging.Logger) *Processors {
	return &Processors{
		Deps: deps,
		now:  time.Now,
		log:  logging.ForModule(log, "processors"),
	}
}

// Register installs every handler on d.
func (p *Processors) Register(d *queue.Dispatcher) {
	d.Handle(models.QueuePosting, p.Posting)
	d.Handle(models.QueueRetry, p.Retry)
	d.Handle(models.QueueAnalytics, p.Analytics)
	d.Handle(models.QueueRepost, p.Repost)
}

// IdempotencyKey identifies one logical post: a vehicle on a platform for
// one originating posting job. Broker retries and RetryJobs of the same
// job share it, so at most one of them produces a post.
func IdempotencyKey(vehicleID string, platform models.Platform, originalJobID string) string {
	sum := sha256.Sum256([]byte(vehicleID + "|" + string(platform) + "|" + originalJobID))
	return hex.EncodeToString(sum[:16])
}

func decode[T any](job *models.Job) (T, error) {
	var v T
	if err := json.Unmarshal(job.Payload, &v); err != nil {
		return v, queue.Permanent(fmt.Errorf("decode %s job: %w", job.Queue, err))
	}
	return v, nil
}

// permanent marks failures that no retry can fix.
func permanent(err error) error {
	switch {
	case errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrDecryption),
		errors.Is(err, common.ErrUnsupportedPlatform),
		errors.Is(err, common.ErrInvalidInput):
		return queue.Permanent(err)
	}
	return err
}

type publishRequest struct {
	vehicleID    string
	dealerID     string
	platform     models.Platform
	connectionID string
	key          string
	// listing resolves the copy to publish once the vehicle is known.
	listing func(ctx context.Context) (*models.Listing, error)
}

// publish posts one listing and records it. An existing post with the same
// idempotency key is returned instead of posting again.
func (p *Processors) publish(ctx context.Context, log logging.Logger, req publishRequest) (*models.Post, error) {
	existing, err := p.Ledger.FindByIdempotencyKey(ctx, req.key)
	if err == nil {
		log.Info(ctx, "post already recorded, skipping", "post_id", existing.ID)
		return existing, p.enqueueAnalytics(ctx, existing, req.connectionID)
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	vehicle, err := p.Inventory.Get(ctx, req.vehicleID)
	if err != nil {
		return nil, permanent(fmt.Errorf("vehicle %s: %w", req.vehicleID, err))
	}

	listing, err := req.listing(ctx)
	if err != nil {
		return nil, permanent(fmt.Errorf("listing for vehicle %s: %w", req.vehicleID, err))
	}

	poster, err := p.Posters.Get(req.platform)
	if err != nil {
		return nil, permanent(err)
	}

	dealerID := req.dealerID
	if dealerID == "" {
		dealerID = vehicle.DealerID
	}

	// credentials are only decrypted for the dealer that owns them
	conn, err := p.Connections.GetSafe(ctx, req.connectionID)
	if err != nil {
		return nil, permanent(fmt.Errorf("connection %s: %w", req.connectionID, err))
	}
	if conn.DealerID != dealerID || vehicle.DealerID != dealerID {
		return nil, queue.Permanent(fmt.Errorf("connection %s: %w", req.connectionID, common.ErrorUnauthorized))
	}

	creds, err := p.Connections.GetDecryptedCredentials(ctx, req.connectionID)
	if err != nil {
		return nil, permanent(fmt.Errorf("connection %s: %w", req.connectionID, err))
	}

	content := platforms.BuildContent(vehicle, listing, req.platform, req.key)
	res, err := poster.Post(ctx, creds, content)
	if err != nil {
		return nil, err
	}

	post, err := p.Ledger.Create(ctx, services.NewPost{
		VehicleID:      req.vehicleID,
		DealerID:       dealerID,
		Platform:       req.platform,
		PlatformPostID: res.PlatformPostID,
		IdempotencyKey: req.key,
	})
	if services.IsDuplicate(err) {
		// a concurrent attempt recorded it first
		post, err = p.Ledger.FindByIdempotencyKey(ctx, req.key)
	}
	if err != nil {
		return nil, err
	}

	log.Info(ctx, "vehicle posted", "post_id", post.ID, "platform_post_id", post.PlatformPostID)
	return post, p.enqueueAnalytics(ctx, post, req.connectionID)
}

func (p *Processors) enqueueAnalytics(ctx context.Context, post *models.Post, connectionID string) error {
	_, err := p.Broker.Analytics().Enqueue(ctx, models.AnalyticsJob{
		PostID:       post.ID,
		Platform:     post.Platform,
		ConnectionID: connectionID,
	}, queue.Options{JobID: "analytics-" + post.ID})
	return err
}

// Posting publishes the listing named by the job. A platform failure
// starts the RetryJob chain and is returned so broker retry applies too.
func (p *Processors) Posting(ctx context.Context, job *models.Job) error {
	in, err := decode[models.PostingJob](job)
	if err != nil {
		return err
	}
	log := p.log.With("job_id", job.ID, "vehicle_id", in.VehicleID, "platform", string(in.Platform))
	log.Info(ctx, "posting started", "attempt", job.AttemptsMade+1)

	_, err = p.publish(ctx, log, publishRequest{
		vehicleID:    in.VehicleID,
		dealerID:     in.DealerID,
		platform:     in.Platform,
		connectionID: in.ConnectionID,
		key:          IdempotencyKey(in.VehicleID, in.Platform, job.ID),
		listing: func(ctx context.Context) (*models.Listing, error) {
			return p.Listings.Get(ctx, in.ListingID)
		},
	})
	if err == nil {
		return nil
	}

	log.Error(ctx, "posting failed", "error", err)
	if queue.IsPermanent(err) || job.AttemptsMade >= queue.MaxRetryAttempt {
		return err
	}

	retry := models.RetryJob{
		OriginalJobID: job.ID,
		VehicleID:     in.VehicleID,
		DealerID:      in.DealerID,
		Platform:      in.Platform,
		ConnectionID:  in.ConnectionID,
		AttemptNumber: 1,
		Error:         err.Error(),
	}
	if qerr := p.enqueueRetry(ctx, log, retry); qerr != nil {
		log.Error(ctx, "retry enqueue failed", "error", qerr)
	}
	return err
}

func (p *Processors) enqueueRetry(ctx context.Context, log logging.Logger, retry models.RetryJob) error {
	delay, ok := queue.RetryBackoff(retry.AttemptNumber)
	if !ok {
		return nil
	}
	id, err := p.Broker.Retry().Enqueue(ctx, retry, queue.Options{
		Delay: delay,
		JobID: fmt.Sprintf("%s-retry-%d", retry.OriginalJobID, retry.AttemptNumber),
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "retry scheduled", "retry_job_id", id, "attempt_number", retry.AttemptNumber, "delay", delay.String())
	return nil
}

// Retry re-posts with the latest listing of the vehicle. Each failure
// schedules the next attempt until queue.MaxRetryAttempt.
func (p *Processors) Retry(ctx context.Context, job *models.Job) error {
	in, err := decode[models.RetryJob](job)
	if err != nil {
		return err
	}
	log := p.log.With("job_id", job.ID, "original_job_id", in.OriginalJobID, "attempt_number", in.AttemptNumber)
	log.Info(ctx, "retry started", "vehicle_id", in.VehicleID)

	_, err = p.publish(ctx, log, publishRequest{
		vehicleID:    in.VehicleID,
		dealerID:     in.DealerID,
		platform:     in.Platform,
		connectionID: in.ConnectionID,
		key:          IdempotencyKey(in.VehicleID, in.Platform, in.OriginalJobID),
		listing: func(ctx context.Context) (*models.Listing, error) {
			return p.Listings.LatestByVehicle(ctx, in.VehicleID)
		},
	})
	if err == nil {
		return nil
	}

	log.Error(ctx, "retry failed", "error", err)
	if queue.IsPermanent(err) {
		return err
	}

	if in.AttemptNumber >= queue.MaxRetryAttempt {
		log.Warn(ctx, "retries exhausted")
		return queue.Permanent(err)
	}

	next := in
	next.AttemptNumber++
	next.Error = err.Error()
	if qerr := p.enqueueRetry(ctx, log, next); qerr != nil {
		log.Error(ctx, "retry enqueue failed", "error", qerr)
	}
	return err
}

// Analytics refreshes the counters of one post. It never fails the job;
// a post that is gone or no longer live ends the recurrence.
func (p *Processors) Analytics(ctx context.Context, job *models.Job) error {
	in, err := decode[models.AnalyticsJob](job)
	if err != nil {
		p.log.Error(ctx, "analytics payload unreadable", "job_id", job.ID, "error", err)
		return queue.ErrStopRepeating
	}
	log := p.log.With("job_id", job.ID, "post_id", in.PostID)

	post, err := p.Ledger.Get(ctx, in.PostID)
	if errors.Is(err, common.ErrorNotFound) {
		log.Info(ctx, "post gone, analytics stopped")
		return queue.ErrStopRepeating
	}
	if err != nil {
		log.Error(ctx, "analytics lookup failed", "error", err)
		return nil
	}
	if !post.Active() {
		log.Info(ctx, "post no longer active, analytics stopped", "status", string(post.Status))
		return queue.ErrStopRepeating
	}

	poster, err := p.Posters.Get(in.Platform)
	if err != nil {
		log.Warn(ctx, "analytics unsupported", "error", err)
		return queue.ErrStopRepeating
	}

	creds, err := p.Connections.GetDecryptedCredentials(ctx, in.ConnectionID)
	if err != nil {
		log.Error(ctx, "analytics credentials unavailable", "error", err)
		if errors.Is(err, common.ErrorNotFound) {
			return queue.ErrStopRepeating
		}
		return nil
	}

	m, err := poster.Metrics(ctx, creds, post.PlatformPostID)
	if err != nil {
		log.Warn(ctx, "metrics fetch failed", "error", err)
		return nil
	}

	if _, err := p.Ledger.UpdateMetrics(ctx, post.ID, *m); err != nil {
		log.Error(ctx, "metrics update failed", "error", err)
		return nil
	}

	log.Debug(ctx, "metrics updated", "impressions", m.Impressions, "clicks", m.Clicks)
	return nil
}

// Repost replaces a stale listing with a fresh post and schedules the next
// check. Nothing happens when the vehicle was never posted or its latest
// post still draws clicks.
func (p *Processors) Repost(ctx context.Context, job *models.Job) error {
	in, err := decode[models.RepostJob](job)
	if err != nil {
		return err
	}
	log := p.log.With("job_id", job.ID, "vehicle_id", in.VehicleID, "platform", string(in.Platform))

	if _, err := p.Inventory.Get(ctx, in.VehicleID); err != nil {
		return permanent(fmt.Errorf("vehicle %s: %w", in.VehicleID, err))
	}

	latest, err := p.Ledger.LatestByVehicle(ctx, in.VehicleID)
	if err != nil {
		return err
	}
	if latest == nil {
		log.Info(ctx, "no previous post, repost skipped")
		return nil
	}

	days := daysSince(latest.PostedAt, p.now())
	if !services.ShouldRepostVehicle(latest.Impressions, latest.Clicks, days) {
		log.Info(ctx, "engagement sufficient, repost skipped", "days_listed", days, "clicks", latest.Clicks)
		return nil
	}

	if latest.Status.CanTransitionTo(models.PostArchived) {
		if _, err := p.Ledger.UpdateStatus(ctx, latest.ID, models.PostArchived); err != nil {
			return err
		}
		log.Info(ctx, "previous post archived", "post_id", latest.ID)
	}

	post, err := p.publish(ctx, log, publishRequest{
		vehicleID:    in.VehicleID,
		dealerID:     in.DealerID,
		platform:     in.Platform,
		connectionID: in.ConnectionID,
		key:          IdempotencyKey(in.VehicleID, in.Platform, job.ID),
		listing: func(ctx context.Context) (*models.Listing, error) {
			return p.Listings.LatestByVehicle(ctx, in.VehicleID)
		},
	})
	if err != nil {
		log.Error(ctx, "repost failed", "error", err)
		return err
	}

	next, err := p.Scheduler.ScheduleAutoRepost(ctx, in.VehicleID, in.Platform, in.ConnectionID, in.DealerID)
	if err != nil {
		return err
	}

	log.Info(ctx, "vehicle reposted", "old_post_id", latest.ID, "new_post_id", post.ID, "next_check_job_id", next.JobID)
	return nil
}

func daysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return 0
	}
	return int(now.Sub(*t) / (24 * time.Hour))
}
