package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/logging"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/queue"
)

const (
	postingHour      = 9
	optimalWeekday   = time.Thursday
	optimalMinLead   = time.Hour
	recurringCount   = 4
	autoRepostDays   = 7
	repostMinDays    = 7
	repostDailyClick = 1.0
)

// PostTarget names what to post where.
type PostTarget struct {
	VehicleID    string          `json:"vehicleId"`
	Platform     models.Platform `json:"platform"`
	ListingID    string          `json:"listingId"`
	ConnectionID string          `json:"connectionId"`
	DealerID     string          `json:"dealerId"`
}

// ScheduleOptions picks the posting time. The first set field wins, in
// field order; with none set the post goes out tomorrow morning.
type ScheduleOptions struct {
	SpecificTime    *time.Time `json:"specificTime,omitempty"`
	OptimalTiming   bool       `json:"optimalTiming,omitempty"`
	ImmediatelyPost bool       `json:"immediatelyPost,omitempty"`
}

type ScheduledPost struct {
	JobID        string    `json:"jobId"`
	ScheduledFor time.Time `json:"scheduledFor"`
}

// ScheduledPostView is a delayed posting job as shown to its dealer.
type ScheduledPostView struct {
	JobID        string          `json:"jobId"`
	VehicleID    string          `json:"vehicleId"`
	Platform     models.Platform `json:"platform"`
	ListingID    string          `json:"listingId"`
	ScheduledFor time.Time       `json:"scheduledFor"`
}

// Scheduler turns posting requests into delayed jobs.
type Scheduler struct {
	inventory *InventoryStore
	broker    *queue.Broker
	loc       *time.Location
	now       func() time.Time
	log       logging.Logger
}

// NewScheduler builds a scheduler computing wall-clock hours in loc (UTC when
// nil).
func NewScheduler(inventory *InventoryStore, broker *queue.Broker, loc *time.Location, log logging.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		inventory: inventory,
		broker:    broker,
		loc:       loc,
		now:       time.Now,
		log:       logging.ForModule(log, "scheduler"),
	}
}

// SetClock replaces time.Now.
func (s *Scheduler) SetClock(now func() time.Time) {
	s.now = now
}

func validateTarget(t PostTarget) error {
	if t.VehicleID == "" || t.Platform == "" || t.DealerID == "" {
		return fmt.Errorf("%w: vehicle id, platform and dealer id are required", common.ErrInvalidInput)
	}
	return nil
}

// SchedulePost enqueues one posting job. The vehicle must exist.
func (s *Scheduler) SchedulePost(ctx context.Context, target PostTarget, opts ScheduleOptions) (*ScheduledPost, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if _, err := s.inventory.Get(ctx, target.VehicleID); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	var at time.Time
	switch {
	case opts.SpecificTime != nil:
		at = opts.SpecificTime.In(s.loc)
	case opts.OptimalTiming:
		at = OptimalPostingTime(now)
	case opts.ImmediatelyPost:
		at = now
	default:
		at = atHour(now.AddDate(0, 0, 1), postingHour)
	}

	return s.enqueuePosting(ctx, target, now, at)
}

func (s *Scheduler) enqueuePosting(ctx context.Context, target PostTarget, now, at time.Time) (*ScheduledPost, error) {
	job := models.PostingJob{
		VehicleID:    target.VehicleID,
		Platform:     target.Platform,
		ListingID:    target.ListingID,
		ConnectionID: target.ConnectionID,
		DealerID:     target.DealerID,
		ScheduledFor: at.UTC(),
	}

	id, err := s.broker.Posting().Enqueue(ctx, job, queue.Options{Delay: delayUntil(now, at)})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "post scheduled", "job_id", id, "vehicle_id", target.VehicleID, "platform", string(target.Platform), "scheduled_for", at)
	return &ScheduledPost{JobID: id, ScheduledFor: at}, nil
}

// ScheduleRecurringPosts enqueues the next four posts, everyNDays apart, each
// at the posting hour. Nothing recurs beyond them.
func (s *Scheduler) ScheduleRecurringPosts(ctx context.Context, target PostTarget, everyNDays int) ([]ScheduledPost, error) {
	if everyNDays < 1 {
		return nil, fmt.Errorf("%w: everyNDays must be at least 1", common.ErrInvalidInput)
	}
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if _, err := s.inventory.Get(ctx, target.VehicleID); err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)
	out := make([]ScheduledPost, 0, recurringCount)
	for i := 1; i <= recurringCount; i++ {
		at := atHour(now.AddDate(0, 0, i*everyNDays), postingHour)
		sp, err := s.enqueuePosting(ctx, target, now, at)
		if err != nil {
			return out, err
		}
		out = append(out, *sp)
	}
	return out, nil
}

// ScheduleAutoRepost enqueues a repost check a week out.
func (s *Scheduler) ScheduleAutoRepost(ctx context.Context, vehicleID string, platform models.Platform, connectionID, dealerID string) (*ScheduledPost, error) {
	if vehicleID == "" || platform == "" || dealerID == "" {
		return nil, fmt.Errorf("%w: vehicle id, platform and dealer id are required", common.ErrInvalidInput)
	}

	now := s.now().In(s.loc)
	at := atHour(now.AddDate(0, 0, autoRepostDays), postingHour)

	job := models.RepostJob{
		VehicleID:              vehicleID,
		Platform:               platform,
		ConnectionID:           connectionID,
		DealerID:               dealerID,
		DaysWithoutInteraction: autoRepostDays,
	}
	id, err := s.broker.Repost().Enqueue(ctx, job, queue.Options{Delay: delayUntil(now, at)})
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "repost check scheduled", "job_id", id, "vehicle_id", vehicleID, "scheduled_for", at)
	return &ScheduledPost{JobID: id, ScheduledFor: at}, nil
}

// ScheduledPosts lists the dealer's posting jobs that are still delayed.
func (s *Scheduler) ScheduledPosts(ctx context.Context, dealerID string) ([]ScheduledPostView, error) {
	jobs, err := s.broker.Posting().ListByState(ctx, models.JobDelayed)
	if err != nil {
		return nil, err
	}

	out := make([]ScheduledPostView, 0, len(jobs))
	for _, j := range jobs {
		var p models.PostingJob
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			s.log.Warn(ctx, "unreadable posting payload", "job_id", j.ID, "error", err)
			continue
		}
		if p.DealerID != dealerID {
			continue
		}
		out = append(out, ScheduledPostView{
			JobID:        j.ID,
			VehicleID:    p.VehicleID,
			Platform:     p.Platform,
			ListingID:    p.ListingID,
			ScheduledFor: j.RunAfter,
		})
	}
	return out, nil
}

// CancelScheduledPost removes a posting job that has not started.
func (s *Scheduler) CancelScheduledPost(ctx context.Context, jobID string) (bool, error) {
	ok, err := s.broker.Posting().Remove(ctx, jobID)
	if err != nil {
		return false, err
	}
	if ok {
		s.log.Info(ctx, "scheduled post cancelled", "job_id", jobID)
	}
	return ok, nil
}

// OptimalPostingTime is the next Thursday 09:00 after now, never today, and
// a week later when that is under an hour away.
func OptimalPostingTime(now time.Time) time.Time {
	days := (int(optimalWeekday) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	at := atHour(now.AddDate(0, 0, days), postingHour)
	if at.Sub(now) < optimalMinLead {
		at = at.AddDate(0, 0, 7)
	}
	return at
}

// ShouldRepostVehicle reports whether a listing is stale: listed at least a
// week and averaging under one click a day.
func ShouldRepostVehicle(impressions, clicks, daysListed int) bool {
	if daysListed < repostMinDays {
		return false
	}
	return float64(clicks)/float64(daysListed) < repostDailyClick
}

func atHour(t time.Time, hour int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), hour, 0, 0, 0, t.Location())
}

func delayUntil(now, at time.Time) time.Duration {
	d := at.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}
