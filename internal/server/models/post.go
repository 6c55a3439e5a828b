package models

import "time"

type Platform string

const (
	PlatformFacebook   Platform = "facebook"
	PlatformCraigslist Platform = "craigslist"
)

type PostStatus string

const (
	PostPosted   PostStatus = "posted"
	PostArchived PostStatus = "archived"
	PostDeleted  PostStatus = "deleted"
	PostFailed   PostStatus = "failed"
)

// CanTransitionTo reports whether a post may move from s to next.
// Deleted is terminal and nothing returns to posted.
func (s PostStatus) CanTransitionTo(next PostStatus) bool {
	if s == PostDeleted {
		return false
	}
	if next == PostPosted {
		return s == PostPosted
	}
	return true
}

// Post is one platform listing with its engagement counters.
type Post struct {
	ID                  string     `json:"id"`
	VehicleID           string     `json:"vehicleId"`
	DealerID            string     `json:"dealerId"`
	Platform            Platform   `json:"platform"`
	PlatformPostID      string     `json:"platformPostId,omitempty"`
	IdempotencyKey      string     `json:"idempotencyKey,omitempty"`
	Status              PostStatus `json:"status"`
	CreatedAt           time.Time  `json:"createdAt"`
	PostedAt            *time.Time `json:"postedAt,omitempty"`
	ArchivedAt          *time.Time `json:"archivedAt,omitempty"`
	DeletedAt           *time.Time `json:"deletedAt,omitempty"`
	Impressions         int        `json:"impressions"`
	Clicks              int        `json:"clicks"`
	Leads               int        `json:"leads"`
	Conversions         int        `json:"conversions"`
	LastMetricsUpdateAt *time.Time `json:"lastMetricsUpdateAt,omitempty"`
	ErrorMessage        string     `json:"errorMessage,omitempty"`
}

func (p *Post) Active() bool {
	return p.Status == PostPosted
}

type PostMetrics struct {
	Impressions int `json:"impressions"`
	Clicks      int `json:"clicks"`
	Leads       int `json:"leads"`
	Conversions int `json:"conversions"`
}
