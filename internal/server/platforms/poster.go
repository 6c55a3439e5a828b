// Package platforms publishes listings to marketplaces and reads back
// engagement metrics.
package platforms

import (
	"context"
	"fmt"
	"sync"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

const (
	ConditionUsed        = "USED"
	ConditionRefurbished = "REFURBISHED"
	AvailabilityInStock  = "AVAILABLE"
	DefaultCurrency      = "USD"

	// usedMileageThreshold is the mileage above which a vehicle is listed as USED.
	usedMileageThreshold = 50000
)

// ListingContent is what gets published for one vehicle.
type ListingContent struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	Currency       string  `json:"currency"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	Condition      string  `json:"condition"`
	Availability   string  `json:"availability"`
	IdempotencyKey string  `json:"idempotencyKey"`
}

type PostResult struct {
	PlatformPostID string
	URL            string
}

// Poster is a marketplace client. Rejections wrap common.ErrPostingFailure.
type Poster interface {
	Platform() models.Platform
	Post(ctx context.Context, creds models.Credentials, content ListingContent) (*PostResult, error)
	Metrics(ctx context.Context, creds models.Credentials, platformPostID string) (*models.PostMetrics, error)
}

// BuildContent assembles the content for vehicle using the platform copy of
// listing.
func BuildContent(v *models.Vehicle, listing *models.Listing, platform models.Platform, idempotencyKey string) ListingContent {
	text := listing.ForPlatform(platform)

	var image string
	if len(v.Photos) > 0 {
		image = v.Photos[0]
	}

	return ListingContent{
		Title:          text.Title,
		Description:    text.Description,
		Price:          v.Price,
		Currency:       DefaultCurrency,
		ImageURL:       image,
		Condition:      ConditionFor(v.Mileage),
		Availability:   AvailabilityInStock,
		IdempotencyKey: idempotencyKey,
	}
}

func ConditionFor(mileage int) string {
	if mileage > usedMileageThreshold {
		return ConditionUsed
	}
	return ConditionRefurbished
}

// Registry maps platforms to posters.
type Registry struct {
	mu      sync.RWMutex
	posters map[models.Platform]Poster
}

func NewRegistry(posters ...Poster) *Registry {
	r := &Registry{posters: make(map[models.Platform]Poster, len(posters))}
	for _, p := range posters {
		r.posters[p.Platform()] = p
	}
	return r
}

func (r *Registry) Register(p Poster) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posters[p.Platform()] = p
}

// Get returns the poster for platform or common.ErrUnsupportedPlatform.
func (r *Registry) Get(platform models.Platform) (Poster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posters[platform]
	if !ok {
		return nil, fmt.Errorf("%w: %s", common.ErrUnsupportedPlatform, platform)
	}
	return p, nil
}
