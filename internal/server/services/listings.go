package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/repositories/listings"
)

// ListingStore keeps generated listing copy. Posting uses the listing named
// by the job; retries and reposts use the latest one.
type ListingStore struct {
	repo listings.Repository
	now  func() time.Time
}

func NewListingStore(repo listings.Repository) *ListingStore {
	return &ListingStore{repo: repo, now: time.Now}
}

func (s *ListingStore) Save(ctx context.Context, l *models.Listing) (*models.Listing, error) {
	if l == nil || l.VehicleID == "" {
		return nil, fmt.Errorf("%w: listing requires a vehicle id", common.ErrInvalidInput)
	}

	in := *l
	in.Keywords = append([]string(nil), l.Keywords...)
	if in.ID == "" {
		in.ID = uuid.NewString()
	}
	if in.GeneratedAt.IsZero() {
		in.GeneratedAt = s.now().UTC()
	}

	if err := s.repo.Save(ctx, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

func (s *ListingStore) Get(ctx context.Context, id string) (*models.Listing, error) {
	return s.repo.Get(ctx, id)
}

func (s *ListingStore) LatestByVehicle(ctx context.Context, vehicleID string) (*models.Listing, error) {
	return s.repo.LatestByVehicle(ctx, vehicleID)
}
