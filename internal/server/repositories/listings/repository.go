// Package listings stores generated listing copy per vehicle.
package listings

import (
	"context"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	Save(ctx context.Context, l *models.Listing) error
	Get(ctx context.Context, id string) (*models.Listing, error)
	// LatestByVehicle returns the most recently generated listing.
	LatestByVehicle(ctx context.Context, vehicleID string) (*models.Listing, error)
}
