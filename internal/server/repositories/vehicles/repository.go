// Package vehicles stores inventory keyed by (dealer id, provider id).
package vehicles

import (
	"context"
	"strings"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

type Repository interface {
	// Upsert inserts v or merges it into the vehicle sharing its natural key.
	// The lookup and write happen as one atomic step. v is a complete record:
	// on merge every mutable field takes v's value, zero values included, so a
	// feed that drops a description clears it. Only the stored id and
	// CreatedAt are kept. inserted reports which branch ran.
	Upsert(ctx context.Context, v *models.Vehicle) (out *models.Vehicle, inserted bool, err error)
	Get(ctx context.Context, id string) (*models.Vehicle, error)
	List(ctx context.Context, f models.VehicleFilter) ([]*models.Vehicle, error)
	Count(ctx context.Context, f models.VehicleFilter) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
}

func naturalKey(dealerID, providerID string) string {
	return dealerID + "\x00" + providerID
}

func matches(v *models.Vehicle, f models.VehicleFilter) bool {
	if f.DealerID != "" && v.DealerID != f.DealerID {
		return false
	}
	if f.ConnectionID != "" && v.ProviderConnectionID != f.ConnectionID {
		return false
	}
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(v.Make), q) &&
			!strings.Contains(strings.ToLower(v.Model), q) &&
			!strings.Contains(strings.ToLower(v.VIN), q) {
			return false
		}
	}
	return true
}

func limitOf(f models.VehicleFilter) int {
	if f.Limit <= 0 {
		return models.DefaultVehicleLimit
	}
	return f.Limit
}
