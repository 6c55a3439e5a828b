// Package adapters normalizes third-party inventory feeds into vehicles.
// Each provider type has one Adapter; the Registry maps a connection's
// provider type to its Adapter.
package adapters

import (
	"context"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// Adapter talks to one inventory provider.
//
// TestConnection reports false, nil for rejected credentials and an error
// only for unexpected transport failures. FetchVehicles returns fully
// normalized items or an error. FetchVehicle returns nil, nil for an id the
// provider does not know.
type Adapter interface {
	ProviderType() models.ProviderType
	TestConnection(ctx context.Context, creds models.Credentials) (bool, error)
	FetchVehicles(ctx context.Context, creds models.Credentials) ([]*ProviderVehicle, error)
	FetchVehicle(ctx context.Context, creds models.Credentials, providerID string) (*ProviderVehicle, error)
}

// ProviderVehicle is a normalized feed item: everything a Vehicle carries
// except the fields owned by Shiftly (ids, dealer, timestamps).
type ProviderVehicle struct {
	ProviderID    string               `json:"providerId"`
	VIN           string               `json:"vin"`
	Year          int                  `json:"year"`
	Make          string               `json:"make"`
	Model         string               `json:"model"`
	Trim          string               `json:"trim,omitempty"`
	Mileage       int                  `json:"mileage"`
	Price         float64              `json:"price"`
	Condition     models.Condition     `json:"condition"`
	BodyType      string               `json:"bodyType,omitempty"`
	Transmission  string               `json:"transmission,omitempty"`
	FuelType      string               `json:"fuelType,omitempty"`
	ExteriorColor string               `json:"exteriorColor,omitempty"`
	InteriorColor string               `json:"interiorColor,omitempty"`
	Description   string               `json:"description,omitempty"`
	Features      []string             `json:"features,omitempty"`
	Photos        []string             `json:"photos,omitempty"`
	Status        models.VehicleStatus `json:"status"`
}

// ToVehicle attaches ownership and sync time to a feed item.
func (p *ProviderVehicle) ToVehicle(conn models.ConnectionInfo, syncedAt time.Time) *models.Vehicle {
	return &models.Vehicle{
		DealerID:             conn.DealerID,
		ProviderConnectionID: conn.ID,
		ProviderID:           p.ProviderID,
		ProviderType:         conn.ProviderType,
		VIN:                  p.VIN,
		Year:                 p.Year,
		Make:                 p.Make,
		Model:                p.Model,
		Trim:                 p.Trim,
		Mileage:              p.Mileage,
		Price:                p.Price,
		Condition:            p.Condition,
		BodyType:             p.BodyType,
		Transmission:         p.Transmission,
		FuelType:             p.FuelType,
		ExteriorColor:        p.ExteriorColor,
		InteriorColor:        p.InteriorColor,
		Description:          p.Description,
		Features:             append([]string(nil), p.Features...),
		Photos:               append([]string(nil), p.Photos...),
		Status:               p.Status,
		LastSyncedAt:         syncedAt,
	}
}
