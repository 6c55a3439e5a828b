package models

import "time"

type Condition string

const (
	ConditionNew       Condition = "new"
	ConditionUsed      Condition = "used"
	ConditionCertified Condition = "certified"
)

type VehicleStatus string

const (
	VehicleAvailable VehicleStatus = "available"
	VehicleSold      VehicleStatus = "sold"
	VehiclePending   VehicleStatus = "pending"
)

// Vehicle is one inventory unit. (DealerID, ProviderID) is its natural key.
type Vehicle struct {
	ID                   string        `json:"id"`
	DealerID             string        `json:"dealerId"`
	ProviderConnectionID string        `json:"providerConnectionId"`
	ProviderID           string        `json:"providerId"`
	ProviderType         ProviderType  `json:"providerType"`
	VIN                  string        `json:"vin"`
	Year                 int           `json:"year"`
	Make                 string        `json:"make"`
	Model                string        `json:"model"`
	Trim                 string        `json:"trim,omitempty"`
	Mileage              int           `json:"mileage"`
	Price                float64       `json:"price"`
	Condition            Condition     `json:"condition"`
	BodyType             string        `json:"bodyType,omitempty"`
	Transmission         string        `json:"transmission,omitempty"`
	FuelType             string        `json:"fuelType,omitempty"`
	ExteriorColor        string        `json:"exteriorColor,omitempty"`
	InteriorColor        string        `json:"interiorColor,omitempty"`
	Description          string        `json:"description,omitempty"`
	Features             []string      `json:"features,omitempty"`
	Photos               []string      `json:"photos,omitempty"`
	Status               VehicleStatus `json:"status"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
	LastSyncedAt         time.Time     `json:"lastSyncedAt"`
}

// Clone returns a deep copy so callers never share slices with a store.
func (v *Vehicle) Clone() *Vehicle {
	c := *v
	c.Features = append([]string(nil), v.Features...)
	c.Photos = append([]string(nil), v.Photos...)
	return &c
}

// VehicleFilter narrows List/Count. Query matches make, model or VIN,
// case-insensitively.
type VehicleFilter struct {
	DealerID     string
	ConnectionID string
	Status       VehicleStatus
	Query        string
	Limit        int
	Offset       int
}

const DefaultVehicleLimit = 50
