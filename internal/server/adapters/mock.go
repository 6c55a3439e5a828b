package adapters

import (
	"context"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// MockAdapter is an offline provider returning a fixed five-vehicle feed.
// Any credentials are accepted.
type MockAdapter struct{}

func NewMockAdapter() *MockAdapter { return &MockAdapter{} }

func (m *MockAdapter) ProviderType() models.ProviderType { return models.ProviderMock }

func (m *MockAdapter) TestConnection(ctx context.Context, creds models.Credentials) (bool, error) {
	return true, nil
}

func (m *MockAdapter) FetchVehicles(ctx context.Context, creds models.Credentials) ([]*ProviderVehicle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return mockInventory(), nil
}

func (m *MockAdapter) FetchVehicle(ctx context.Context, creds models.Credentials, providerID string) (*ProviderVehicle, error) {
	vehicles, err := m.FetchVehicles(ctx, creds)
	if err != nil {
		return nil, err
	}
	for _, v := range vehicles {
		if v.ProviderID == providerID {
			return v, nil
		}
	}
	return nil, nil
}

// mockInventory builds a fresh slice per call so callers may mutate it.
func mockInventory() []*ProviderVehicle {
	return []*ProviderVehicle{
		{
			ProviderID:    "mock-1",
			VIN:           "1HGBH41JXMN109186",
			Year:          2024,
			Make:          "Toyota",
			Model:         "Camry",
			Trim:          "SE",
			Mileage:       15000,
			Price:         28500,
			Condition:     models.ConditionUsed,
			BodyType:      "Sedan",
			Transmission:  "Automatic",
			FuelType:      "Gasoline",
			ExteriorColor: "Silver",
			InteriorColor: "Black",
			Description:   "Well-maintained 2024 Toyota Camry SE with low mileage. Single owner, clean title.",
			Features:      []string{"Backup Camera", "Bluetooth", "Lane Departure Warning", "Adaptive Cruise Control"},
			Photos:        []string{"https://example.com/photos/camry-1.jpg", "https://example.com/photos/camry-2.jpg"},
			Status:        models.VehicleAvailable,
		},
		{
			ProviderID:    "mock-2",
			VIN:           "5YFBURHE5HP123456",
			Year:          2023,
			Make:          "Honda",
			Model:         "Accord",
			Trim:          "Sport",
			Mileage:       22000,
			Price:         26900,
			Condition:     models.ConditionUsed,
			BodyType:      "Sedan",
			Transmission:  "Automatic",
			FuelType:      "Gasoline",
			ExteriorColor: "Blue",
			InteriorColor: "Gray",
			Description:   "Sporty Honda Accord with premium features. Excellent condition, highway miles.",
			Features:      []string{"Sunroof", "Heated Seats", "Apple CarPlay", "Android Auto", "Sport Mode"},
			Photos: []string{
				"https://example.com/photos/accord-1.jpg",
				"https://example.com/photos/accord-2.jpg",
				"https://example.com/photos/accord-3.jpg",
			},
			Status: models.VehicleAvailable,
		},
		{
			ProviderID:    "mock-3",
			VIN:           "1FTEW1E50KFA12345",
			Year:          2025,
			Make:          "Ford",
			Model:         "F-150",
			Trim:          "Lariat",
			Mileage:       5000,
			Price:         52000,
			Condition:     models.ConditionUsed,
			BodyType:      "Truck",
			Transmission:  "Automatic",
			FuelType:      "Gasoline",
			ExteriorColor: "Black",
			InteriorColor: "Leather Tan",
			Description:   "Nearly new F-150 Lariat with premium leather interior. Loaded with features.",
			Features:      []string{"4WD", "Towing Package", "Panoramic Sunroof", "Bang & Olufsen Audio", "360 Camera"},
			Photos:        []string{"https://example.com/photos/f150-1.jpg", "https://example.com/photos/f150-2.jpg"},
			Status:        models.VehicleAvailable,
		},
		{
			ProviderID:    "mock-4",
			VIN:           "5YJSA1E26JF123456",
			Year:          2022,
			Make:          "Tesla",
			Model:         "Model S",
			Trim:          "Long Range",
			Mileage:       35000,
			Price:         64900,
			Condition:     models.ConditionUsed,
			BodyType:      "Sedan",
			Transmission:  "Automatic",
			FuelType:      "Electric",
			ExteriorColor: "White",
			InteriorColor: "Black",
			Description:   "Premium electric sedan with autopilot. Extended range, recent service.",
			Features:      []string{"Autopilot", "Full Self-Driving Capability", "Premium Audio", "Glass Roof", "Supercharger Access"},
			Photos: []string{
				"https://example.com/photos/tesla-1.jpg",
				"https://example.com/photos/tesla-2.jpg",
				"https://example.com/photos/tesla-3.jpg",
				"https://example.com/photos/tesla-4.jpg",
			},
			Status: models.VehicleAvailable,
		},
		{
			ProviderID:    "mock-5",
			VIN:           "WBAJB7C50JB123456",
			Year:          2023,
			Make:          "BMW",
			Model:         "3 Series",
			Trim:          "330i",
			Mileage:       18000,
			Price:         42500,
			Condition:     models.ConditionCertified,
			BodyType:      "Sedan",
			Transmission:  "Automatic",
			FuelType:      "Gasoline",
			ExteriorColor: "Gray",
			InteriorColor: "Red Leather",
			Description:   "Certified pre-owned BMW with warranty. Sport package, premium sound system.",
			Features:      []string{"Sport Package", "Harman Kardon Audio", "Navigation", "Parking Sensors", "BMW Warranty"},
			Photos:        []string{"https://example.com/photos/bmw-1.jpg", "https://example.com/photos/bmw-2.jpg"},
			Status:        models.VehicleAvailable,
		},
	}
}
