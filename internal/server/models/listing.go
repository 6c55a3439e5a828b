package models

import "time"

type ListingCopy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Listing is generated marketing copy for a vehicle.
type Listing struct {
	ID          string      `json:"id"`
	VehicleID   string      `json:"vehicleId"`
	Facebook    ListingCopy `json:"facebook"`
	Craigslist  ListingCopy `json:"craigslist"`
	Base        ListingCopy `json:"base"`
	Keywords    []string    `json:"keywords,omitempty"`
	GeneratedAt time.Time   `json:"generatedAt"`
}

// ForPlatform returns the platform copy, falling back to the base copy for
// missing fields.
func (l *Listing) ForPlatform(p Platform) ListingCopy {
	var c ListingCopy
	switch p {
	case PlatformFacebook:
		c = l.Facebook
	case PlatformCraigslist:
		c = l.Craigslist
	}
	if c.Title == "" {
		c.Title = l.Base.Title
	}
	if c.Description == "" {
		c.Description = l.Base.Description
	}
	return c
}
