package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// AutotraderAdapter reads Autotrader listings. Auth is an X-API-Key header.
type AutotraderAdapter struct {
	feed feedClient
}

func NewAutotraderAdapter(baseURL string, client *http.Client) *AutotraderAdapter {
	return &AutotraderAdapter{feed: feedClient{
		provider: models.ProviderAutotrader,
		baseURL:  baseURL,
		client:   client,
		authorize: func(r *http.Request, apiKey string) {
			r.Header.Set("X-API-Key", apiKey)
		},
		now: time.Now,
	}}
}

type autotraderListing struct {
	ID            string   `json:"id"`
	ListingID     string   `json:"listingId"`
	VIN           string   `json:"vin"`
	Year          int      `json:"year"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Trim          string   `json:"trim"`
	Variant       string   `json:"variant"`
	Mileage       float64  `json:"mileage"`
	Odometer      float64  `json:"odometer"`
	Price         float64  `json:"price"`
	Condition     string   `json:"condition"`
	BodyType      string   `json:"bodyType"`
	BodyStyle     string   `json:"bodyStyle"`
	Transmission  string   `json:"transmission"`
	Fuel          string   `json:"fuel"`
	Color         string   `json:"color"`
	InteriorColor string   `json:"interiorColor"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Images        []string `json:"images"`
	Status        string   `json:"status"`
}

type autotraderListings struct {
	Listings []autotraderListing `json:"listings"`
}

type autotraderListingEnvelope struct {
	Listing *autotraderListing `json:"listing"`
}

func (a *AutotraderAdapter) ProviderType() models.ProviderType { return models.ProviderAutotrader }

func (a *AutotraderAdapter) TestConnection(ctx context.Context, creds models.Credentials) (bool, error) {
	return a.feed.probe(ctx, creds, "/listings")
}

func (a *AutotraderAdapter) FetchVehicles(ctx context.Context, creds models.Credentials) ([]*ProviderVehicle, error) {
	var resp autotraderListings
	params := url.Values{"limit": {strconv.Itoa(feedPageSize)}}
	if err := a.feed.get(ctx, creds, "/listings", params, &resp); err != nil {
		return nil, err
	}

	out := make([]*ProviderVehicle, 0, len(resp.Listings))
	for i := range resp.Listings {
		out = append(out, a.normalize(&resp.Listings[i]))
	}
	return out, nil
}

func (a *AutotraderAdapter) FetchVehicle(ctx context.Context, creds models.Credentials, providerID string) (*ProviderVehicle, error) {
	var resp autotraderListingEnvelope
	err := a.feed.get(ctx, creds, "/listings/"+url.PathEscape(providerID), nil, &resp)
	if errors.Is(err, errFeedNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if resp.Listing == nil {
		return nil, nil
	}
	return a.normalize(resp.Listing), nil
}

func (a *AutotraderAdapter) normalize(item *autotraderListing) *ProviderVehicle {
	mileage := item.Mileage
	if mileage == 0 {
		mileage = item.Odometer
	}

	condition := models.ConditionUsed
	if item.Condition == "New" {
		condition = models.ConditionNew
	}

	status := models.VehicleAvailable
	if item.Status == "sold" {
		status = models.VehicleSold
	}

	return &ProviderVehicle{
		ProviderID:    firstNonEmpty(item.ID, item.ListingID),
		VIN:           orDefault(item.VIN, unknownVIN),
		Year:          a.feed.yearOrCurrent(item.Year),
		Make:          orDefault(item.Make, unknownValue),
		Model:         orDefault(item.Model, unknownValue),
		Trim:          firstNonEmpty(item.Trim, item.Variant),
		Mileage:       int(mileage),
		Price:         item.Price,
		Condition:     condition,
		BodyType:      firstNonEmpty(item.BodyType, item.BodyStyle),
		Transmission:  item.Transmission,
		FuelType:      item.Fuel,
		ExteriorColor: item.Color,
		InteriorColor: item.InteriorColor,
		Description:   item.Description,
		Features:      nonNil(item.Features),
		Photos:        nonNil(item.Images),
		Status:        status,
	}
}
