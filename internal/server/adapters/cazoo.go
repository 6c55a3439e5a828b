package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

// CazooAdapter reads the Cazoo wholesale inventory feed. Auth is a bearer
// api key.
type CazooAdapter struct {
	feed feedClient
}

func NewCazooAdapter(baseURL string, client *http.Client) *CazooAdapter {
	return &CazooAdapter{feed: feedClient{
		provider: models.ProviderCazoo,
		baseURL:  baseURL,
		client:   client,
		authorize: func(r *http.Request, apiKey string) {
			r.Header.Set("Authorization", "Bearer "+apiKey)
		},
		now: time.Now,
	}}
}

type cazooItem struct {
	ID            string   `json:"id"`
	VIN           string   `json:"vin"`
	Year          int      `json:"year"`
	Make          string   `json:"make"`
	Model         string   `json:"model"`
	Trim          string   `json:"trim"`
	Mileage       float64  `json:"mileage"`
	Price         float64  `json:"price"`
	Condition     string   `json:"condition"`
	BodyType      string   `json:"bodyType"`
	Transmission  string   `json:"transmission"`
	FuelType      string   `json:"fuelType"`
	ExteriorColor string   `json:"exteriorColor"`
	InteriorColor string   `json:"interiorColor"`
	Description   string   `json:"description"`
	Features      []string `json:"features"`
	Photos        []string `json:"photos"`
	Images        []string `json:"images"`
	Status        string   `json:"status"`
}

type cazooInventory struct {
	Items []cazooItem `json:"items"`
}

func (a *CazooAdapter) ProviderType() models.ProviderType { return models.ProviderCazoo }

func (a *CazooAdapter) TestConnection(ctx context.Context, creds models.Credentials) (bool, error) {
	return a.feed.probe(ctx, creds, "/inventory")
}

func (a *CazooAdapter) FetchVehicles(ctx context.Context, creds models.Credentials) ([]*ProviderVehicle, error) {
	var resp cazooInventory
	params := url.Values{"status": {"available"}, "limit": {strconv.Itoa(feedPageSize)}}
	if err := a.feed.get(ctx, creds, "/inventory", params, &resp); err != nil {
		return nil, err
	}

	out := make([]*ProviderVehicle, 0, len(resp.Items))
	for i := range resp.Items {
		out = append(out, a.normalize(&resp.Items[i]))
	}
	return out, nil
}

func (a *CazooAdapter) FetchVehicle(ctx context.Context, creds models.Credentials, providerID string) (*ProviderVehicle, error) {
	var item cazooItem
	err := a.feed.get(ctx, creds, "/inventory/"+url.PathEscape(providerID), nil, &item)
	if errors.Is(err, errFeedNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if item.ID == "" {
		return nil, nil
	}
	return a.normalize(&item), nil
}

func (a *CazooAdapter) normalize(item *cazooItem) *ProviderVehicle {
	photos := item.Photos
	if len(photos) == 0 {
		photos = item.Images
	}

	return &ProviderVehicle{
		ProviderID:    item.ID,
		VIN:           orDefault(item.VIN, unknownVIN),
		Year:          a.feed.yearOrCurrent(item.Year),
		Make:          orDefault(item.Make, unknownValue),
		Model:         orDefault(item.Model, unknownValue),
		Trim:          item.Trim,
		Mileage:       int(item.Mileage),
		Price:         item.Price,
		Condition:     cazooCondition(item.Condition),
		BodyType:      item.BodyType,
		Transmission:  item.Transmission,
		FuelType:      item.FuelType,
		ExteriorColor: item.ExteriorColor,
		InteriorColor: item.InteriorColor,
		Description:   item.Description,
		Features:      nonNil(item.Features),
		Photos:        nonNil(photos),
		Status:        normalizeStatus(item.Status),
	}
}

func cazooCondition(c string) models.Condition {
	lower := strings.ToLower(c)
	switch {
	case strings.Contains(lower, "new"):
		return models.ConditionNew
	case strings.Contains(lower, "certified"), strings.Contains(lower, "cpo"):
		return models.ConditionCertified
	default:
		return models.ConditionUsed
	}
}
