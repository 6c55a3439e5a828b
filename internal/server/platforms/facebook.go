package platforms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/common"
	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
	"golang.org/x/oauth2"
)

const marketplaceItemURL = "https://www.facebook.com/marketplace/item/"

// FacebookPoster publishes to Facebook Marketplace through the Graph API.
// Credentials must carry accessToken and pageId (or userId).
type FacebookPoster struct {
	baseURL string
	client  *http.Client
}

// NewFacebookPoster builds a poster against baseURL (e.g.
// https://graph.facebook.com/v18.0). client is the transport the bearer
// token is layered on; nil means http.DefaultClient.
func NewFacebookPoster(baseURL string, client *http.Client) *FacebookPoster {
	if client == nil {
		client = http.DefaultClient
	}
	return &FacebookPoster{baseURL: strings.TrimRight(baseURL, "/"), client: client}
}

func (p *FacebookPoster) Platform() models.Platform { return models.PlatformFacebook }

type graphError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type feedItemRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Currency     string  `json:"currency"`
	ImageURL     string  `json:"image_url,omitempty"`
	Condition    string  `json:"condition"`
	Availability string  `json:"availability"`
	Category     string  `json:"category_enum"`
	RetailerID   string  `json:"retailer_id"`
}

type insightsResponse struct {
	Data []struct {
		Name   string `json:"name"`
		Values []struct {
			Value int `json:"value"`
		} `json:"values"`
	} `json:"data"`
}

// authorized returns an HTTP client that adds the access token as an OAuth2
// bearer header, so the token never appears in URLs or error strings.
func (p *FacebookPoster) authorized(ctx context.Context, creds models.Credentials) (*http.Client, error) {
	token := creds.Get("accessToken")
	if token == "" {
		return nil, fmt.Errorf("%w: missing access token", common.ErrPostingFailure)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.client)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})), nil
}

func (p *FacebookPoster) Post(ctx context.Context, creds models.Credentials, content ListingContent) (*PostResult, error) {
	pageID := creds.Get("pageId")
	if pageID == "" {
		pageID = creds.Get("userId")
	}
	if pageID == "" {
		return nil, fmt.Errorf("%w: missing page id", common.ErrPostingFailure)
	}

	client, err := p.authorized(ctx, creds)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(feedItemRequest{
		Title:        content.Title,
		Description:  content.Description,
		Price:        content.Price,
		Currency:     content.Currency,
		ImageURL:     content.ImageURL,
		Condition:    content.Condition,
		Availability: content.Availability,
		Category:     "VEHICLE",
		RetailerID:   content.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/marketplace_product_feeds", p.baseURL, url.PathEscape(pageID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		ID string `json:"id"`
	}
	if err := doGraph(client, req, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("%w: empty post id", common.ErrPostingFailure)
	}

	return &PostResult{PlatformPostID: out.ID, URL: marketplaceItemURL + out.ID}, nil
}

func (p *FacebookPoster) Metrics(ctx context.Context, creds models.Credentials, platformPostID string) (*models.PostMetrics, error) {
	client, err := p.authorized(ctx, creds)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s/insights?metric=impressions,clicks", p.baseURL, url.PathEscape(platformPostID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var out insightsResponse
	if err := doGraph(client, req, &out); err != nil {
		return nil, err
	}

	m := &models.PostMetrics{}
	for _, d := range out.Data {
		if len(d.Values) == 0 {
			continue
		}
		switch d.Name {
		case "impressions":
			m.Impressions = d.Values[0].Value
		case "clicks":
			m.Clicks = d.Values[0].Value
		}
	}
	return m, nil
}

func doGraph(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrPostingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var ge graphError
		msg := "unknown facebook api error"
		if json.NewDecoder(resp.Body).Decode(&ge) == nil && ge.Error.Message != "" {
			msg = ge.Error.Message
		}
		return fmt.Errorf("%w: %s (status %d)", common.ErrPostingFailure, msg, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to parse facebook response", common.ErrPostingFailure)
	}
	return nil
}
