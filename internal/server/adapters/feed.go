package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/officialbrandonsandoval-source/Shiftly-Auto-Tool/internal/server/models"
)

const (
	unknownVIN   = "UNKNOWN"
	unknownValue = "Unknown"
	feedPageSize = 1000
)

var (
	errMissingAPIKey = errors.New("missing api key")
	errFeedNotFound  = errors.New("feed item not found")
)

// feedClient performs authenticated JSON GETs against a provider feed.
// The api key travels only in request headers, so transport errors (which
// include the URL) never expose it.
type feedClient struct {
	provider  models.ProviderType
	baseURL   string
	client    *http.Client
	authorize func(r *http.Request, apiKey string)
	now       func() time.Time
}

func (f *feedClient) get(ctx context.Context, creds models.Credentials, path string, params url.Values, out any) error {
	apiKey := creds.Get("apiKey")
	if apiKey == "" {
		return errMissingAPIKey
	}

	u := strings.TrimRight(f.baseURL, "/") + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	f.authorize(req, apiKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s feed request: %w", f.provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errFeedNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{provider: f.provider, code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s feed: invalid response: %w", f.provider, err)
	}
	return nil
}

type statusError struct {
	provider models.ProviderType
	code     int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s feed: unexpected status %d", e.provider, e.code)
}

// probe lists a single item. A 2xx means the key is accepted; a missing
// key or an auth rejection is a plain false. Anything else is an error.
func (f *feedClient) probe(ctx context.Context, creds models.Credentials, path string) (bool, error) {
	var raw json.RawMessage
	err := f.get(ctx, creds, path, url.Values{"limit": {"1"}}, &raw)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, errMissingAPIKey) {
		return false, nil
	}
	var se *statusError
	if errors.As(err, &se) && (se.code == http.StatusUnauthorized || se.code == http.StatusForbidden) {
		return false, nil
	}
	return false, err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func (f *feedClient) yearOrCurrent(year int) int {
	if year == 0 {
		return f.now().Year()
	}
	return year
}

func normalizeStatus(s string) models.VehicleStatus {
	switch strings.ToLower(s) {
	case "sold":
		return models.VehicleSold
	case "pending":
		return models.VehiclePending
	default:
		return models.VehicleAvailable
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
