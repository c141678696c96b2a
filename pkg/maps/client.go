package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	pkgerrors "github.com/me0hharryy/dermaGo/pkg/errors"
)

const (
	defaultBaseURL              = "https://maps.googleapis.com/maps/api/place"
	nearbySearchPath            = "nearbysearch/json"
	responseBodyReadLimit int64 = 1024

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

var errAPIKeyRequired = errors.New("google maps api key is required")

// Client wraps the Google Places Nearby Search endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured Places base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(baseURL); trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Places client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// LatLng is a WGS84 coordinate.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NearbyRequest searches around Location for Keyword within RadiusMeters.
type NearbyRequest struct {
	Location     LatLng
	RadiusMeters int
	Keyword      string
}

// Place is the subset of a nearby search result the service uses.
type Place struct {
	PlaceID  string
	Name     string
	Vicinity string
	Location LatLng
}

// Nearby runs a keyword nearby search. ZERO_RESULTS is an empty slice, not
// an error.
func (c *Client) Nearby(ctx context.Context, req NearbyRequest) ([]Place, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "google maps client not configured")
	}
	if strings.TrimSpace(req.Keyword) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nearby keyword is required")
	}
	if req.RadiusMeters <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nearby radius must be positive")
	}

	query := url.Values{}
	query.Set("location", formatLatLng(req.Location))
	query.Set("radius", strconv.Itoa(req.RadiusMeters))
	query.Set("keyword", req.Keyword)
	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s/%s?%s", strings.TrimRight(c.baseURL, "/"), nearbySearchPath, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build nearby search request")
	}
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute nearby search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "nearby search request failed")
	}

	var apiResp struct {
		Status       string `json:"status"`
		ErrorMessage string `json:"error_message"`
		Results      []struct {
			PlaceID  string `json:"place_id"`
			Name     string `json:"name"`
			Vicinity string `json:"vicinity"`
			Geometry struct {
				Location LatLng `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode nearby search response")
	}

	switch apiResp.Status {
	case statusOK, statusZeroResults:
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("places status %s: %s", apiResp.Status, apiResp.ErrorMessage), "nearby search rejected")
	}

	places := make([]Place, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		places = append(places, Place{
			PlaceID:  r.PlaceID,
			Name:     r.Name,
			Vicinity: r.Vicinity,
			Location: r.Geometry.Location,
		})
	}
	return places, nil
}

func formatLatLng(p LatLng) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
