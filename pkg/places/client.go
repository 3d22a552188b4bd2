package places

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://places.googleapis.com/v1"
	autocompleteFieldMask       = "suggestions.placePrediction.placeId,suggestions.placePrediction.text"
	requestBodyReadLimit  int64 = 1024
	defaultTimeout              = 3 * time.Second
)

var errAPIKeyRequired = errors.New("places api key is required")

// Client wraps the place-suggestion and reverse-geocoding provider used when
// local location data is thin.
type Client struct {
	httpClient *http.Client
	baseURL    string
	geocodeURL string
	apiKey     string
	regionCode string
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
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
			c.geocodeURL = trimmed
		}
	}
}

// WithRegion restricts suggestions to the given two-letter region code.
func WithRegion(region string) Option {
	return func(c *Client) {
		trimmed := strings.ToUpper(strings.TrimSpace(region))
		if trimmed != "" {
			c.regionCode = trimmed
		}
	}
}

// NewClient builds the provider client given an API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(apiKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		apiKey:     trimmedKey,
		baseURL:    defaultBaseURL,
		geocodeURL: "https://maps.googleapis.com/maps/api/geocode/json",
		regionCode: "IN",
		httpClient: &http.Client{Timeout: defaultTimeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return client, nil
}

// Suggestion is one externally-suggested place.
type Suggestion struct {
	PlaceID     string
	Description string
}

// ReverseGeocodeResult is the normalized reverse-geocoding payload.
type ReverseGeocodeResult struct {
	FormattedAddress string
	Locality         string
	Pincode          string
	Lat              float64
	Lng              float64
}

// Autocomplete queries suggested places for partial input, restricted to the
// configured region.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]Suggestion, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "places client not configured")
	}
	if strings.TrimSpace(input) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "autocomplete input is required")
	}

	body := struct {
		Input               string   `json:"input"`
		IncludedRegionCodes []string `json:"includedRegionCodes,omitempty"`
	}{
		Input:               input,
		IncludedRegionCodes: []string{c.regionCode},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal autocomplete request")
	}

	endpoint := fmt.Sprintf("%s/places:autocomplete", strings.TrimRight(c.baseURL, "/"))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build autocomplete request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)
	httpReq.Header.Set("X-Goog-FieldMask", autocompleteFieldMask)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute autocomplete request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "autocomplete request failed")
	}

	var apiResp struct {
		Suggestions []struct {
			Prediction struct {
				PlaceID string `json:"placeId"`
				Text    struct {
					Text string `json:"text"`
				} `json:"text"`
			} `json:"placePrediction"`
		} `json:"suggestions"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode autocomplete response")
	}

	suggestions := make([]Suggestion, 0, len(apiResp.Suggestions))
	for _, s := range apiResp.Suggestions {
		suggestions = append(suggestions, Suggestion{
			PlaceID:     s.Prediction.PlaceID,
			Description: s.Prediction.Text.Text,
		})
	}

	return suggestions, nil
}

// ReverseGeocode resolves the nearest address data for a coordinate pair.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) (*ReverseGeocodeResult, error) {
	query := url.Values{}
	query.Set("latlng", fmt.Sprintf("%f,%f", lat, lng))
	return c.geocode(ctx, query)
}

// GeocodePincode resolves coordinates and locality data for a postal code
// inside the configured region.
func (c *Client) GeocodePincode(ctx context.Context, pincode string) (*ReverseGeocodeResult, error) {
	trimmed := strings.TrimSpace(pincode)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode is required")
	}
	query := url.Values{}
	query.Set("components", fmt.Sprintf("postal_code:%s|country:%s", trimmed, c.regionCode))
	return c.geocode(ctx, query)
}

func (c *Client) geocode(ctx context.Context, query url.Values) (*ReverseGeocodeResult, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "places client not configured")
	}

	query.Set("key", c.apiKey)
	endpoint := fmt.Sprintf("%s?%s", c.geocodeURL, query.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build reverse geocode request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute reverse geocode request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "reverse geocode request failed")
	}

	var apiResp struct {
		Results []struct {
			FormattedAddress  string `json:"formatted_address"`
			AddressComponents []struct {
				LongName string   `json:"long_name"`
				Types    []string `json:"types"`
			} `json:"address_components"`
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode reverse geocode response")
	}

	if apiResp.Status != "OK" || len(apiResp.Results) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("reverse geocode returned status %s", apiResp.Status))
	}

	first := apiResp.Results[0]
	result := &ReverseGeocodeResult{
		FormattedAddress: first.FormattedAddress,
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
	}
	for _, comp := range first.AddressComponents {
		for _, typ := range comp.Types {
			switch typ {
			case "sublocality", "locality":
				if result.Locality == "" {
					result.Locality = comp.LongName
				}
			case "postal_code":
				result.Pincode = comp.LongName
			}
		}
	}

	return result, nil
}
