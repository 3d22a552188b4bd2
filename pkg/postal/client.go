package postal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/giftbloom/giftbloom-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.postalpincode.in"
	requestBodyReadLimit  int64 = 1024
	defaultTimeout              = 5 * time.Second
)

// Client looks up locality data for a bare pincode from the public postal
// directory. Used when an admin references a pincode no ServiceArea covers.
type Client struct {
	httpClient *http.Client
	baseURL    string
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

// WithBaseURL overrides the directory base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds a postal directory client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
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
	return client
}

// Locality is the directory record for one post office under a pincode.
type Locality struct {
	Name     string
	District string
	State    string
}

// Lookup returns the localities registered under the pincode. An unknown
// pincode yields an empty slice, not an error.
func (c *Client) Lookup(ctx context.Context, pincode string) ([]Locality, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "postal client not configured")
	}
	trimmed := strings.TrimSpace(pincode)
	if len(trimmed) != 6 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pincode must be 6 digits")
	}

	endpoint := fmt.Sprintf("%s/pincode/%s", strings.TrimRight(c.baseURL, "/"), trimmed)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build pincode lookup request")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute pincode lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "pincode lookup failed")
	}

	var apiResp []struct {
		Status     string `json:"Status"`
		PostOffice []struct {
			Name     string `json:"Name"`
			District string `json:"District"`
			State    string `json:"State"`
		} `json:"PostOffice"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode pincode lookup response")
	}

	if len(apiResp) == 0 || !strings.EqualFold(apiResp[0].Status, "Success") {
		return nil, nil
	}

	localities := make([]Locality, 0, len(apiResp[0].PostOffice))
	for _, po := range apiResp[0].PostOffice {
		localities = append(localities, Locality{
			Name:     po.Name,
			District: po.District,
			State:    po.State,
		})
	}
	return localities, nil
}
