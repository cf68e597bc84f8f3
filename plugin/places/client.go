// Package places provides the client for the places-search upstream.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/nutrisense/nutrisense/internal/profile"
	apierrors "github.com/nutrisense/nutrisense/internal/errors"
)

const (
	// maxResults caps how many records a single search returns.
	maxResults = 20
	// statusOK and statusZeroResults are the upstream statuses that carry a
	// usable (possibly empty) result list.
	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Config holds the places upstream configuration.
type Config struct {
	// BaseURL is the API root (e.g. https://maps.googleapis.com/maps/api/place)
	BaseURL string
	// APIKey is the upstream credential
	APIKey string
	// Language is the requested result language
	Language string
	// Timeout is the HTTP timeout for upstream requests
	Timeout time.Duration
}

// DefaultConfig returns the default places configuration.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:  "https://maps.googleapis.com/maps/api/place",
		Language: "zh-TW",
		Timeout:  10 * time.Second,
	}
}

// NewConfigFromProfile builds a Config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := DefaultConfig()
	cfg.APIKey = p.PlacesAPIKey
	if p.PlacesBaseURL != "" {
		cfg.BaseURL = p.PlacesBaseURL
	}
	if p.PlacesLanguage != "" {
		cfg.Language = p.PlacesLanguage
	}
	return cfg
}

// Client calls the places-search upstream.
type Client struct {
	config     *Config
	httpClient *http.Client
}

// NewClient creates a new places client.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.APIKey == "" {
		return nil, apierrors.ConfigurationMissing("places API key is not configured")
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// NearbySearch searches restaurants around the center point. keyword may be
// empty for an unfiltered search. The result list is capped at 20 records.
// The call carries the client timeout and is never retried.
func (c *Client) NearbySearch(ctx context.Context, center Location, radiusM int, keyword string) ([]Place, error) {
	params := url.Values{}
	params.Set("location", formatLocation(center))
	params.Set("radius", strconv.Itoa(radiusM))
	params.Set("type", "restaurant")
	params.Set("language", c.config.Language)
	params.Set("key", c.config.APIKey)
	if keyword != "" {
		params.Set("keyword", keyword)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.config.BaseURL+"/nearbysearch/json?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apierrors.UpstreamUnavailable("places request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apierrors.UpstreamUnavailable(
			fmt.Sprintf("places upstream returned HTTP %d", resp.StatusCode), nil)
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apierrors.UpstreamUnavailable("failed to decode places response", err)
	}

	if result.Status != statusOK && result.Status != statusZeroResults {
		msg := fmt.Sprintf("places upstream status %s", result.Status)
		if result.ErrorMessage != "" {
			msg += ": " + result.ErrorMessage
		}
		return nil, apierrors.UpstreamUnavailable(msg, nil)
	}

	records := result.Results
	if len(records) > maxResults {
		records = records[:maxResults]
	}
	return records, nil
}

// PhotoURL builds the public photo URL for a photo reference.
func (c *Client) PhotoURL(photoReference string) string {
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photoreference", photoReference)
	params.Set("key", c.config.APIKey)
	return c.config.BaseURL + "/photo?" + params.Encode()
}

func formatLocation(loc Location) string {
	return strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
}
