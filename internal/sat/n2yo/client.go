// Package n2yo fetches live satellite positions from the N2YO REST API.
package n2yo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Choertbaden/sattrack/internal/sat"
)

const (
	// DefaultBaseURL is the N2YO satellite API root.
	DefaultBaseURL = "https://api.n2yo.com/rest/v1/satellite"

	// DefaultTimeout bounds a single position request end to end.
	DefaultTimeout = 10 * time.Second
)

// Config describes one satellite's position feed.
type Config struct {
	APIKey   string
	NoradID  int
	Observer sat.Observer

	BaseURL string        // defaults to DefaultBaseURL
	Timeout time.Duration // defaults to DefaultTimeout
}

// Client requests the current position of a single satellite as seen
// from a fixed observer. It implements sat.Source.
type Client struct {
	apiKey   string
	noradID  int
	observer sat.Observer
	baseURL  string
	hc       *http.Client
}

var _ sat.Source = (*Client)(nil)

// New creates a position client for the configured satellite.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("n2yo: API key is required")
	}
	if cfg.NoradID <= 0 {
		return nil, fmt.Errorf("n2yo: invalid catalog number %d", cfg.NoradID)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		apiKey:   cfg.APIKey,
		noradID:  cfg.NoradID,
		observer: cfg.Observer,
		baseURL:  baseURL,
		hc:       &http.Client{Timeout: timeout},
	}, nil
}

// positionsResponse mirrors the N2YO positions payload. Only the fields
// the tracker consumes are decoded.
type positionsResponse struct {
	Info struct {
		SatName string `json:"satname"`
		SatID   int    `json:"satid"`
	} `json:"info"`
	Positions []struct {
		SatLatitude  float64 `json:"satlatitude"`
		SatLongitude float64 `json:"satlongitude"`
		SatAltitude  float64 `json:"sataltitude"`
		Azimuth      float64 `json:"azimuth"`
		Elevation    float64 `json:"elevation"`
		Timestamp    int64   `json:"timestamp"`
	} `json:"positions"`
}

// Fetch requests the satellite's position right now. Transport and
// decode failures come back as StatusError with the cause in Err; a
// well-formed response with no position records is StatusEmpty.
func (c *Client) Fetch(ctx context.Context) sat.Result {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(), nil)
	if err != nil {
		return sat.Result{Status: sat.StatusError, Err: fmt.Errorf("building request: %w", err)}
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return sat.Result{Status: sat.StatusError, Err: fmt.Errorf("requesting position: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return sat.Result{Status: sat.StatusError, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	var payload positionsResponse
	if err = json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return sat.Result{Status: sat.StatusError, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if len(payload.Positions) == 0 {
		return sat.Result{Status: sat.StatusEmpty}
	}

	p := payload.Positions[0]
	return sat.Result{
		Status: sat.StatusOK,
		Position: sat.Position{
			Latitude:  p.SatLatitude,
			Longitude: p.SatLongitude,
			Elevation: p.Elevation,
		},
	}
}

// url builds the positions request. N2YO documents the API key appended
// after the trailing path slash, not as a query string.
func (c *Client) url() string {
	return fmt.Sprintf("%s/positions/%d/%s/%s/%s/1/&apiKey=%s",
		c.baseURL,
		c.noradID,
		formatFloat(c.observer.Latitude),
		formatFloat(c.observer.Longitude),
		formatFloat(c.observer.Altitude),
		c.apiKey,
	)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
