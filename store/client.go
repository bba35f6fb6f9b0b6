// Package store keeps the latest grid-weather sample set for the
// current viewport: debounced refreshes, bounded retry with backoff,
// and last-good fallback so the overlay never flickers to empty.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/swellmap/windlayer/field"
	"github.com/swellmap/windlayer/geo"
)

// Fetcher retrieves samples for a bounding box.
type Fetcher interface {
	Fetch(ctx context.Context, b geo.Bounds) ([]field.GridSample, error)
}

// Client implements Fetcher against the grid-weather HTTP collaborator.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a grid-weather client.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch requests samples for a bounding box. The collaborator may snap
// the bounds to a coarser query grid and may return fewer points than
// the box implies; both are fine, the interpolator degrades gracefully.
func (c *Client) Fetch(ctx context.Context, b geo.Bounds) ([]field.GridSample, error) {
	params := url.Values{
		"south": {fmt.Sprintf("%.4f", b.South)},
		"north": {fmt.Sprintf("%.4f", b.North)},
		"west":  {fmt.Sprintf("%.4f", b.West)},
		"east":  {fmt.Sprintf("%.4f", b.East)},
	}
	fullURL := c.baseURL + "/grid-weather?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("grid-weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("grid-weather API error: status %d: %s", resp.StatusCode, body)
	}

	var payload struct {
		Points []field.GridSample `json:"points"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Points, nil
}
