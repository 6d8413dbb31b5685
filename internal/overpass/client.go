// Package overpass queries the Overpass API for public places near a coordinate.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/delocator/delocator/internal/models"
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// placeFilters is the fixed set of node filters used for discovery. It is a
// representative slice of the category taxonomy, not an exhaustive mirror of it.
var placeFilters = []string{
	"[amenity=restaurant]",
	"[amenity=cafe]",
	"[amenity=bank]",
	"[shop=supermarket]",
	"[amenity=pharmacy]",
}

// overpassResponse represents the JSON envelope returned by the Overpass API.
type overpassResponse struct {
	Elements []models.OverpassElement `json:"elements"`
}

// Client fetches raw point-of-interest records from the Overpass API.
type Client struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Overpass interpreter endpoint
	log     *slog.Logger // Logger for logging operations
}

// NewClient creates an Overpass client against the public interpreter endpoint.
func NewClient(log *slog.Logger) *Client {
	const timeout = 30
	return &Client{
		client: &http.Client{
			Timeout: timeout * time.Second,
		},
		baseURL: "https://overpass-api.de/api/interpreter",
		log:     log,
	}
}

// NewClientWithClient creates an Overpass client with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewClientWithClient(client HTTPClient, log *slog.Logger) *Client {
	return &Client{
		client:  client,
		baseURL: "https://overpass-api.de/api/interpreter",
		log:     log,
	}
}

// FindNearby returns the raw place records within radiusMeters of the given
// coordinate. A successful response with zero matches yields an empty slice,
// not an error; callers must distinguish "nothing nearby" from a transport
// failure.
func (c *Client) FindNearby(
	ctx context.Context,
	coords models.Coordinates,
	radiusMeters int,
) ([]models.OverpassElement, error) {
	query := buildQuery(coords, radiusMeters)
	c.log.DebugContext(ctx, "Querying Overpass API", "radius_m", radiusMeters,
		"lat", coords.Latitude, "lon", coords.Longitude)

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute overpass request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.log.ErrorContext(ctx, "Overpass API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("overpass API returned status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var decoded overpassResponse
	if err = json.Unmarshal(body, &decoded); err != nil {
		c.log.ErrorContext(ctx, "Failed to parse Overpass response", "error", err)
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	c.log.DebugContext(ctx, "Overpass query finished", "elements", len(decoded.Elements))

	return decoded.Elements, nil
}

// buildQuery composes an Overpass QL payload selecting nodes for each of the
// fixed place filters around the given coordinate.
func buildQuery(coords models.Coordinates, radiusMeters int) string {
	var sb strings.Builder
	sb.WriteString("[out:json][timeout:25];\n(\n")
	for _, filter := range placeFilters {
		fmt.Fprintf(&sb, "  node(around:%d,%f,%f)%s;\n",
			radiusMeters, coords.Latitude, coords.Longitude, filter)
	}
	sb.WriteString(");\nout body;")
	return sb.String()
}
