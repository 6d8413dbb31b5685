package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/delocator/delocator/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for the Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient abstracts the Google Maps client so it can be mocked in tests.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode takes a context and an address string as input, and returns the
// canonical formatted address and coordinates of the best match using the
// Google Maps Geocoding API. An empty response maps to ErrNotFound.
func (gp *GoogleProvider) Geocode(ctx context.Context, address string) (*models.Location, error) {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", address)

	req := maps.GeocodingRequest{Address: address}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode address: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrNotFound
	}

	best := geocodeResponse[0]

	return &models.Location{
		Address: best.FormattedAddress,
		Coordinates: models.Coordinates{
			Latitude:  best.Geometry.Location.Lat,
			Longitude: best.Geometry.Location.Lng,
		},
	}, nil
}
