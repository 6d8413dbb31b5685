package geocoding_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/delocator/delocator/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

// mockGoogleClient is a mock implementation of GoogleAPIClient for testing.
type mockGoogleClient struct {
	geocodeFunc func(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

func (m *mockGoogleClient) Geocode(
	ctx context.Context,
	r *maps.GeocodingRequest,
) ([]maps.GeocodingResult, error) {
	return m.geocodeFunc(ctx, r)
}

func TestGoogleProvider_Geocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful geocoding", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			geocodeFunc: func(_ context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				assert.Equal(t, "Via Roma 12, Trieste", r.Address)
				return []maps.GeocodingResult{
					{
						FormattedAddress: "Via Roma, 12, 34121 Trieste TS, Italy",
						Geometry: maps.AddressGeometry{
							Location: maps.LatLng{Lat: 45.6495, Lng: 13.7768},
						},
					},
				}, nil
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		location, err := provider.Geocode(ctx, "Via Roma 12, Trieste")

		require.NoError(t, err)
		require.NotNil(t, location)
		assert.Equal(t, "Via Roma, 12, 34121 Trieste TS, Italy", location.Address)
		assert.InEpsilon(t, 45.6495, location.Coordinates.Latitude, 0.0001)
		assert.InEpsilon(t, 13.7768, location.Coordinates.Longitude, 0.0001)
	})

	t.Run("empty response maps to not found", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			geocodeFunc: func(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, nil
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		location, err := provider.Geocode(ctx, "nowhere")

		require.Error(t, err)
		require.Nil(t, location)
		assert.ErrorIs(t, err, geocoding.ErrNotFound)
	})

	t.Run("client error is wrapped", func(t *testing.T) {
		mockClient := &mockGoogleClient{
			geocodeFunc: func(_ context.Context, _ *maps.GeocodingRequest) ([]maps.GeocodingResult, error) {
				return nil, errors.New("quota exceeded")
			},
		}

		provider := geocoding.NewGoogleProvider(mockClient, logger)
		location, err := provider.Geocode(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, location)
		assert.Contains(t, err.Error(), "failed to geocode address")
		assert.NotErrorIs(t, err, geocoding.ErrNotFound)
	})
}

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("creates nominatim provider without key", func(t *testing.T) {
		provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeNominatim,
			Logger: logger,
		})

		require.NoError(t, err)
		assert.IsType(t, &geocoding.NominatimProvider{}, provider)
	})

	t.Run("google provider requires an API key", func(t *testing.T) {
		_, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeGoogle,
			Logger: logger,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "API key is required")
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		_, err := geocoding.NewProvider(geocoding.ProviderConfig{
			Type:   "visicom",
			Logger: logger,
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported provider type")
	})
}
