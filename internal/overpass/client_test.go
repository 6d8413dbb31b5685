package overpass_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/delocator/delocator/internal/models"
	"github.com/delocator/delocator/internal/overpass"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func TestClient_FindNearby(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()
	coords := models.Coordinates{Latitude: 45.6495, Longitude: 13.7768}

	t.Run("sends the expected query and decodes elements", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "POST", req.Method)
				assert.Contains(t, req.URL.String(), "overpass-api.de/api/interpreter")

				require.NoError(t, req.ParseForm())
				query := req.PostForm.Get("data")
				assert.Contains(t, query, "[out:json]")
				assert.Contains(t, query, "node(around:500,45.649500,13.776800)[amenity=restaurant];")
				assert.Contains(t, query, "[amenity=cafe]")
				assert.Contains(t, query, "[amenity=bank]")
				assert.Contains(t, query, "[shop=supermarket]")
				assert.Contains(t, query, "[amenity=pharmacy]")

				responseBody := `{"elements":[
					{"id":1,"type":"node","lat":45.65,"lon":13.78,
					 "tags":{"amenity":"restaurant","addr:street":"Via Roma","addr:city":"Trieste"}},
					{"id":2,"type":"node","lat":45.64,"lon":13.77,
					 "tags":{"amenity":"cafe","name":"Caffè degli Specchi"}}
				]}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		client := overpass.NewClientWithClient(mockClient, logger)
		elements, err := client.FindNearby(ctx, coords, 500)

		require.NoError(t, err)
		require.Len(t, elements, 2)
		assert.Equal(t, int64(1), elements[0].ID)
		assert.Equal(t, "Via Roma", elements[0].Tags["addr:street"])
		assert.InEpsilon(t, 45.65, elements[0].Lat, 0.0001)
	})

	t.Run("zero matches yields an empty slice, not an error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`{"elements":[]}`)),
				}, nil
			},
		}

		client := overpass.NewClientWithClient(mockClient, logger)
		elements, err := client.FindNearby(ctx, coords, 500)

		require.NoError(t, err)
		assert.Empty(t, elements)
	})

	t.Run("non-2xx status is a transport error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusGatewayTimeout,
					Body:       io.NopCloser(bytes.NewBufferString("timeout")),
				}, nil
			},
		}

		client := overpass.NewClientWithClient(mockClient, logger)
		elements, err := client.FindNearby(ctx, coords, 500)

		require.Error(t, err)
		assert.Nil(t, elements)
		assert.Contains(t, err.Error(), "overpass API returned status 504")
	})

	t.Run("malformed payload is a transport error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`<html>busy</html>`)),
				}, nil
			},
		}

		client := overpass.NewClientWithClient(mockClient, logger)
		elements, err := client.FindNearby(ctx, coords, 500)

		require.Error(t, err)
		assert.Nil(t, elements)
		assert.Contains(t, err.Error(), "failed to decode overpass response")
	})
}
