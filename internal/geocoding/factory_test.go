package geocoding_test

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/UnknownOlympus/cartograph/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

func TestNewProvider(t *testing.T) {
	logger := slog.Default()

	t.Run("create ArcGIS provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:          geocoding.ProviderTypeArcGISList,
			Token:         "test-token",
			SourceCountry: "USA",
			Logger:        logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		_, ok := provider.(*geocoding.ArcGISListProvider)
		assert.True(t, ok, "expected provider to be *ArcGISListProvider")
		assert.Equal(t, "arcgis_list", provider.Name())
	})

	t.Run("create ArcGIS provider with injected client", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, "USA", req.URL.Query().Get("sourceCountry"))
				return jsonResponder(http.StatusOK, `{"locations":[]}`)(req)
			},
		}
		config := geocoding.ProviderConfig{
			Type:          geocoding.ProviderTypeArcGISList,
			Token:         "test-token",
			SourceCountry: "USA",
			HTTPClient:    mockClient,
			Logger:        logger,
		}

		provider, err := geocoding.NewProvider(config)
		require.NoError(t, err)

		_, err = provider.Geocode(t.Context(), geocoding.GeocodeQuery{Text: "Main St"})

		require.NoError(t, err)
		assert.Equal(t, int32(1), mockClient.calls.Load())
	})

	t.Run("create ArcGIS provider without token fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderTypeArcGISList,
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "token is required for ArcGIS provider")
	})

	t.Run("create Google provider successfully", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypeGoogle,
			APIKey: "test-api-key",
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.NoError(t, err)
		require.NotNil(t, provider)
		// Verify it's a GoogleProvider by type assertion
		_, ok := provider.(*geocoding.GoogleProvider)
		assert.True(t, ok, "expected provider to be *GoogleProvider")
	})

	t.Run("create Google provider without API key fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:      geocoding.ProviderTypeGoogle,
			APIKey: "", // Empty API key
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "API key is required for Google provider")
	})

	t.Run("create Google provider leaves throttling to the caller", func(t *testing.T) {
		var calls atomic.Int32
		transport := roundTripFunc(func(req *http.Request) (*http.Response, error) {
			calls.Add(1)
			return &http.Response{
				StatusCode: http.StatusOK,
				Header:     http.Header{"Content-Type": []string{"application/json"}},
				Body:       io.NopCloser(strings.NewReader(`{"status":"ZERO_RESULTS","results":[]}`)),
				Request:    req,
			}, nil
		})
		config := geocoding.ProviderConfig{
			Type:       geocoding.ProviderTypeGoogle,
			APIKey:     "test-api-key",
			HTTPClient: &http.Client{Transport: transport},
			Logger:     logger,
		}

		provider, err := geocoding.NewProvider(config)
		require.NoError(t, err)

		// The maps client would allow a burst of 50 and then 50 per second.
		const requests = 150
		start := time.Now()
		for range requests {
			addresses, err := provider.Geocode(t.Context(), geocoding.GeocodeQuery{Text: "Main St"})
			require.NoError(t, err)
			assert.Empty(t, addresses)
		}

		assert.Equal(t, int32(requests), calls.Load())
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("create Google provider with unsupported transport fails", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:       geocoding.ProviderTypeGoogle,
			APIKey:     "test-api-key",
			HTTPClient: &mockHTTPClient{},
			Logger:     logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		assert.Nil(t, provider)
	})

	t.Run("unsupported provider type", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderType("unsupported"),
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type: unsupported")
	})

	t.Run("empty provider type", func(t *testing.T) {
		config := geocoding.ProviderConfig{
			Type:   geocoding.ProviderType(""),
			Logger: logger,
		}

		provider, err := geocoding.NewProvider(config)

		require.Error(t, err)
		require.Nil(t, provider)
		assert.Contains(t, err.Error(), "unsupported provider type")
	})
}

func TestProviderType_Constants(t *testing.T) {
	// Verify that provider type constants are correctly defined
	assert.Equal(t, "arcgis_list", string(geocoding.ProviderTypeArcGISList))
	assert.Equal(t, "google", string(geocoding.ProviderTypeGoogle))
}
