package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeArcGISList represents the ArcGIS World Geocoding Service (geocodeAddresses).
	ProviderTypeArcGISList ProviderType = "arcgis_list"
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
)

// defaultHTTPTimeout bounds requests when the configuration leaves the timeout unset.
const defaultHTTPTimeout = 10 * time.Second

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type          ProviderType  // Type of provider to create
	Token         string        // Authentication token (used by ArcGIS provider)
	SourceCountry string        // Country bias (used by ArcGIS provider), optional
	APIKey        string        // API key (used by Google provider)
	HTTPTimeout   time.Duration // Timeout of the HTTP transport
	HTTPClient    HTTPClient    // Transport override, a default client is built when nil (Google accepts *http.Client only)
	Logger        *slog.Logger  // Logger for the provider
}

// NewProvider creates a geocoding provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from business logic.
//
// Supported provider types:
// - "arcgis_list": ArcGIS World Geocoding Service (requires a token)
// - "google": Google Maps Geocoding API (requires API key)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	switch config.Type {
	case ProviderTypeArcGISList:
		return newArcGISListProvider(config)
	case ProviderTypeGoogle:
		return newGoogleProvider(config)
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

// newArcGISListProvider creates an ArcGIS geocodeAddresses provider.
func newArcGISListProvider(config ProviderConfig) (Provider, error) {
	if config.Token == "" {
		return nil, errors.New("token is required for ArcGIS provider")
	}

	client := config.HTTPClient
	if client == nil {
		timeout := config.HTTPTimeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	return NewArcGISListProvider(client, config.Token, config.SourceCountry, config.Logger), nil
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	// Requests are throttled by the caller, so the client's built-in limit is disabled.
	clientOpts := []maps.ClientOption{
		maps.WithAPIKey(config.APIKey),
		maps.WithRateLimit(0),
	}

	switch client := config.HTTPClient.(type) {
	case *http.Client:
		clientOpts = append(clientOpts, maps.WithHTTPClient(client))
	case nil:
		if config.HTTPTimeout > 0 {
			clientOpts = append(clientOpts, maps.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout}))
		}
	default:
		return nil, errors.New("google provider requires an *http.Client transport")
	}

	client, err := maps.NewClient(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Logger), nil
}
