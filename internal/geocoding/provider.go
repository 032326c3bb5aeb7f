package geocoding

import (
	"context"
	"net/http"

	"github.com/UnknownOlympus/cartograph/internal/models"
)

// Provider is an interface that defines the operations a geocoding backend exposes.
// Geocode resolves free-form address text into zero or more normalized addresses,
// ReverseGeocode resolves coordinates into addresses, and Name identifies the backend.
//
// A provider that does not support one of the operations returns ErrUnsupportedOperation.
type Provider interface {
	Geocode(ctx context.Context, query GeocodeQuery) ([]models.Address, error)
	ReverseGeocode(ctx context.Context, query ReverseQuery) ([]models.Address, error)
	Name() string
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeocodeQuery is a forward geocoding request.
type GeocodeQuery struct {
	Text  string // Text is the free-form address.
	Limit int    // Limit caps the number of returned matches, zero or less means no cap.
}

// ReverseQuery is a reverse geocoding request.
type ReverseQuery struct {
	Coordinates models.Coordinates
	Limit       int
}

// truncate applies a query limit to a list of matches.
func truncate(addresses []models.Address, limit int) []models.Address {
	if limit > 0 && len(addresses) > limit {
		return addresses[:limit]
	}

	return addresses
}
