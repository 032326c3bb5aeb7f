package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/UnknownOlympus/cartograph/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleName identifies addresses produced by GoogleProvider.
const GoogleName = "google_maps"

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the part of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// googleAdminLevels maps component types to admin levels, in level order.
var googleAdminLevels = []string{
	"administrative_area_level_1",
	"administrative_area_level_2",
	"administrative_area_level_3",
	"administrative_area_level_4",
	"administrative_area_level_5",
}

// NewGoogleProvider initializes a new GoogleProvider with the given client and logger.
// Rate limiting, if any, is configured on the client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Name returns the provider identifier stored in every produced address.
func (gp *GoogleProvider) Name() string {
	return GoogleName
}

// Geocode takes a context and a query as input, and returns the addresses matching
// the query text using the Google Maps Geocoding API.
func (gp *GoogleProvider) Geocode(ctx context.Context, query GeocodeQuery) ([]models.Address, error) {
	if query.Text == "" {
		return nil, fmt.Errorf("%w: address cannot be empty", ErrInvalidInput)
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "address", query.Text)

	results, err := gp.client.Geocode(ctx, &maps.GeocodingRequest{Address: query.Text})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to geocode address: %w", ErrServerResponseInvalid, err)
	}

	return truncate(gp.mapResults(results), query.Limit), nil
}

// ReverseGeocode returns the addresses found at the query coordinates.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, query ReverseQuery) ([]models.Address, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps",
		"lat", query.Coordinates.Latitude, "lon", query.Coordinates.Longitude)

	results, err := gp.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: query.Coordinates.Latitude, Lng: query.Coordinates.Longitude},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reverse geocode coordinates: %w", ErrServerResponseInvalid, err)
	}

	return truncate(gp.mapResults(results), query.Limit), nil
}

func (gp *GoogleProvider) mapResults(results []maps.GeocodingResult) []models.Address {
	addresses := make([]models.Address, 0, len(results))
	for _, result := range results {
		addr := models.Address{
			ProvidedBy: gp.Name(),
			Coordinates: models.Coordinates{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
			StreetNumber: componentName(result.AddressComponents, "street_number", false),
			StreetName:   componentName(result.AddressComponents, "route", false),
			Locality:     componentName(result.AddressComponents, "locality", false),
			PostalCode:   componentName(result.AddressComponents, "postal_code", false),
			CountryCode:  componentName(result.AddressComponents, "country", true),
			AdminLevels:  []models.AdminLevel{},
		}

		if addr.Locality == nil {
			addr.Locality = componentName(result.AddressComponents, "postal_town", false)
		}

		for idx, kind := range googleAdminLevels {
			if name := componentName(result.AddressComponents, kind, false); name != nil {
				addr.AdminLevels = append(addr.AdminLevels, models.AdminLevel{Name: *name, Level: idx + 1})
			}
		}

		addresses = append(addresses, addr)
	}

	return addresses
}

// componentName returns the first component of the given type, nil when absent.
func componentName(components []maps.AddressComponent, kind string, short bool) *string {
	for _, component := range components {
		if !slices.Contains(component.Types, kind) {
			continue
		}
		if short {
			return models.OptionalString(component.ShortName)
		}

		return models.OptionalString(component.LongName)
	}

	return nil
}
