package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"github.com/UnknownOlympus/cartograph/internal/models"
)

// ArcGISListEndpoint is the geocodeAddresses operation of the ArcGIS World Geocoding Service.
// The two verbs are the authentication token and the address text.
const ArcGISListEndpoint = "https://geocode.arcgis.com/arcgis/rest/services/World/GeocodeServer/geocodeAddresses?token=%s&addresses=%s"

// ArcGISListName identifies addresses produced by ArcGISListProvider.
const ArcGISListName = "arcgis_list"

// ArcGISListProvider implements geocoding against the ArcGIS geocodeAddresses endpoint.
// It sends one address per call and never retries; it is safe for concurrent use.
type ArcGISListProvider struct {
	client        HTTPClient   // HTTP client for making requests
	endpoint      string       // URL template, see ArcGISListEndpoint
	token         string       // Token paying for service credits
	sourceCountry string       // Country bias, empty when not configured
	log           *slog.Logger // Logger for logging operations
}

// arcgisResponse is the subset of the geocodeAddresses reply the provider reads.
type arcgisResponse struct {
	Locations []arcgisLocation `json:"locations"`
}

type arcgisLocation struct {
	Feature *struct {
		Geometry *struct {
			X float64 `json:"x"` // longitude
			Y float64 `json:"y"` // latitude
		} `json:"geometry"`
		Attributes arcgisAttributes `json:"attributes"`
	} `json:"feature"`
}

type arcgisAttributes struct {
	StAddr    string `json:"StAddr"`
	AddNum    string `json:"AddNum"`
	City      string `json:"City"`
	Postal    string `json:"Postal"`
	Country   string `json:"Country"`
	Region    string `json:"Region"`
	Subregion string `json:"Subregion"`
}

// adminLevels walks the region attributes in their fixed order, index+1 being the level.
func (a arcgisAttributes) adminLevels() []models.AdminLevel {
	levels := []models.AdminLevel{}
	for idx, name := range []string{a.Region, a.Subregion} {
		if name != "" {
			levels = append(levels, models.AdminLevel{Name: name, Level: idx + 1})
		}
	}

	return levels
}

// NewArcGISListProvider creates an ArcGIS provider sending requests through client.
// sourceCountry may be empty to disable country biasing.
func NewArcGISListProvider(client HTTPClient, token, sourceCountry string, log *slog.Logger) *ArcGISListProvider {
	return &ArcGISListProvider{
		client:        client,
		endpoint:      ArcGISListEndpoint,
		token:         token,
		sourceCountry: sourceCountry,
		log:           log,
	}
}

// Name returns the provider identifier stored in every produced address.
func (ap *ArcGISListProvider) Name() string {
	return ArcGISListName
}

// ReverseGeocode is not offered by the geocodeAddresses endpoint.
func (ap *ArcGISListProvider) ReverseGeocode(_ context.Context, _ ReverseQuery) ([]models.Address, error) {
	return nil, fmt.Errorf("%w: the %s provider does not support reverse geocoding", ErrUnsupportedOperation, ArcGISListName)
}

// Geocode resolves a street address into normalized addresses, in the order ArcGIS returns them.
// No matches is not an error: an empty slice is returned.
func (ap *ArcGISListProvider) Geocode(ctx context.Context, query GeocodeQuery) ([]models.Address, error) {
	// Save a billed request if nothing can match.
	if query.Text == "" {
		return nil, fmt.Errorf("%w: address cannot be empty", ErrInvalidInput)
	}

	if net.ParseIP(query.Text) != nil {
		return nil, fmt.Errorf(
			"%w: the %s provider resolves street addresses only, not IP addresses",
			ErrUnsupportedOperation, ArcGISListName,
		)
	}

	reqURL := ap.buildURL(query.Text)

	ap.log.DebugContext(ctx, "ArcGIS request URL", "url", redactURL(reqURL))

	result, err := ap.execute(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	if len(result.Locations) == 0 {
		ap.log.DebugContext(ctx, "ArcGIS returned no locations", "address", query.Text)
		return []models.Address{}, nil
	}

	addresses := make([]models.Address, 0, len(result.Locations))
	for _, location := range result.Locations {
		if location.Feature == nil || location.Feature.Geometry == nil {
			return nil, newServerResponseError(reqURL, errors.New("location without geometry"))
		}

		attrs := location.Feature.Attributes
		addresses = append(addresses, models.Address{
			ProvidedBy: ap.Name(),
			Coordinates: models.Coordinates{
				Latitude:  location.Feature.Geometry.Y,
				Longitude: location.Feature.Geometry.X,
			},
			StreetNumber: models.OptionalString(attrs.AddNum),
			StreetName:   models.OptionalString(attrs.StAddr),
			Locality:     models.OptionalString(attrs.City),
			PostalCode:   models.OptionalString(attrs.Postal),
			CountryCode:  models.OptionalString(attrs.Country),
			AdminLevels:  attrs.adminLevels(),
		})
	}

	ap.log.InfoContext(ctx, "ArcGIS found results", "address", query.Text, "matches", len(addresses))

	return truncate(addresses, query.Limit), nil
}

// buildURL fills the endpoint template and appends the optional bias and the response format.
func (ap *ArcGISListProvider) buildURL(address string) string {
	reqURL := fmt.Sprintf(ap.endpoint, url.QueryEscape(ap.token), url.QueryEscape(address))

	if ap.sourceCountry != "" {
		reqURL = fmt.Sprintf("%s&sourceCountry=%s", reqURL, url.QueryEscape(ap.sourceCountry))
	}

	return reqURL + "&f=json"
}

// execute performs the GET request and decodes the reply.
// Every failure is reported as a ServerResponseError.
func (ap *ArcGISListProvider) execute(ctx context.Context, reqURL string) (*arcgisResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, newServerResponseError(reqURL, fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Accept", "application/json")

	resp, err := ap.client.Do(req)
	if err != nil {
		return nil, newServerResponseError(reqURL, fmt.Errorf("failed to execute geocoding request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newServerResponseError(reqURL, fmt.Errorf("failed to read response body: %w", err))
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		ap.log.ErrorContext(ctx, "ArcGIS API error", "status", resp.StatusCode)
		return nil, newServerResponseError(reqURL, fmt.Errorf("arcgis API returned status %d", resp.StatusCode))
	}

	var result *arcgisResponse
	if err = json.Unmarshal(body, &result); err != nil {
		return nil, newServerResponseError(reqURL, fmt.Errorf("failed to decode arcgis response: %w", err))
	}

	if result == nil {
		return nil, newServerResponseError(reqURL, errors.New("empty arcgis response"))
	}

	return result, nil
}
