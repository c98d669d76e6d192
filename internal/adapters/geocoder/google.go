package geocoder

import (
	"context"
	"fmt"
	"showcase-service/internal/contextkeys"
	"showcase-service/internal/core/domain"
	"showcase-service/internal/core/port"

	"googlemaps.github.io/maps"
)

// GoogleGeocoder - геокодер Google Maps Platform
type GoogleGeocoder struct {
	client   *maps.Client
	language string
}

// NewGoogleGeocoder - opts позволяют подменить адрес API (maps.WithBaseURL)
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("google maps api key is required")
	}
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create google maps client: %w", err)
	}
	return &GoogleGeocoder{client: client, language: "ru"}, nil
}

func (g *GoogleGeocoder) Search(ctx context.Context, query string, limit int) ([]domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "GoogleGeocoder", "method": "Search"})

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address:    query,
		Region:     "es",
		Language:   g.language,
		Components: map[maps.Component]string{maps.ComponentCountry: "ES"},
	})
	if err != nil {
		logger.Error("Google geocoding failed", err, nil)
		return nil, fmt.Errorf("google geocoding failed: %w", err)
	}

	out := make([]domain.GeocodeResult, 0, len(results))
	for _, r := range results {
		if len(out) == limit {
			break
		}
		out = append(out, fromGoogle(r))
	}
	return out, nil
}

func (g *GoogleGeocoder) Reverse(ctx context.Context, coords domain.Coordinates) (*domain.GeocodeResult, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "GoogleGeocoder", "method": "Reverse"})

	results, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: coords.Lat, Lng: coords.Lng},
		Language: g.language,
	})
	if err != nil {
		logger.Error("Google reverse geocoding failed", err, nil)
		return nil, fmt.Errorf("google reverse geocoding failed: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	r := fromGoogle(results[0])
	return &r, nil
}

func fromGoogle(r maps.GeocodingResult) domain.GeocodeResult {
	var route, number string
	details := domain.AddressDetails{}
	for _, c := range r.AddressComponents {
		for _, t := range c.Types {
			switch t {
			case "route":
				route = c.LongName
			case "street_number":
				number = c.LongName
			case "locality":
				details.City = c.LongName
			case "administrative_area_level_2":
				details.Region = c.LongName
			case "administrative_area_level_1":
				if details.Region == "" {
					details.Region = c.LongName
				}
			case "country":
				details.Country = c.LongName
			case "postal_code":
				details.PostalCode = c.LongName
			}
		}
	}
	details.Street = firstNonEmpty(joinNonEmpty(route, number), r.FormattedAddress)

	return domain.GeocodeResult{
		DisplayName: r.FormattedAddress,
		Coordinates: domain.Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
		Address:     details,
	}
}

func joinNonEmpty(a, b string) string {
	parts := nonEmpty(a, b)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	return parts[0] + " " + parts[1]
}
