package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

type GoogleGeocoder struct {
	client   *maps.Client
	language string
	region   string
}

func NewGoogleGeocoder(apiKey, language, region string) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return &GoogleGeocoder{
		client:   client,
		language: language,
		region:   region,
	}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	req := &maps.GeocodingRequest{
		Address:  address,
		Language: g.language,
		Region:   g.region,
	}

	resp, err := g.client.Geocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("no geocoding results for address")
	}

	return toResult(resp[0]), nil
}

func (g *GoogleGeocoder) ReverseGeocode(ctx context.Context, lat, lng float64) (*GeocodeResult, error) {
	req := &maps.GeocodingRequest{
		LatLng:   &maps.LatLng{Lat: lat, Lng: lng},
		Language: g.language,
	}

	resp, err := g.client.ReverseGeocode(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	if len(resp) == 0 {
		return nil, fmt.Errorf("no reverse geocoding results")
	}

	return toResult(resp[0]), nil
}

func toResult(r maps.GeocodingResult) *GeocodeResult {
	return &GeocodeResult{
		PlaceID:          r.PlaceID,
		FormattedAddress: r.FormattedAddress,
		Latitude:         r.Geometry.Location.Lat,
		Longitude:        r.Geometry.Location.Lng,
	}
}
