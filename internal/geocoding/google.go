package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/csv2kml/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider resolves place names through the Google Maps Geocoding API.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient is the subset of *maps.Client used by GoogleProvider.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider wraps an already configured Google Maps client.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Geocode returns the location of the first Google result for name.
// The maps client returns ZERO_RESULTS as an empty list, which is reported as ErrNotFound.
func (gp *GoogleProvider) Geocode(ctx context.Context, name string) (*models.Coordinates, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "name", name)

	req := maps.GeocodingRequest{Address: name}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode place: %w", err)
	}

	if len(geocodeResponse) == 0 {
		return nil, ErrNotFound
	}
	coords := geocodeResponse[0].Geometry.Location

	return &models.Coordinates{Longitude: coords.Lng, Latitude: coords.Lat}, nil
}
