package geocoding

import (
	"context"
	"errors"

	"github.com/UnknownOlympus/csv2kml/internal/models"
)

// Common errors shared by all providers.
var (
	// ErrNotFound is returned when the provider has no match for the name.
	ErrNotFound = errors.New("no geocoding result")
	// ErrEmptyName is returned when an empty place name is passed to a provider.
	ErrEmptyName = errors.New("place name is empty")
	// ErrInvalidCoords is returned when the provider answers with unusable coordinates.
	ErrInvalidCoords = errors.New("provider returned invalid coordinates")
)

// Provider is an interface that defines a method for geocoding a place name.
// The Geocode method takes a context and a free-text name as input,
// and returns the corresponding coordinates. A lookup miss is reported as ErrNotFound.
type Provider interface {
	Geocode(ctx context.Context, name string) (*models.Coordinates, error)
}
