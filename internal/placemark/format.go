package placemark

import "fmt"

// Supported output formats.
const (
	FormatKML     = "kml"
	FormatGeoJSON = "geojson"
)

// NewEncoder returns the encoder registered for format.
func NewEncoder(format string) (Encoder, error) {
	switch format {
	case FormatKML:
		return KMLEncoder{}, nil
	case FormatGeoJSON:
		return GeoJSONEncoder{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
