package placemark

import (
	"fmt"
	"io"

	"github.com/UnknownOlympus/csv2kml/internal/models"
	"github.com/twpayne/go-kml/v3"
)

// KMLEncoder writes KML 2.2 documents.
type KMLEncoder struct{}

// Extension implements Encoder.
func (KMLEncoder) Extension() string {
	return ".kml"
}

// Encode writes one Placemark per entry, each with a single Point in lon,lat order.
func (KMLEncoder) Encode(w io.Writer, name string, placemarks []models.Placemark) error {
	children := make([]kml.Element, 0, len(placemarks)+1)
	if name != "" {
		children = append(children, kml.Name(name))
	}

	for _, pm := range placemarks {
		elements := []kml.Element{kml.Name(pm.Name)}
		if pm.Description != "" {
			elements = append(elements, kml.Description(pm.Description))
		}
		elements = append(elements, kml.Point(
			kml.Coordinates(kml.Coordinate{
				Lon: pm.Coordinates.Longitude,
				Lat: pm.Coordinates.Latitude,
			}),
		))
		children = append(children, kml.Placemark(elements...))
	}

	if err := kml.KML(kml.Document(children...)).WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write kml: %w", err)
	}

	return nil
}
