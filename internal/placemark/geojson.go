package placemark

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/UnknownOlympus/csv2kml/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// GeoJSONEncoder writes RFC 7946 FeatureCollections of Point features.
type GeoJSONEncoder struct{}

// Extension implements Encoder.
func (GeoJSONEncoder) Extension() string {
	return ".geojson"
}

// Encode writes every placemark as a Point feature with name and description properties.
// The collection name is not part of GeoJSON and is ignored.
func (GeoJSONEncoder) Encode(w io.Writer, _ string, placemarks []models.Placemark) error {
	collection := geojson.FeatureCollection{
		Features: make([]*geojson.Feature, 0, len(placemarks)),
	}

	for _, pm := range placemarks {
		point := geom.NewPointFlat(geom.XY, []float64{pm.Coordinates.Longitude, pm.Coordinates.Latitude})
		properties := map[string]interface{}{"name": pm.Name}
		if pm.Description != "" {
			properties["description"] = pm.Description
		}
		collection.Features = append(collection.Features, &geojson.Feature{
			Geometry:   point,
			Properties: properties,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(&collection); err != nil {
		return fmt.Errorf("failed to write geojson: %w", err)
	}

	return nil
}
