package placemark_test

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/UnknownOlympus/csv2kml/internal/models"
	"github.com/UnknownOlympus/csv2kml/internal/placemark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kmlFile struct {
	XMLName  xml.Name `xml:"kml"`
	Document struct {
		Name       string `xml:"name"`
		Placemarks []struct {
			Name        string `xml:"name"`
			Description string `xml:"description"`
			Coordinates string `xml:"Point>coordinates"`
		} `xml:"Placemark"`
	} `xml:"Document"`
}

func samplePlacemarks() []models.Placemark {
	return []models.Placemark{
		models.NewPlacemark(
			models.Record{Title: "Eiffelturm", Note: "Abends & früh", URL: "https://example.org/?a=1&b=2"},
			models.Coordinates{Latitude: 48.85826, Longitude: 2.294501},
		),
		models.NewPlacemark(
			models.Record{Title: "Sydney Opera House"},
			models.Coordinates{Latitude: -33.856784, Longitude: 151.215297},
		),
	}
}

func parseLonLat(t *testing.T, raw string) (float64, float64) {
	t.Helper()

	parts := strings.Split(strings.TrimSpace(raw), ",")
	require.GreaterOrEqual(t, len(parts), 2)
	lon, err := strconv.ParseFloat(parts[0], 64)
	require.NoError(t, err)
	lat, err := strconv.ParseFloat(parts[1], 64)
	require.NoError(t, err)

	return lon, lat
}

func TestKMLEncoder_Encode(t *testing.T) {
	placemarks := samplePlacemarks()

	var buf bytes.Buffer
	err := placemark.KMLEncoder{}.Encode(&buf, "poi", placemarks)
	require.NoError(t, err)

	var parsed kmlFile
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "poi", parsed.Document.Name)
	require.Len(t, parsed.Document.Placemarks, len(placemarks))
	for idx, want := range placemarks {
		got := parsed.Document.Placemarks[idx]
		assert.Equal(t, want.Name, got.Name)
		assert.Equal(t, want.Description, got.Description)

		lon, lat := parseLonLat(t, got.Coordinates)
		assert.Equal(t, want.Coordinates.Longitude, lon)
		assert.Equal(t, want.Coordinates.Latitude, lat)
	}
}

func TestKMLEncoder_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, placemark.KMLEncoder{}.Encode(&first, "poi", samplePlacemarks()))
	require.NoError(t, placemark.KMLEncoder{}.Encode(&second, "poi", samplePlacemarks()))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

func TestKMLEncoder_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, placemark.KMLEncoder{}.Encode(&buf, "", nil))

	var parsed kmlFile
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &parsed))
	assert.Empty(t, parsed.Document.Placemarks)
}

func TestGeoJSONEncoder_Encode(t *testing.T) {
	placemarks := samplePlacemarks()

	var buf bytes.Buffer
	require.NoError(t, placemark.GeoJSONEncoder{}.Encode(&buf, "poi", placemarks))

	var parsed struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]string `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &parsed))

	assert.Equal(t, "FeatureCollection", parsed.Type)
	require.Len(t, parsed.Features, 2)
	assert.Equal(t, "Point", parsed.Features[0].Geometry.Type)
	assert.Equal(t, []float64{2.294501, 48.85826}, parsed.Features[0].Geometry.Coordinates)
	assert.Equal(t, "Eiffelturm", parsed.Features[0].Properties["name"])
	assert.Equal(t, placemarks[0].Description, parsed.Features[0].Properties["description"])
	_, hasDescription := parsed.Features[1].Properties["description"]
	assert.False(t, hasDescription)
}

func TestNewEncoder(t *testing.T) {
	enc, err := placemark.NewEncoder(placemark.FormatKML)
	require.NoError(t, err)
	assert.Equal(t, ".kml", enc.Extension())

	enc, err = placemark.NewEncoder(placemark.FormatGeoJSON)
	require.NoError(t, err)
	assert.Equal(t, ".geojson", enc.Extension())

	_, err = placemark.NewEncoder("gpx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format: gpx")
}

func TestDocument_Save(t *testing.T) {
	defer filet.CleanUp(t)
	dir := filet.TmpDir(t, "")

	t.Run("writes file in one step", func(t *testing.T) {
		doc := placemark.NewDocument("poi")
		for _, pm := range samplePlacemarks() {
			doc.Add(pm)
		}
		require.Equal(t, 2, doc.Len())
		assert.Equal(t, "Eiffelturm", doc.Placemarks()[0].Name)

		path := filepath.Join(dir, "poi.kml")
		require.NoError(t, doc.Save(path, placemark.KMLEncoder{}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var parsed kmlFile
		require.NoError(t, xml.Unmarshal(data, &parsed))
		assert.Len(t, parsed.Document.Placemarks, 2)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, entry := range entries {
			assert.NotContains(t, entry.Name(), ".tmp", "temporary file left behind")
		}
	})

	t.Run("overwrites existing output", func(t *testing.T) {
		path := filepath.Join(dir, "again.kml")
		filet.File(t, path, "stale")

		doc := placemark.NewDocument("again")
		require.NoError(t, doc.Save(path, placemark.KMLEncoder{}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "stale")
	})

	t.Run("missing directory", func(t *testing.T) {
		doc := placemark.NewDocument("poi")

		err := doc.Save(filepath.Join(dir, "missing", "poi.kml"), placemark.KMLEncoder{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create temporary file")
	})
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, "/data/poi.kml", placemark.OutputPath("/data/poi.csv", ".kml"))
	assert.Equal(t, "/data/POI.kml", placemark.OutputPath("/data/POI.CSV", ".kml"))
	assert.Equal(t, "trip.v2.geojson", placemark.OutputPath("trip.v2.csv", ".geojson"))
}
