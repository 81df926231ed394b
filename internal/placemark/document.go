// Package placemark collects resolved locations and writes them as map markup.
package placemark

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/UnknownOlympus/csv2kml/internal/models"
)

// Encoder serializes placemarks into a concrete markup format.
type Encoder interface {
	// Encode writes a document called name holding placemarks to w.
	Encode(w io.Writer, name string, placemarks []models.Placemark) error
	// Extension is the file extension of the format, including the dot.
	Extension() string
}

// Document is the ordered set of placemarks produced from one input file.
type Document struct {
	name       string
	placemarks []models.Placemark
}

// NewDocument returns an empty document.
func NewDocument(name string) *Document {
	return &Document{name: name}
}

// Add appends a placemark. Input order is preserved.
func (d *Document) Add(pm models.Placemark) {
	d.placemarks = append(d.placemarks, pm)
}

// Len returns the number of placemarks.
func (d *Document) Len() int {
	return len(d.placemarks)
}

// Placemarks returns the placemarks in insertion order.
func (d *Document) Placemarks() []models.Placemark {
	return d.placemarks
}

// Save encodes the document and replaces path with the result in a single step.
// The output is first written to a temporary file next to path, so readers never
// observe a partially written document.
func (d *Document) Save(path string, enc Encoder) error {
	const filePerm = 0o644

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if err = enc.Encode(tmp, d.name, d.placemarks); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to encode document: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err = os.Chmod(tmpName, filePerm); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to move document into place: %w", err)
	}

	return nil
}

// OutputPath replaces the extension of inputPath with ext.
func OutputPath(inputPath, ext string) string {
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ext
}
