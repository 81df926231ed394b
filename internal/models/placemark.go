package models

// Placemark is a named point feature written to the output document.
type Placemark struct {
	Name        string      // Name is the record title.
	Description string      // Description is an HTML fragment.
	Coordinates Coordinates // Coordinates is the resolved location.
}

// NewPlacemark creates a placemark for a resolved record.
func NewPlacemark(record Record, coords Coordinates) Placemark {
	return Placemark{
		Name:        record.Title,
		Description: record.Description(),
		Coordinates: coords,
	}
}
