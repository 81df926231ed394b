package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Row statuses.
const (
	RowConverted = "converted"
	RowSkipped   = "skipped"
	RowNotFound  = "not_found"
	RowFailed    = "failed"
)

// File statuses.
const (
	FileSuccess = "success"
	FileFailure = "failure"
)

type Metrics struct {
	RowsProcessed  *prometheus.CounterVec
	APIErrors      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	FilesProcessed *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		RowsProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "csv2kml_rows_processed_total",
			Help: "Total number of input rows processed, by outcome.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "csv2kml_geocoding_api_errors_total",
			Help: "Total number of errors received from the geocoding provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "csv2kml_geocoding_request_duration_seconds",
			Help:    "Duration of geocoding lookups, including rate limiting waits.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		FilesProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "csv2kml_files_processed_total",
			Help: "Total number of input files processed, by outcome.",
		}, []string{"status"}),
	}
}

// WriteTextfile dumps everything gathered by g to path in the Prometheus text format,
// for pickup by the node exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
