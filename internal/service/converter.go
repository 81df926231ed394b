package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/UnknownOlympus/csv2kml/internal/geocoding"
	"github.com/UnknownOlympus/csv2kml/internal/metrics"
	"github.com/UnknownOlympus/csv2kml/internal/models"
	"github.com/UnknownOlympus/csv2kml/internal/placemark"
	"github.com/UnknownOlympus/csv2kml/internal/table"
)

// TableExtension is the suffix, matched case-insensitively, of files picked up by ConvertDirectory.
const TableExtension = ".csv"

// Stats counts the outcome of the rows of one or more input files.
type Stats struct {
	Rows       int // Rows read from the table, header excluded.
	Skipped    int // Skipped rows without a title.
	NotFound   int // NotFound rows the provider had no match for.
	Failed     int // Failed rows whose lookup returned an error.
	Placemarks int // Placemarks written to the output.
}

func (s *Stats) add(other Stats) {
	s.Rows += other.Rows
	s.Skipped += other.Skipped
	s.NotFound += other.NotFound
	s.Failed += other.Failed
	s.Placemarks += other.Placemarks
}

// BatchStats summarizes a directory run.
type BatchStats struct {
	Files     int   // Files matching TableExtension.
	Converted int   // Converted files with an output written.
	Failed    int   // Failed files that could not be read or written.
	Rows      Stats // Rows totals over all converted files.
}

// ConverterService turns location tables into placemark documents.
// It processes one row at a time; the provider is expected to carry its own rate limit.
type ConverterService struct {
	log          *slog.Logger       // Logger for progress and diagnostics
	provider     geocoding.Provider // Geocoding provider, shared across files
	providerName string             // Name of the provider for metrics labeling
	encoder      placemark.Encoder  // Output format
	metrics      *metrics.Metrics   // Metrics for tracking conversion results
	filePause    time.Duration      // Pause between two input files
}

// NewConverterService creates a new instance of ConverterService.
func NewConverterService(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	encoder placemark.Encoder,
	metrics *metrics.Metrics,
	filePause time.Duration,
) *ConverterService {
	return &ConverterService{
		log:          log,
		provider:     provider,
		providerName: providerName,
		encoder:      encoder,
		metrics:      metrics,
		filePause:    filePause,
	}
}

// ConvertDirectory converts every table file found directly in dir, in directory
// listing order, pausing between files. A file that cannot be converted is logged
// and counted, and the batch moves on; only listing the directory or a cancelled
// context stops it.
func (cs *ConverterService) ConvertDirectory(ctx context.Context, dir string) (BatchStats, error) {
	var stats BatchStats

	entries, err := os.ReadDir(dir)
	if err != nil {
		return stats, fmt.Errorf("failed to list directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), TableExtension) {
			continue
		}

		if stats.Files > 0 {
			if err = cs.pause(ctx); err != nil {
				return stats, err
			}
		}
		stats.Files++

		inputPath := filepath.Join(dir, entry.Name())
		outputPath := placemark.OutputPath(inputPath, cs.encoder.Extension())
		cs.log.InfoContext(ctx, "Processing file", "input", inputPath, "output", outputPath)

		fileStats, err := cs.ConvertFile(ctx, inputPath, outputPath)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			cs.log.ErrorContext(ctx, "Failed to convert file", "file", inputPath, "error", err)
			cs.metrics.FilesProcessed.WithLabelValues(metrics.FileFailure).Inc()
			stats.Failed++
			continue
		}

		cs.metrics.FilesProcessed.WithLabelValues(metrics.FileSuccess).Inc()
		stats.Converted++
		stats.Rows.add(fileStats)
	}

	return stats, nil
}

// ConvertFile reads the table at inputPath, geocodes every titled row and writes one
// placemark per resolved row to outputPath. Rows without a title and rows that cannot
// be resolved are logged and dropped. The output is written once, after the last row,
// and row metrics are only recorded once it is in place.
func (cs *ConverterService) ConvertFile(ctx context.Context, inputPath, outputPath string) (Stats, error) {
	var stats Stats

	reader, err := table.Open(inputPath)
	if err != nil {
		return stats, err
	}
	defer reader.Close()

	name := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	doc := placemark.NewDocument(name)

	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return stats, err
		}
		stats.Rows++

		record := models.NewRecord(row, row.Line)
		if !record.HasTitle() {
			cs.log.WarnContext(ctx, "Row has no title, skipped", "file", inputPath, "line", record.Line)
			stats.Skipped++
			continue
		}

		coords, err := cs.resolve(ctx, record.Title)
		switch {
		case err == nil:
		case ctx.Err() != nil:
			return stats, ctx.Err()
		case errors.Is(err, geocoding.ErrNotFound):
			cs.log.WarnContext(ctx, "No geocoding result", "title", record.Title, "file", inputPath, "line", record.Line)
			stats.NotFound++
			continue
		default:
			cs.log.WarnContext(ctx, "Failed to geocode",
				"title", record.Title, "file", inputPath, "line", record.Line, "error", err)
			stats.Failed++
			continue
		}

		doc.Add(models.NewPlacemark(record, *coords))
		cs.log.DebugContext(ctx, "Row geocoded", "title", record.Title,
			"lat", coords.Latitude, "lon", coords.Longitude)
	}

	if err = doc.Save(outputPath, cs.encoder); err != nil {
		return stats, err
	}
	stats.Placemarks = doc.Len()
	cs.recordRows(stats)

	cs.log.InfoContext(ctx, "Output file written", "file", outputPath, "placemarks", stats.Placemarks)

	return stats, nil
}

// recordRows adds the row outcomes of a converted file to the metrics, so they agree
// with the totals of BatchStats.
func (cs *ConverterService) recordRows(stats Stats) {
	cs.metrics.RowsProcessed.WithLabelValues(metrics.RowConverted).Add(float64(stats.Placemarks))
	cs.metrics.RowsProcessed.WithLabelValues(metrics.RowSkipped).Add(float64(stats.Skipped))
	cs.metrics.RowsProcessed.WithLabelValues(metrics.RowNotFound).Add(float64(stats.NotFound))
	cs.metrics.RowsProcessed.WithLabelValues(metrics.RowFailed).Add(float64(stats.Failed))
}

// resolve performs one lookup and records its duration. No retries are made.
func (cs *ConverterService) resolve(ctx context.Context, title string) (*models.Coordinates, error) {
	startTime := time.Now()
	coords, err := cs.provider.Geocode(ctx, title)
	cs.metrics.RequestSeconds.WithLabelValues(cs.providerName).Observe(time.Since(startTime).Seconds())

	if err != nil && !errors.Is(err, geocoding.ErrNotFound) {
		cs.metrics.APIErrors.Inc()
	}

	return coords, err
}

// pause waits filePause or until ctx is done.
func (cs *ConverterService) pause(ctx context.Context) error {
	if cs.filePause <= 0 {
		return nil
	}

	timer := time.NewTimer(cs.filePause)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
