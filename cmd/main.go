package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/UnknownOlympus/csv2kml/internal/config"
	"github.com/UnknownOlympus/csv2kml/internal/geocoding"
	"github.com/UnknownOlympus/csv2kml/internal/metrics"
	"github.com/UnknownOlympus/csv2kml/internal/placemark"
	"github.com/UnknownOlympus/csv2kml/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// errNotDirectory is returned when the target path exists but is not a directory.
var errNotDirectory = errors.New("is not a directory")

// main is the entry point of the application.
func main() {
	// Cancel the batch on Ctrl+C or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command line: one optional directory argument, no flags.
func newRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "csv2kml [directory]",
		Short: "Convert location tables into KML placemarks",
		Long: "Reads every .csv file in the directory (default: the current one) with the columns " +
			"Titel|Title, Notiz|Note, URL, Tags, Kommentar|Comment, geocodes each title and writes " +
			"a map document with the same base name next to it.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
}

// run validates the target, wires the pipeline and converts the directory.
func run(cmd *cobra.Command, args []string) error {
	target, err := targetDirectory(args)
	if err != nil {
		return err
	}

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env, cmd.OutOrStdout(), cmd.ErrOrStderr())
	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(reg)

	provider, err := geocoding.NewProvider(geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		BaseURL:   cfg.NominatimURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create geocoding provider: %w", err)
	}

	encoder, err := placemark.NewEncoder(cfg.Format)
	if err != nil {
		return err
	}

	logger.DebugContext(ctx, "Geocoding provider initialized",
		"type", cfg.ProviderType, "min_delay", cfg.MinDelay, "format", cfg.Format)

	// One limiter for the whole process, shared by every file.
	limited := geocoding.NewRateLimitedProvider(provider, cfg.MinDelay)

	converter := service.NewConverterService(logger, limited, cfg.ProviderType, encoder, appMetrics, cfg.FilePause)

	stats, err := converter.ConvertDirectory(ctx, target)
	if cfg.MetricsFile != "" {
		if errMetrics := metrics.WriteTextfile(cfg.MetricsFile, reg); errMetrics != nil {
			logger.ErrorContext(ctx, "Could not write metrics", "error", errMetrics)
		}
	}
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "Batch finished",
		"files", stats.Files,
		"converted", stats.Converted,
		"failed", stats.Failed,
		"placemarks", stats.Rows.Placemarks,
		"skipped", stats.Rows.Skipped,
		"not_found", stats.Rows.NotFound,
		"lookup_errors", stats.Rows.Failed,
	)

	return nil
}

// targetDirectory returns the directory to convert: the argument if given, the working directory otherwise.
func targetDirectory(args []string) (string, error) {
	if len(args) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		return wd, nil
	}

	info, err := os.Stat(args[0])
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("'%s' %w", args[0], errNotDirectory)
	}

	return args[0], nil
}

// setupLogger initializes and returns a logger based on the environment provided.
// Progress (debug, info) goes to out and diagnostics (warn, error) go to diag.
func setupLogger(env string, out, diag io.Writer) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true}
		log = slog.New(newSplitHandler(slog.NewTextHandler(out, opts), slog.NewTextHandler(diag, opts)))
	case envDev:
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		log = slog.New(newSplitHandler(slog.NewTextHandler(out, opts), slog.NewTextHandler(diag, opts)))
	case envProd:
		opts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}
		log = slog.New(newSplitHandler(slog.NewJSONHandler(out, opts), slog.NewJSONHandler(diag, opts)))
	default:
		opts := &slog.HandlerOptions{
			Level: slog.LevelError,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Key == slog.TimeKey {
					return slog.Attr{}
				}
				return a
			},
		}
		log = slog.New(newSplitHandler(slog.NewJSONHandler(out, opts), slog.NewJSONHandler(diag, opts)))

		log.Error(
			"The env parameter was not specified or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
