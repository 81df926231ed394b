package config

import (
	"time"

	"github.com/UnknownOlympus/csv2kml/internal/geocoding"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is prepended to every configuration key when read from the environment.
const envPrefix = "CSV2KML"

// Config holds the configuration settings for the converter.
//
// Fields:
// - Env: The current environment (local, development, production), selects the logger profile.
// - ProviderType: The geocoding provider to use (nominatim, google, visicom).
// - APIKey: The API key for providers that need one.
// - NominatimURL: The Nominatim search endpoint.
// - UserAgent: The identifying string sent to the geocoding service.
// - MinDelay: The minimum delay between two geocoding requests.
// - FilePause: The pause between two input files.
// - RequestTimeout: The HTTP timeout of a single geocoding request.
// - Format: The output format (kml, geojson).
// - MetricsFile: Where to dump Prometheus metrics after the run; empty disables it.
type Config struct {
	Env            string
	ProviderType   string
	APIKey         string
	NominatimURL   string
	UserAgent      string
	MinDelay       time.Duration
	FilePause      time.Duration
	RequestTimeout time.Duration
	Format         string
	MetricsFile    string
}

// MustLoad reads the configuration from the environment and an optional .env file.
// It panics when a duration cannot be parsed.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("env", "development")
	v.SetDefault("provider_type", "nominatim")
	v.SetDefault("provider_key", "")
	v.SetDefault("nominatim_url", geocoding.NominatimBaseURL)
	v.SetDefault("user_agent", geocoding.DefaultUserAgent)
	v.SetDefault("min_delay", geocoding.DefaultMinDelay.String())
	v.SetDefault("file_pause", "1s")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("format", "kml")
	v.SetDefault("metrics_file", "")

	minDelay, err := time.ParseDuration(v.GetString("min_delay"))
	if err != nil {
		panic("failed to parse minimum delay between requests from configuration")
	}

	filePause, err := time.ParseDuration(v.GetString("file_pause"))
	if err != nil {
		panic("failed to parse pause between files from configuration")
	}

	timeout, err := time.ParseDuration(v.GetString("request_timeout"))
	if err != nil {
		panic("failed to parse request timeout from configuration")
	}

	return &Config{
		Env:            v.GetString("env"),
		ProviderType:   v.GetString("provider_type"),
		APIKey:         v.GetString("provider_key"),
		NominatimURL:   v.GetString("nominatim_url"),
		UserAgent:      v.GetString("user_agent"),
		MinDelay:       minDelay,
		FilePause:      filePause,
		RequestTimeout: timeout,
		Format:         v.GetString("format"),
		MetricsFile:    v.GetString("metrics_file"),
	}
}
