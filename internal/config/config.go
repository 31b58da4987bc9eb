// Package config loads and validates the phoneverify configuration file.
//
// Configuration lives in a small JSON file; every field has a sensible
// default so an empty or missing file still yields a usable Config. The
// access key can also come from the NUMVERIFY_API_KEY environment
// variable, which takes precedence over the file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

// EnvAPIKey is the environment variable that overrides the api_key field.
const EnvAPIKey = "NUMVERIFY_API_KEY"

// Default values applied before the file is read.
const (
	DefaultTimeout         = 5
	DefaultRetryCount      = 3
	DefaultRetryDelay      = 2
	DefaultCacheSize       = 100
	DefaultConnectionLimit = 100
	DefaultOutputFile      = "validation_results.txt"
	DefaultLogLevel        = "INFO"
)

// Config holds every tunable of the validation pipeline. Durations are
// expressed in whole seconds to keep the JSON file simple; use Timeout
// and RetryDelay for the time.Duration views.
type Config struct {
	// APIKey authenticates against the numverify API. Required.
	APIKey string `json:"api_key"`

	// BaseURL overrides the numverify endpoint. Empty means the
	// production endpoint.
	BaseURL string `json:"base_url"`

	// TimeoutSeconds bounds each validation request.
	TimeoutSeconds int `json:"timeout"`

	// RetryCount is the total number of attempts per identifier.
	RetryCount int `json:"retry_count"`

	// RetryDelaySeconds is the base backoff delay; it doubles on each
	// subsequent attempt.
	RetryDelaySeconds int `json:"retry_delay"`

	// CacheSize bounds the in-memory decision cache.
	CacheSize int `json:"cache_size"`

	// ConnectionLimit caps concurrent connections to the API host.
	ConnectionLimit int `json:"connection_limit"`

	// OutputFile receives the batch results, truncated per run.
	OutputFile string `json:"output_file"`

	// LogFile receives structured logs when set; empty logs to stderr.
	LogFile string `json:"log_file"`

	// LogLevel is one of DEBUG, INFO, WARN, ERROR (case-insensitive).
	LogLevel string `json:"log_level"`
}

// Default returns a Config with every field at its documented default.
// The API key is intentionally empty; Load fills it from the file or
// the environment.
func Default() *Config {
	return &Config{
		TimeoutSeconds:    DefaultTimeout,
		RetryCount:        DefaultRetryCount,
		RetryDelaySeconds: DefaultRetryDelay,
		CacheSize:         DefaultCacheSize,
		ConnectionLimit:   DefaultConnectionLimit,
		OutputFile:        DefaultOutputFile,
		LogLevel:          DefaultLogLevel,
	}
}

// Load reads the JSON file at path, layering it over the defaults and
// applying the NUMVERIFY_API_KEY override. A missing file is not an
// error: the defaults plus the environment must then supply everything,
// which lets CI runs work without a config file on disk.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults plus environment only.
	case err != nil:
		return nil, fmt.Errorf("reading config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every field is usable. It is called by Load and
// may be called directly on hand-built configs.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("config: api_key is required (set it in the file or %s)", EnvAPIKey)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("config: timeout must be positive, got %d", c.TimeoutSeconds)
	}
	if c.RetryCount < 1 {
		return fmt.Errorf("config: retry_count must be at least 1, got %d", c.RetryCount)
	}
	if c.RetryDelaySeconds < 0 {
		return fmt.Errorf("config: retry_delay must not be negative, got %d", c.RetryDelaySeconds)
	}
	if c.CacheSize < 1 {
		return fmt.Errorf("config: cache_size must be at least 1, got %d", c.CacheSize)
	}
	if c.ConnectionLimit < 1 {
		return fmt.Errorf("config: connection_limit must be at least 1, got %d", c.ConnectionLimit)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Timeout returns the per-request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the base backoff delay as a duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// SlogLevel maps the configured log level onto slog's levels. Call
// Validate first; unknown levels fall back to Info here.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(s) {
	case "", "INFO":
		return slog.LevelInfo, nil
	case "DEBUG":
		return slog.LevelDebug, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log_level %q", s)
	}
}
