package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Dataset  DatasetConfig  `mapstructure:"dataset"`
	Weather  WeatherConfig  `mapstructure:"weather"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort     int           `mapstructure:"http_port"`     // HTTP server port
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`  // Full-request read deadline
	WriteTimeout time.Duration `mapstructure:"write_timeout"` // Response write deadline
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// DatasetConfig points at the historical rental dataset the series is
// bootstrapped and the model fitted from.
type DatasetConfig struct {
	Path string `mapstructure:"path"` // CSV file with the historical rental records
}

// WeatherConfig represents the weather backfill source configuration
type WeatherConfig struct {
	APIKey         string        `mapstructure:"api_key"`         // Provider API key; empty disables network backfill
	BaseURL        string        `mapstructure:"base_url"`        // Provider base URL
	Location       string        `mapstructure:"location"`        // Query location (city name)
	CacheFile      string        `mapstructure:"cache_file"`      // Local weather cache CSV; empty disables the cache
	Timeout        time.Duration `mapstructure:"timeout"`         // Per-request HTTP timeout
	MaxRetries     int           `mapstructure:"max_retries"`     // Retry attempts per sub-request
	BackoffInitial time.Duration `mapstructure:"backoff_initial"` // Initial retry backoff
	BackoffMax     time.Duration `mapstructure:"backoff_max"`     // Backoff cap
}

// ForecastConfig represents model selection and tuning
type ForecastConfig struct {
	Model       string  `mapstructure:"model"`        // Registered model name: ridge, baseline
	RidgeLambda float64 `mapstructure:"ridge_lambda"` // L2 regularization strength for ridge
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, Kitchen
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("dataset config: %w", err)
	}

	if err := c.Weather.Validate(); err != nil {
		return fmt.Errorf("weather config: %w", err)
	}

	if err := c.Forecast.Validate(); err != nil {
		return fmt.Errorf("forecast config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}

	return nil
}

// Validate validates dataset configuration
func (c *DatasetConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("path is required")
	}

	return nil
}

// Validate validates weather configuration
func (c *WeatherConfig) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base_url is required")
	}

	if c.Location == "" {
		return fmt.Errorf("location is required")
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}

	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative")
	}

	if c.BackoffInitial <= 0 {
		return fmt.Errorf("backoff_initial must be positive")
	}

	return nil
}

// Validate validates forecast configuration
func (c *ForecastConfig) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}

	if c.RidgeLambda < 0 {
		return fmt.Errorf("ridge_lambda cannot be negative")
	}

	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
		"pretty":  true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be one of: json, console, pretty")
	}

	return nil
}
