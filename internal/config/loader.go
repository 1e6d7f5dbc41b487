package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Default config locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")             // Current directory
		v.AddConfigPath("./configs")     // Project configs directory
		v.AddConfigPath("/etc/bikecast") // System-wide config
	}

	// Set defaults
	setDefaults(v)

	// Enable environment variable overrides (BIKECAST_WEATHER_API_KEY etc.)
	v.SetEnvPrefix("BIKECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")

	// Dataset defaults
	v.SetDefault("dataset.path", "./data/SeoulBikeData.csv")

	// Weather defaults
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.base_url", "https://api.worldweatheronline.com/premium/v1")
	v.SetDefault("weather.location", "Seoul")
	v.SetDefault("weather.cache_file", "./data/cache.csv")
	v.SetDefault("weather.timeout", "30s")
	v.SetDefault("weather.max_retries", 3)
	v.SetDefault("weather.backoff_initial", "500ms")
	v.SetDefault("weather.backoff_max", "5s")

	// Forecast defaults
	v.SetDefault("forecast.model", "ridge")
	v.SetDefault("forecast.ridge_lambda", 1.0)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output_path", "stdout")
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		// Return default configuration
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			HTTPPort:     8080,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Dataset: DatasetConfig{
			Path: "./data/SeoulBikeData.csv",
		},
		Weather: WeatherConfig{
			BaseURL:        "https://api.worldweatheronline.com/premium/v1",
			Location:       "Seoul",
			CacheFile:      "./data/cache.csv",
			Timeout:        30 * time.Second,
			MaxRetries:     3,
			BackoffInitial: 500 * time.Millisecond,
			BackoffMax:     5 * time.Second,
		},
		Forecast: ForecastConfig{
			Model:       "ridge",
			RidgeLambda: 1.0,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
	}
}
