package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "default config should be valid",
			config:  DefaultConfig(),
			wantErr: false,
		},
		{
			name: "invalid http port",
			config: &Config{
				Server:   ServerConfig{HTTPPort: 0},
				Dataset:  DefaultConfig().Dataset,
				Weather:  DefaultConfig().Weather,
				Forecast: DefaultConfig().Forecast,
				Logging:  DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "negative read timeout",
			config: &Config{
				Server:   ServerConfig{HTTPPort: 8080, ReadTimeout: -time.Second},
				Dataset:  DefaultConfig().Dataset,
				Weather:  DefaultConfig().Weather,
				Forecast: DefaultConfig().Forecast,
				Logging:  DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "missing dataset path",
			config: &Config{
				Server:   DefaultConfig().Server,
				Dataset:  DatasetConfig{Path: ""},
				Weather:  DefaultConfig().Weather,
				Forecast: DefaultConfig().Forecast,
				Logging:  DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "missing weather location",
			config: &Config{
				Server:  DefaultConfig().Server,
				Dataset: DefaultConfig().Dataset,
				Weather: WeatherConfig{
					BaseURL:        "https://example.com/v1",
					Location:       "",
					Timeout:        time.Second,
					BackoffInitial: time.Millisecond,
				},
				Forecast: DefaultConfig().Forecast,
				Logging:  DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "negative ridge lambda",
			config: &Config{
				Server:   DefaultConfig().Server,
				Dataset:  DefaultConfig().Dataset,
				Weather:  DefaultConfig().Weather,
				Forecast: ForecastConfig{Model: "ridge", RidgeLambda: -1},
				Logging:  DefaultConfig().Logging,
			},
			wantErr: true,
		},
		{
			name: "invalid logging level",
			config: &Config{
				Server:   DefaultConfig().Server,
				Dataset:  DefaultConfig().Dataset,
				Weather:  DefaultConfig().Weather,
				Forecast: DefaultConfig().Forecast,
				Logging: LoggingConfig{
					Level:  "invalid",
					Format: "json",
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected HTTPPort 8080, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Weather.Location != "Seoul" {
		t.Errorf("expected location Seoul, got %s", cfg.Weather.Location)
	}

	if cfg.Weather.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Weather.Timeout)
	}

	if cfg.Forecast.Model != "ridge" {
		t.Errorf("expected model ridge, got %s", cfg.Forecast.Model)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := []byte(`
server:
  http_port: 9090
weather:
  location: Busan
forecast:
  model: baseline
`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 9090 {
		t.Errorf("expected HTTPPort 9090, got %d", cfg.Server.HTTPPort)
	}

	if cfg.Weather.Location != "Busan" {
		t.Errorf("expected location Busan, got %s", cfg.Weather.Location)
	}

	// Unset values fall back to defaults
	if cfg.Weather.BaseURL == "" {
		t.Error("expected default base_url to be applied")
	}

	if cfg.Forecast.Model != "baseline" {
		t.Errorf("expected model baseline, got %s", cfg.Forecast.Model)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	// Point the search at an empty directory so no config file is found
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPPort != 8080 {
		t.Errorf("expected default HTTPPort 8080, got %d", cfg.Server.HTTPPort)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("BIKECAST_WEATHER_API_KEY", "test-key-from-env")

	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer func() { _ = os.Chdir(cwd) }()

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Weather.APIKey != "test-key-from-env" {
		t.Errorf("expected api_key from env, got %q", cfg.Weather.APIKey)
	}

	if !cfg.Weather.NetworkBackfillEnabled() {
		t.Error("expected network backfill to be enabled with api_key set")
	}
}

func TestAddress(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.HTTPPort = 8081

	if got := cfg.Address(); got != "127.0.0.1:8081" {
		t.Errorf("expected 127.0.0.1:8081, got %s", got)
	}
}
