package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDirectories creates the directories the service writes into
// (currently only the weather cache file's parent).
func (c *Config) EnsureDirectories() error {
	if c.Weather.CacheFile == "" {
		return nil
	}

	dir := filepath.Dir(c.Weather.CacheFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return nil
}

// Address returns the HTTP listen address
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// NetworkBackfillEnabled reports whether a weather API key is configured.
// Without a key the engine can still serve known dates and cache-covered
// predictions.
func (c *WeatherConfig) NetworkBackfillEnabled() bool {
	return c.APIKey != ""
}
