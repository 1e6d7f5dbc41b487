package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bikecast/bikecast/internal/config"
	"github.com/bikecast/bikecast/internal/dataset"
	"github.com/bikecast/bikecast/internal/features"
	"github.com/bikecast/bikecast/internal/forecast"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/regressor"
	"github.com/bikecast/bikecast/internal/router"
	"github.com/bikecast/bikecast/internal/services"
	"github.com/bikecast/bikecast/internal/timeseries"
	"github.com/bikecast/bikecast/internal/utils"
	"github.com/bikecast/bikecast/internal/weather"
	"github.com/joho/godotenv"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	// Load .env overrides if present
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("API service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create data directories", "error", err)
	}

	// Load the historical rental dataset and bootstrap the series
	logger.Info("Loading dataset", "path", cfg.Dataset.Path)
	records, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		logger.Fatal("Failed to load dataset", "error", err)
	}

	store, err := timeseries.Bootstrap(records)
	if err != nil {
		logger.Fatal("Failed to bootstrap series", "error", err)
	}
	logger.Info("Series bootstrapped",
		"records", store.Len(),
		"first", store.First().Format(time.RFC3339),
		"last_known", store.LastKnown().Format(time.RFC3339))

	// Build the regressor
	model, err := regressor.New(regressor.Config{
		Model:       cfg.Forecast.Model,
		Categorical: models.CategoricalColumns(),
		Lambda:      cfg.Forecast.RidgeLambda,
	})
	if err != nil {
		logger.Fatal("Failed to build model", "error", err)
	}

	// Weather backfill source, enabled only when an API key is configured
	var source forecast.WeatherSource
	if cfg.Weather.NetworkBackfillEnabled() {
		source = weather.NewClient(cfg.Weather, logger)
		logger.Info("Weather backfill enabled", "location", cfg.Weather.Location)
	} else {
		logger.Warn("Weather backfill DISABLED - predictions limited to cached coverage")
	}

	engine := forecast.NewEngine(forecast.Options{
		Store:     store,
		Deriver:   features.NewDeriver(),
		Model:     model,
		Source:    source,
		Location:  cfg.Weather.Location,
		CachePath: cfg.Weather.CacheFile,
		Logger:    logger,
	})

	prediction := services.NewPredictionService(logger, engine, store)

	// Train on everything stored before serving
	if err := prediction.Fit(); err != nil {
		logger.Fatal("Failed to fit model", "error", err)
	}

	// Log authentication status
	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	// Initialize router
	app := router.New(logger, prediction, *cfg, Version)

	// Start server in goroutine
	go func() {
		addr := cfg.Address()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
