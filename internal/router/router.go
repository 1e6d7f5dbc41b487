package router

import (
	"github.com/bikecast/bikecast/internal/config"
	"github.com/bikecast/bikecast/internal/handlers"
	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/middleware"
	"github.com/bikecast/bikecast/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, prediction *services.PredictionService, cfg config.Config, version string) *handlers.Handler {
	// Create handler instance
	h := handlers.New(logger, prediction, version)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	// API key authentication middleware
	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)

	// API v1 routes (protected by API key)
	v1 := app.Group("/api/v1", authMiddleware)

	// Forecast Routes
	v1.Get("/forecast/:date", h.Forecast)

	// Weather View Routes
	v1.Get("/weather/:date", h.Weather)

	// Series Routes
	v1.Get("/series/coverage", h.Coverage)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration
func New(logger *logging.Logger, prediction *services.PredictionService, cfg config.Config, version string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Bikecast API",
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	Setup(app, logger, prediction, cfg, version)

	return app
}
