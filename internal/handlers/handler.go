package handlers

import (
	"time"

	"github.com/bikecast/bikecast/internal/logging"
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/services"
	"github.com/bikecast/bikecast/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// Handler contains all HTTP handlers
type Handler struct {
	logger     *logging.Logger
	prediction *services.PredictionService
	version    string
}

// New creates a new handler instance
func New(logger *logging.Logger, prediction *services.PredictionService, version string) *Handler {
	return &Handler{
		logger:     logger,
		prediction: prediction,
		version:    version,
	}
}

// dateParam is the :date path segment of date-scoped routes.
type dateParam struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// parseDate validates and parses the :date path parameter.
func parseDate(c *fiber.Ctx) (time.Time, error) {
	param := dateParam{Date: c.Params("date")}
	if err := validate.Struct(param); err != nil {
		return time.Time{}, err
	}
	return time.Parse(utils.DateFormat, param.Date)
}

// badDate responds with the 400 shared by all date-scoped routes.
func badDate(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    services.CodeValidation,
			Message: "date must be formatted as " + utils.DateFormat,
			Details: map[string]interface{}{"date": c.Params("date")},
		},
	})
}

// respondServiceError maps service error codes to HTTP statuses
func respondServiceError(c *fiber.Ctx, svcErr *services.ServiceError) error {
	status := fiber.StatusInternalServerError
	switch svcErr.Code {
	case services.CodeValidation, services.CodeRange:
		status = fiber.StatusBadRequest
	case services.CodeDateNotCovered:
		status = fiber.StatusNotFound
	case services.CodeInsufficientData:
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Details: svcErr.Details,
		},
	})
}
