package handlers

import (
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Forecast returns the 24 hourly rental predictions of a date
// GET /api/v1/forecast/:date
func (h *Handler) Forecast(c *fiber.Ctx) error {
	date, err := parseDate(c)
	if err != nil {
		return badDate(c)
	}

	result, err := h.prediction.Predict(c.Context(), &services.PredictRequest{Date: date})
	if err != nil {
		if svcErr, ok := err.(*services.ServiceError); ok {
			return respondServiceError(c, svcErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    services.CodeInternal,
				Message: err.Error(),
			},
		})
	}

	return c.JSON(result)
}
