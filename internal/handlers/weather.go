package handlers

import (
	"github.com/bikecast/bikecast/internal/models"
	"github.com/bikecast/bikecast/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Weather returns the stored weather rows of a covered date
// GET /api/v1/weather/:date
func (h *Handler) Weather(c *fiber.Ctx) error {
	date, err := parseDate(c)
	if err != nil {
		return badDate(c)
	}

	result, err := h.prediction.WeatherByDate(date)
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
