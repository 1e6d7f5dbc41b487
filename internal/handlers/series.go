package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Coverage reports how far the stored series extends
// GET /api/v1/series/coverage
func (h *Handler) Coverage(c *fiber.Ctx) error {
	return c.JSON(h.prediction.Coverage())
}
