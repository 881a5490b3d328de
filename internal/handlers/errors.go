package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/sira-labs/voice-assessment/internal/models"
)

// respondError maps the domain error classes onto HTTP status codes.
// Adapter failures never reach here; they are absorbed inside the
// orchestrator.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, models.ErrSessionNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		status = fiber.StatusConflict
	case errors.Is(err, models.ErrReportGeneration):
		status = fiber.StatusBadGateway
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
