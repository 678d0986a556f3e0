package handlers

import (
	"ids-dashboard/backend/services"

	"github.com/gofiber/fiber/v2"
)

// GetSource - current traffic source mode
func (h *Handler) GetSource(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"source": h.Arbiter.Get()})
}

// SetSource - switch the traffic source mode
func (h *Handler) SetSource(c *fiber.Ctx) error {
	var req struct {
		Mode string `json:"mode"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	mode, err := h.Arbiter.Set(services.SourceMode(req.Mode))
	if err != nil {
		return serviceError(c, err)
	}

	AddEvent("info", "Traffic source switched to "+string(mode))
	return c.JSON(fiber.Map{"source": mode})
}
