package handlers

import (
	"math"

	"ids-dashboard/backend/services"

	"github.com/gofiber/fiber/v2"
)

// Predict - classify one flow record from the live feed. Rejected with 409
// while monitoring is stopped and 423 while a replay job owns the source.
func (h *Handler) Predict(c *fiber.Ctx) error {
	var payload services.FlowRecord
	if err := c.BodyParser(&payload); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	event, err := h.Pipeline.Ingest(services.SourceLive, payload)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{
		"label":             event.Label,
		"probability":       round4(event.Probability),
		"risk":              event.Risk,
		"attack_type":       event.AttackType,
		"received_features": len(payload),
	})
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
