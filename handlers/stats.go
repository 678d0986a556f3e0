package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetStats - aggregate prediction counters
func (h *Handler) GetStats(c *fiber.Ctx) error {
	return c.JSON(h.Stats.Snapshot())
}

// ResetStats - zero the counters and clear the recent ring
func (h *Handler) ResetStats(c *fiber.Ctx) error {
	h.Stats.Reset()
	AddEvent("info", "Statistics reset")
	return c.JSON(fiber.Map{"status": "ok", "message": "Statistics reset"})
}

// GetRecent - recent prediction events, newest first
func (h *Handler) GetRecent(c *fiber.Ctx) error {
	limit, ok := parseLimit(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "limit must be between 1 and 200, got " + c.Query("limit")})
	}
	return c.JSON(h.Stats.Recent(limit, false))
}

// GetRecentAlerts - recent non-benign events only. The filter runs before
// the limit, so a small alert count is not padded with benign rows.
func (h *Handler) GetRecentAlerts(c *fiber.Ctx) error {
	limit, ok := parseLimit(c)
	if !ok {
		return c.Status(400).JSON(fiber.Map{"error": "limit must be between 1 and 200, got " + c.Query("limit")})
	}
	return c.JSON(h.Stats.Recent(limit, true))
}

func parseLimit(c *fiber.Ctx) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return 50, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > 200 {
		return 0, false
	}
	return limit, true
}
