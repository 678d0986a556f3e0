package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// StartMonitoring - open the monitoring gate
func (h *Handler) StartMonitoring(c *fiber.Ctx) error {
	status := h.Gate.Start()
	AddEvent("success", "Monitoring started")
	return c.JSON(fiber.Map{
		"status":     "ok",
		"monitoring": status.Running,
		"started_at": status.StartedAt,
		"message":    "Monitoring started",
	})
}

// StopMonitoring - close the monitoring gate. Any running replay job will
// observe this at its next record boundary and fail out.
func (h *Handler) StopMonitoring(c *fiber.Ctx) error {
	status := h.Gate.Stop()
	AddEvent("warning", "Monitoring stopped")
	return c.JSON(fiber.Map{
		"status":     "ok",
		"monitoring": status.Running,
		"stopped_at": status.StoppedAt,
		"message":    "Monitoring stopped",
	})
}

// MonitoringStatus - current gate state
func (h *Handler) MonitoringStatus(c *fiber.Ctx) error {
	return c.JSON(h.Gate.Status())
}
