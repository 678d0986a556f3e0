package handlers

import (
	"errors"

	"ids-dashboard/backend/services"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type Handler struct {
	DB        *gorm.DB
	Gate      *services.MonitoringGate
	Arbiter   *services.SourceArbiter
	Stats     *services.StatsAggregator
	Pipeline  *services.IngestionPipeline
	Replay    *services.ReplayService
	Generator *services.TrafficGenerator
	Webhook   *services.WebhookService
}

func NewHandler(db *gorm.DB, gate *services.MonitoringGate, arbiter *services.SourceArbiter,
	stats *services.StatsAggregator, pipeline *services.IngestionPipeline,
	replay *services.ReplayService, generator *services.TrafficGenerator,
	webhook *services.WebhookService) *Handler {
	return &Handler{
		DB:        db,
		Gate:      gate,
		Arbiter:   arbiter,
		Stats:     stats,
		Pipeline:  pipeline,
		Replay:    replay,
		Generator: generator,
		Webhook:   webhook,
	}
}

// Health - liveness probe, mirrors the dashboard root endpoint
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "message": "IDS backend running"})
}

// serviceError maps a typed service error to its boundary status code.
// Plain errors become 500.
func serviceError(c *fiber.Ctx, err error) error {
	var se *services.ServiceError
	if errors.As(err, &se) {
		return c.Status(se.HTTPStatus()).JSON(fiber.Map{"error": se.Message})
	}
	return c.Status(500).JSON(fiber.Map{"error": err.Error()})
}
