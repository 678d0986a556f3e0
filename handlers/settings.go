package handlers

import (
	"time"

	"ids-dashboard/backend/models"
	"ids-dashboard/backend/system"

	"github.com/gofiber/fiber/v2"
)

// GetSettings - get the single-row server settings
func (h *Handler) GetSettings(c *fiber.Ctx) error {
	settings := h.loadSettings()
	return c.JSON(settings)
}

// UpdateSettings - update server settings and apply them to the running
// services (webhook URL, attack alerts, generator pace).
func (h *Handler) UpdateSettings(c *fiber.Ctx) error {
	var input struct {
		DefaultSource       string `json:"default_source"`
		GeneratorIntervalMs int    `json:"generator_interval_ms"`
		DiscordWebhookURL   string `json:"discord_webhook_url"`
		AlertOnAttack       bool   `json:"alert_on_attack"`
	}
	if err := c.BodyParser(&input); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid input"})
	}

	if input.GeneratorIntervalMs < 100 || input.GeneratorIntervalMs > 60000 {
		return c.Status(400).JSON(fiber.Map{"error": "generator_interval_ms must be between 100 and 60000"})
	}
	if input.DefaultSource != "live" && input.DefaultSource != "dataset" {
		return c.Status(400).JSON(fiber.Map{"error": "default_source must be \"live\" or \"dataset\", got \"" + input.DefaultSource + "\""})
	}

	settings := h.loadSettings()
	settings.DefaultSource = input.DefaultSource
	settings.GeneratorIntervalMs = input.GeneratorIntervalMs
	settings.DiscordWebhookURL = input.DiscordWebhookURL
	settings.AlertOnAttack = input.AlertOnAttack

	if err := h.DB.Save(&settings).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}

	// Apply immediately. DefaultSource only matters at next startup.
	h.Webhook.SetWebhookURL(settings.DiscordWebhookURL)
	h.Pipeline.SetWebhook(h.Webhook, settings.AlertOnAttack)
	h.Generator.SetInterval(time.Duration(settings.GeneratorIntervalMs) * time.Millisecond)

	system.Info("Server settings updated")
	AddEvent("info", "Server settings updated")
	return c.JSON(settings)
}

// loadSettings fetches the ID=1 row, creating defaults when missing.
func (h *Handler) loadSettings() models.ServerSettings {
	var settings models.ServerSettings
	if err := h.DB.First(&settings, 1).Error; err != nil {
		settings = models.ServerSettings{
			ID:                  1,
			DefaultSource:       "live",
			GeneratorIntervalMs: 1000,
			AlertOnAttack:       true,
		}
		h.DB.Create(&settings)
	}
	return settings
}
