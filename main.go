package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ids-dashboard/backend/config"
	"ids-dashboard/backend/handlers"
	"ids-dashboard/backend/models"
	"ids-dashboard/backend/services"
	"ids-dashboard/backend/system"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	if err := system.InitLogger(cfg.LogDir); err != nil {
		log.Printf("Warning: Could not initialize file logger: %v", err)
	}
	defer system.Close()

	system.Info("IDS dashboard backend starting...")
	handlers.SetJWTSecret(cfg.JWTSecret)

	// Database (operator plane only: accounts, settings, upload catalog)
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		system.Error("Failed to connect to database: %v", err)
		log.Fatal("Failed to connect to database:", err)
	}
	system.Info("Database connected: %s", cfg.DBPath)

	// WAL mode avoids "database is locked" errors when catalog writes and
	// settings reads overlap.
	if err := db.Exec("PRAGMA journal_mode=WAL;").Error; err != nil {
		system.Warn("Failed to enable WAL mode: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Admin{},
		&models.ServerSettings{},
		&models.DatasetUpload{},
	); err != nil {
		system.Error("Database migration failed: %v", err)
		log.Fatalf("CRITICAL: Database migration failed. Application cannot start: %v", err)
	}

	settings := loadOrSeedSettings(db, cfg)

	// Core pipeline state: all in-memory, constructed once, passed by
	// reference into everything that needs it.
	gate := services.NewMonitoringGate()
	arbiter := services.NewSourceArbiter(settings.DefaultSource)
	stats := services.NewStatsAggregator()
	classifier := services.NewThresholdClassifier(cfg.FeaturesPath)
	pipeline := services.NewIngestionPipeline(gate, arbiter, classifier, stats)
	replay := services.NewReplayService(gate, arbiter, pipeline)

	webhook := services.NewWebhookService()
	webhook.SetWebhookURL(settings.DiscordWebhookURL)
	pipeline.SetWebhook(webhook, settings.AlertOnAttack)
	replay.SetWebhook(webhook)

	generator := services.NewTrafficGenerator(pipeline, classifier.FeatureNames(),
		time.Duration(settings.GeneratorIntervalMs)*time.Millisecond)
	generator.Start()

	// Prometheus metrics on a dedicated listener
	registry := prometheus.NewRegistry()
	registry.MustRegister(services.NewStatsCollector(stats, replay, gate))
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		addr := fmt.Sprintf(":%d", cfg.MetricsPort)
		system.Info("Metrics listening on %s", addr)
		if err := http.ListenAndServe(addr, mux); err != nil {
			system.Error("Metrics listener failed: %v", err)
		}
	}()

	h := handlers.NewHandler(db, gate, arbiter, stats, pipeline, replay, generator, webhook)
	handlers.SeedDefaultAdmin(h)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: false,
	})

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
		Output:     os.Stdout,
	}))

	app.Use(cors.New())

	app.Get("/", h.Health)

	api := app.Group("/api")

	// ===== Public Routes (No Auth Required) =====
	api.Post("/login", h.Login)

	// ===== Protected Routes (JWT Required) =====
	protected := api.Group("", handlers.JWTAuthMiddleware())

	// Auth
	protected.Put("/auth/password", h.ChangePassword)

	// Monitoring gate
	protected.Get("/monitor/start", h.StartMonitoring)
	protected.Get("/monitor/stop", h.StopMonitoring)
	protected.Get("/monitor/status", h.MonitoringStatus)

	// Traffic source
	protected.Get("/source", h.GetSource)
	protected.Put("/source", h.SetSource)

	// Live classification
	protected.Post("/predict", h.Predict)

	// Statistics & recent events
	protected.Get("/stats", h.GetStats)
	protected.Post("/stats/reset", h.ResetStats)
	protected.Get("/recent", h.GetRecent)
	protected.Get("/recent/alerts", h.GetRecentAlerts)

	// Dataset replay
	protected.Post("/replay", h.SubmitReplay)
	protected.Get("/replay/:id", h.GetReplayStatus)
	protected.Get("/datasets", h.GetDatasets)

	// Settings & operator events
	protected.Get("/settings", h.GetSettings)
	protected.Put("/settings", h.UpdateSettings)
	protected.Get("/events", h.GetEvents)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		system.Info("Gracefully shutting down...")

		generator.Stop()

		if webhook.IsEnabled() {
			webhook.SendSystemAlert("🛑 Server Stopping", "IDS dashboard backend is shutting down...", services.ColorOrange)
		}

		_ = app.Shutdown()
	}()

	go func() {
		time.Sleep(2 * time.Second)
		if webhook.IsEnabled() {
			webhook.SendSystemAlert("🚀 Server Started",
				fmt.Sprintf("IDS dashboard backend is running (%s)", time.Now().Format("2006-01-02 15:04:05")),
				services.ColorGreen)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	system.Info("Server starting on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatal(err)
	}
}

// loadOrSeedSettings fetches the ID=1 settings row, creating it from the
// environment configuration on first boot.
func loadOrSeedSettings(db *gorm.DB, cfg config.Config) models.ServerSettings {
	var settings models.ServerSettings
	if err := db.First(&settings, 1).Error; err == nil {
		return settings
	}

	settings = models.ServerSettings{
		ID:                  1,
		DefaultSource:       cfg.DefaultSource,
		GeneratorIntervalMs: cfg.GeneratorIntervalMs,
		AlertOnAttack:       true,
	}
	if err := db.Create(&settings).Error; err != nil {
		system.Warn("Could not seed server settings: %v", err)
	}
	return settings
}
