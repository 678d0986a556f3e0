package handlers

import (
	"io"
	"strconv"
	"time"

	"ids-dashboard/backend/models"
	"ids-dashboard/backend/services"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultMaxRows = 1000
	maxRowsCeiling = 50000
	maxSleepMs     = 1000
)

// SubmitReplay - upload a dataset and start a background replay job.
//
// Upload problems (bad extension, malformed content) come back as a
// success-shaped envelope with status "error": the upload endpoint reports,
// it does not abort the connection.
func (h *Handler) SubmitReplay(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Missing dataset file"})
	}

	maxRows := defaultMaxRows
	if raw := c.FormValue("max_rows"); raw != "" {
		maxRows, err = strconv.Atoi(raw)
		if err != nil || maxRows < 1 || maxRows > maxRowsCeiling {
			return c.Status(400).JSON(fiber.Map{"error": "max_rows must be between 1 and 50000, got " + raw})
		}
	}

	sleepMs := 0
	if raw := c.FormValue("sleep_ms"); raw != "" {
		sleepMs, err = strconv.Atoi(raw)
		if err != nil || sleepMs < 0 || sleepMs > maxSleepMs {
			return c.Status(400).JSON(fiber.Map{"error": "sleep_ms must be between 0 and 1000, got " + raw})
		}
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not open upload: " + err.Error()})
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "Could not read upload: " + err.Error()})
	}

	records, err := services.LoadTable(content, fileHeader.Filename)
	if err != nil {
		return c.JSON(fiber.Map{"status": "error", "message": "Failed to process dataset: " + err.Error()})
	}
	if len(records) == 0 {
		return c.JSON(fiber.Map{"status": "error", "message": "Dataset contains no rows"})
	}

	job, err := h.Replay.Submit(records, fileHeader.Filename, maxRows, time.Duration(sleepMs)*time.Millisecond)
	if err != nil {
		return serviceError(c, err)
	}

	columns := len(records[0])
	upload := models.DatasetUpload{
		Filename:   fileHeader.Filename,
		Rows:       len(records),
		Columns:    columns,
		MaxRows:    maxRows,
		JobID:      job.ID,
		UploadedAt: time.Now(),
	}
	if err := h.DB.Create(&upload).Error; err != nil {
		// Catalog write failure must not fail the replay itself.
		AddEvent("warning", "Could not record dataset upload: "+err.Error())
	}

	AddEvent("info", "Dataset replay started: "+fileHeader.Filename)
	return c.JSON(fiber.Map{
		"status":  "ok",
		"job_id":  job.ID,
		"rows":    len(records),
		"cols":    columns,
		"message": "Dataset accepted, replay job " + job.ID + " queued",
	})
}

// GetReplayStatus - poll one replay job by id
func (h *Handler) GetReplayStatus(c *fiber.Ctx) error {
	job, err := h.Replay.Status(c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(job)
}

// GetDatasets - persisted upload catalog, newest first
func (h *Handler) GetDatasets(c *fiber.Ctx) error {
	var uploads []models.DatasetUpload
	if err := h.DB.Order("uploaded_at desc").Find(&uploads).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(uploads)
}
