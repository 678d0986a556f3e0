package models

import (
	"time"
)

// ServerSettings is the single-row (ID=1) operator configuration.
type ServerSettings struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// DefaultSource is the traffic source applied at startup: "live" or "dataset".
	DefaultSource string `gorm:"default:'live'" json:"default_source"`

	// GeneratorIntervalMs controls the synthetic live feed pace.
	GeneratorIntervalMs int `gorm:"default:1000" json:"generator_interval_ms"`

	// Discord webhook notifications
	DiscordWebhookURL string `json:"discord_webhook_url,omitempty"`
	AlertOnAttack     bool   `gorm:"default:true" json:"alert_on_attack"`

	UpdatedAt time.Time `json:"updated_at"`
}

// DatasetUpload records one accepted replay upload. Kept in the database so
// the upload catalog survives restarts; the replay job itself does not.
type DatasetUpload struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Filename   string    `gorm:"not null" json:"filename"`
	Rows       int       `json:"rows"`
	Columns    int       `json:"columns"`
	MaxRows    int       `json:"max_rows"`
	JobID      string    `gorm:"index" json:"job_id"`
	UploadedAt time.Time `json:"uploaded_at"`
}
