package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"ids-dashboard/backend/system"
)

// WebhookService pushes Discord notifications for detections and replay
// results. Disabled until an URL is configured.
type WebhookService struct {
	mu         sync.Mutex
	webhookURL string
	client     *http.Client

	// Cooldown per attack type so a noisy feed does not flood the channel.
	lastAlert map[string]time.Time
	cooldown  time.Duration
}

// DiscordEmbed represents a Discord embed object
type DiscordEmbed struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Color       int                 `json:"color,omitempty"`
	Fields      []DiscordEmbedField `json:"fields,omitempty"`
	Timestamp   string              `json:"timestamp,omitempty"`
}

type DiscordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

// DiscordWebhookPayload represents a Discord webhook message
type DiscordWebhookPayload struct {
	Username string         `json:"username,omitempty"`
	Content  string         `json:"content,omitempty"`
	Embeds   []DiscordEmbed `json:"embeds,omitempty"`
}

// Discord color constants
const (
	ColorRed    = 0xFF0000 // Attack
	ColorOrange = 0xFFAA00 // Warning / failure
	ColorGreen  = 0x00FF00 // Success
	ColorBlue   = 0x00AAFF // Info
)

func NewWebhookService() *WebhookService {
	return &WebhookService{
		client:    &http.Client{Timeout: 10 * time.Second},
		lastAlert: make(map[string]time.Time),
		cooldown:  time.Minute,
	}
}

// SetWebhookURL sets the Discord webhook URL; empty disables the service.
func (w *WebhookService) SetWebhookURL(url string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.webhookURL = url
}

// IsEnabled returns whether the webhook is configured.
func (w *WebhookService) IsEnabled() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.webhookURL != ""
}

// SendAttackAlert notifies a high-risk detection, rate limited per attack type.
func (w *WebhookService) SendAttackAlert(event PredictionEvent) error {
	w.mu.Lock()
	if w.webhookURL == "" {
		w.mu.Unlock()
		return nil
	}
	if last, ok := w.lastAlert[event.AttackType]; ok && time.Since(last) < w.cooldown {
		w.mu.Unlock()
		return nil
	}
	w.lastAlert[event.AttackType] = time.Now()
	w.mu.Unlock()

	embed := DiscordEmbed{
		Title: "🚨 Attack Detected",
		Color: ColorRed,
		Fields: []DiscordEmbedField{
			{Name: "Type", Value: event.AttackType, Inline: true},
			{Name: "Confidence", Value: fmt.Sprintf("%.1f%%", event.Probability*100), Inline: true},
			{Name: "Source", Value: event.SourceIP, Inline: true},
			{Name: "Target", Value: event.DestIP, Inline: true},
		},
		Timestamp: event.Timestamp.Format(time.RFC3339),
	}
	return w.send(DiscordWebhookPayload{Username: "IDS Dashboard", Embeds: []DiscordEmbed{embed}})
}

// SendReplayResult notifies a finished replay job.
func (w *WebhookService) SendReplayResult(job ReplayJob) error {
	if !w.IsEnabled() {
		return nil
	}

	color := ColorGreen
	title := "✅ Dataset Replay Finished"
	if job.Status == JobFailed {
		color = ColorOrange
		title = "⚠️ Dataset Replay Failed"
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: job.Message,
		Color:       color,
		Fields: []DiscordEmbedField{
			{Name: "File", Value: job.Filename, Inline: true},
			{Name: "Processed", Value: fmt.Sprintf("%d/%d", job.Processed, job.TotalRows), Inline: true},
			{Name: "Benign / Attack", Value: fmt.Sprintf("%d / %d", job.Benign, job.Attack), Inline: true},
		},
		Timestamp: job.UpdatedAt.Format(time.RFC3339),
	}
	return w.send(DiscordWebhookPayload{Username: "IDS Dashboard", Embeds: []DiscordEmbed{embed}})
}

// SendSystemAlert sends a plain titled message.
func (w *WebhookService) SendSystemAlert(title, message string, color int) error {
	if !w.IsEnabled() {
		return nil
	}

	embed := DiscordEmbed{
		Title:       title,
		Description: message,
		Color:       color,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
	return w.send(DiscordWebhookPayload{Username: "IDS Dashboard", Embeds: []DiscordEmbed{embed}})
}

func (w *WebhookService) send(payload DiscordWebhookPayload) error {
	w.mu.Lock()
	url := w.webhookURL
	w.mu.Unlock()
	if url == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := w.client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		system.Warn("Webhook delivery failed: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		system.Warn("Webhook rejected with status %d", resp.StatusCode)
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
