package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"ids-dashboard/backend/services"

	"github.com/gofiber/fiber/v2"
)

func okClassifier() services.Classifier {
	return services.ClassifierFunc(func(record services.FlowRecord) (string, float64, error) {
		return services.LabelBenign, 0.95, nil
	})
}

// newTestApp wires an app with fresh in-memory services and no auth
// middleware; the database-backed handlers are not routed here.
func newTestApp() (*fiber.App, *Handler) {
	gate := services.NewMonitoringGate()
	arbiter := services.NewSourceArbiter("live")
	stats := services.NewStatsAggregator()
	pipeline := services.NewIngestionPipeline(gate, arbiter, okClassifier(), stats)
	replay := services.NewReplayService(gate, arbiter, pipeline)

	h := NewHandler(nil, gate, arbiter, stats, pipeline, replay, nil, services.NewWebhookService())

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/monitor/start", h.StartMonitoring)
	api.Get("/monitor/stop", h.StopMonitoring)
	api.Get("/monitor/status", h.MonitoringStatus)
	api.Get("/source", h.GetSource)
	api.Put("/source", h.SetSource)
	api.Post("/predict", h.Predict)
	api.Get("/stats", h.GetStats)
	api.Get("/recent", h.GetRecent)
	api.Get("/recent/alerts", h.GetRecentAlerts)
	api.Get("/replay/:id", h.GetReplayStatus)

	return app, h
}

func TestPredictRejectedWhileStopped(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest("POST", "/api/predict", bytes.NewBufferString(`{"flow_duration": 1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 409 {
		t.Errorf("status = %d, want 409 while monitoring stopped", resp.StatusCode)
	}
}

func TestPredictConflictDuringReplayMode(t *testing.T) {
	app, h := newTestApp()
	h.Gate.Start()
	h.Arbiter.Set(services.SourceDataset)

	req := httptest.NewRequest("POST", "/api/predict", bytes.NewBufferString(`{"flow_duration": 1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 423 {
		t.Errorf("status = %d, want 423 while replay owns the source", resp.StatusCode)
	}
}

func TestPredictSuccess(t *testing.T) {
	app, h := newTestApp()
	h.Gate.Start()

	req := httptest.NewRequest("POST", "/api/predict", bytes.NewBufferString(`{"flow_duration": 1}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		Label       string  `json:"label"`
		Probability float64 `json:"probability"`
		Risk        string  `json:"risk"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Label != services.LabelBenign || body.Risk != services.RiskLow {
		t.Errorf("body = %+v", body)
	}
}

func TestSetSourceValidation(t *testing.T) {
	app, h := newTestApp()

	req := httptest.NewRequest("PUT", "/api/source", bytes.NewBufferString(`{"mode": "bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("status = %d, want 400 for bogus mode", resp.StatusCode)
	}
	if mode := h.Arbiter.Get(); mode != services.SourceLive {
		t.Errorf("failed set changed mode to %q", mode)
	}

	req = httptest.NewRequest("PUT", "/api/source", bytes.NewBufferString(`{"mode": "dataset"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if mode := h.Arbiter.Get(); mode != services.SourceDataset {
		t.Errorf("mode = %q, want dataset", mode)
	}
}

func TestRecentLimitBounds(t *testing.T) {
	app, _ := newTestApp()

	for _, limit := range []string{"0", "201", "-5", "abc"} {
		req := httptest.NewRequest("GET", "/api/recent?limit="+limit, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != 400 {
			t.Errorf("limit=%s: status = %d, want 400", limit, resp.StatusCode)
		}
	}

	req := httptest.NewRequest("GET", "/api/recent?limit=200", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("limit=200: status = %d, want 200", resp.StatusCode)
	}
}

func TestReplayStatusNotFound(t *testing.T) {
	app, _ := newTestApp()

	req := httptest.NewRequest("GET", "/api/replay/no-such-id", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestMonitorLifecycle(t *testing.T) {
	app, h := newTestApp()

	req := httptest.NewRequest("GET", "/api/monitor/start", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	if !h.Gate.Status().Running {
		t.Error("start endpoint did not open the gate")
	}

	req = httptest.NewRequest("GET", "/api/monitor/stop", nil)
	if _, err := app.Test(req); err != nil {
		t.Fatal(err)
	}
	if h.Gate.Status().Running {
		t.Error("stop endpoint did not close the gate")
	}
}
