package services

import (
	"sync/atomic"
	"time"

	"ids-dashboard/backend/system"

	"github.com/brianvoe/gofakeit/v7"
)

// TrafficGenerator is the continuous synthetic live feed: one random flow
// record per interval, pushed through the shared ingestion pipeline. Records
// rejected because monitoring is stopped or a replay job owns the source are
// skipped quietly.
type TrafficGenerator struct {
	pipeline *IngestionPipeline
	features []string

	intervalNs atomic.Int64
	stopChan   chan struct{}
}

func NewTrafficGenerator(pipeline *IngestionPipeline, features []string, interval time.Duration) *TrafficGenerator {
	g := &TrafficGenerator{
		pipeline: pipeline,
		features: features,
		stopChan: make(chan struct{}),
	}
	g.SetInterval(interval)
	return g
}

// SetInterval adjusts the feed pace; takes effect from the next tick.
func (g *TrafficGenerator) SetInterval(interval time.Duration) {
	if interval <= 0 {
		interval = time.Second
	}
	g.intervalNs.Store(int64(interval))
}

// Start begins the feed loop.
func (g *TrafficGenerator) Start() {
	go func() {
		system.Info("Live traffic generator started (%d features)", len(g.features))
		for {
			select {
			case <-g.stopChan:
				system.Info("Live traffic generator stopped")
				return
			case <-time.After(time.Duration(g.intervalNs.Load())):
				g.emit()
			}
		}
	}()
}

// Stop terminates the feed loop.
func (g *TrafficGenerator) Stop() {
	close(g.stopChan)
}

func (g *TrafficGenerator) emit() {
	record := make(FlowRecord, len(g.features))
	for _, name := range g.features {
		record[name] = gofakeit.Float64Range(0, 1) * float64(gofakeit.Number(1, 100))
	}

	if _, err := g.pipeline.Ingest(SourceLive, record); err != nil {
		if kind, ok := KindOf(err); ok && (kind == KindPreconditionFailed || kind == KindConflict) {
			// Monitoring stopped or a replay job owns the source.
			return
		}
		system.Warn("Live generator ingest failed: %v", err)
	}
}
