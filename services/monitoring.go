package services

import (
	"sync"
	"time"
)

// MonitoringStatus is the externally visible gate state.
type MonitoringStatus struct {
	Running   bool       `json:"running"`
	StartedAt *time.Time `json:"started_at"`
	StoppedAt *time.Time `json:"stopped_at"`
}

// MonitoringGate holds the global "monitoring enabled" flag. Every ingestion
// path checks it before doing any work.
type MonitoringGate struct {
	mu        sync.RWMutex
	running   bool
	startedAt *time.Time
	stoppedAt *time.Time
}

func NewMonitoringGate() *MonitoringGate {
	return &MonitoringGate{}
}

// Start enables monitoring and stamps started_at.
func (g *MonitoringGate) Start() MonitoringStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	g.running = true
	g.startedAt = &now
	g.stoppedAt = nil

	return g.statusLocked()
}

// Stop disables monitoring and stamps stopped_at.
func (g *MonitoringGate) Stop() MonitoringStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now()
	g.running = false
	g.stoppedAt = &now
	g.startedAt = nil

	return g.statusLocked()
}

// Status returns the current gate state.
func (g *MonitoringGate) Status() MonitoringStatus {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.statusLocked()
}

// RequireRunning fails with PreconditionFailed when monitoring is stopped.
func (g *MonitoringGate) RequireRunning() error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !g.running {
		return newError(KindPreconditionFailed, "monitoring is not running")
	}
	return nil
}

func (g *MonitoringGate) statusLocked() MonitoringStatus {
	return MonitoringStatus{
		Running:   g.running,
		StartedAt: g.startedAt,
		StoppedAt: g.stoppedAt,
	}
}
