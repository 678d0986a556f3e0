package services

import (
	"sync"

	"ids-dashboard/backend/system"
)

// SourceMode names the traffic source currently allowed to write statistics.
type SourceMode string

const (
	SourceLive    SourceMode = "live"
	SourceDataset SourceMode = "dataset"
)

// ParseSourceMode validates a wire value.
func ParseSourceMode(s string) (SourceMode, error) {
	switch SourceMode(s) {
	case SourceLive, SourceDataset:
		return SourceMode(s), nil
	default:
		return "", newError(KindInvalidArgument, "invalid source mode: %q (expected \"live\" or \"dataset\")", s)
	}
}

// SourceArbiter holds the single active traffic source. The invariant is
// global mutual exclusion: at most one logical source writes to the shared
// statistics at any time, no matter how many live callers exist.
type SourceArbiter struct {
	mu   sync.RWMutex
	mode SourceMode
}

// NewSourceArbiter starts in the given mode. Unknown values fall back to live.
func NewSourceArbiter(defaultMode string) *SourceArbiter {
	mode, err := ParseSourceMode(defaultMode)
	if err != nil {
		system.Warn("Unknown default source %q, falling back to live", defaultMode)
		mode = SourceLive
	}
	return &SourceArbiter{mode: mode}
}

// Get returns the active mode.
func (a *SourceArbiter) Get() SourceMode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// Set switches the active mode. Invalid values fail with InvalidArgument
// and leave the prior mode unchanged.
func (a *SourceArbiter) Set(mode SourceMode) (SourceMode, error) {
	if _, err := ParseSourceMode(string(mode)); err != nil {
		return "", err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = mode
	return a.mode, nil
}

// RequireMode fails with Conflict when the active mode differs from expected.
// The live ingestion path uses this to reject live traffic while a replay
// job owns the source.
func (a *SourceArbiter) RequireMode(expected SourceMode) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.mode != expected {
		return newError(KindConflict, "traffic source is %q, expected %q", a.mode, expected)
	}
	return nil
}

// ForceLive unconditionally resets the arbiter to live. Used as the cleanup
// fallback when restoring a previous mode fails.
func (a *SourceArbiter) ForceLive() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.mode = SourceLive
}
