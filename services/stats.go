package services

import (
	"math"
	"sync"
)

// RingCapacity bounds the recent-events buffer.
const RingCapacity = 200

// StatsSnapshot is a consistent view of the aggregate counters.
type StatsSnapshot struct {
	Total          int              `json:"total"`
	Benign         int              `json:"benign"`
	Attack         int              `json:"attack"`
	BenignPct      float64          `json:"benign_pct"`
	AttackPct      float64          `json:"attack_pct"`
	LastPrediction *PredictionEvent `json:"last_prediction,omitempty"`
}

// StatsAggregator keeps the running prediction counters plus the bounded
// newest-first ring of recent events. A single mutex covers both: counters
// and ring must move together so no reader observes a half-applied update.
type StatsAggregator struct {
	mu     sync.Mutex
	total  int
	benign int
	attack int
	last   *PredictionEvent
	recent []PredictionEvent // newest first
}

func NewStatsAggregator() *StatsAggregator {
	return &StatsAggregator{
		recent: make([]PredictionEvent, 0, RingCapacity),
	}
}

// Record applies one prediction outcome: counters, last-prediction summary
// and ring insertion happen under one critical section.
func (s *StatsAggregator) Record(event PredictionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total++
	if event.Label == LabelBenign {
		s.benign++
	} else {
		s.attack++
	}
	s.last = &event

	s.recent = append([]PredictionEvent{event}, s.recent...)
	if len(s.recent) > RingCapacity {
		s.recent = s.recent[:RingCapacity]
	}
}

// Snapshot returns the counters with percentages rounded to one decimal.
func (s *StatsAggregator) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		Total:  s.total,
		Benign: s.benign,
		Attack: s.attack,
	}
	if s.total > 0 {
		snap.BenignPct = round1(float64(s.benign) / float64(s.total) * 100)
		snap.AttackPct = round1(float64(s.attack) / float64(s.total) * 100)
	}
	if s.last != nil {
		last := *s.last
		snap.LastPrediction = &last
	}
	return snap
}

// Recent returns up to limit events, newest first. When nonBenignOnly is
// set the filter runs before truncation, so a selective filter is never
// padded with benign events.
func (s *StatsAggregator) Recent(limit int, nonBenignOnly bool) []PredictionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]PredictionEvent, 0, limit)
	for _, event := range s.recent {
		if nonBenignOnly && event.Label == LabelBenign {
			continue
		}
		out = append(out, event)
		if len(out) == limit {
			break
		}
	}
	return out
}

// RecentCount returns the current ring occupancy.
func (s *StatsAggregator) RecentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recent)
}

// Reset zeroes the counters and clears the ring in one critical section.
func (s *StatsAggregator) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.total = 0
	s.benign = 0
	s.attack = 0
	s.last = nil
	s.recent = s.recent[:0]
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
