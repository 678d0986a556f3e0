package services

import (
	"fmt"
	"testing"
	"time"
)

func benignEvent(tag string) PredictionEvent {
	return PredictionEvent{
		Timestamp:   time.Now(),
		Label:       LabelBenign,
		Probability: 0.95,
		SourceIP:    tag,
		Risk:        RiskLow,
	}
}

func attackEvent(tag string) PredictionEvent {
	return PredictionEvent{
		Timestamp:   time.Now(),
		Label:       LabelAttack,
		Probability: 0.9,
		SourceIP:    tag,
		AttackType:  "DDoS",
		Risk:        RiskHigh,
	}
}

func TestRecordKeepsCountInvariant(t *testing.T) {
	s := NewStatsAggregator()

	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			s.Record(attackEvent(fmt.Sprintf("a%d", i)))
		} else {
			s.Record(benignEvent(fmt.Sprintf("b%d", i)))
		}

		snap := s.Snapshot()
		if snap.Total != snap.Benign+snap.Attack {
			t.Fatalf("after %d records: total=%d benign=%d attack=%d", i+1, snap.Total, snap.Benign, snap.Attack)
		}
	}
}

func TestSnapshotPercentages(t *testing.T) {
	s := NewStatsAggregator()

	snap := s.Snapshot()
	if snap.BenignPct != 0 || snap.AttackPct != 0 {
		t.Fatalf("empty aggregator should report zero percentages, got %v/%v", snap.BenignPct, snap.AttackPct)
	}

	s.Record(benignEvent("1"))
	s.Record(benignEvent("2"))
	s.Record(benignEvent("3"))
	s.Record(attackEvent("4"))

	snap = s.Snapshot()
	if snap.BenignPct != 75.0 {
		t.Errorf("benign_pct = %v, want 75.0", snap.BenignPct)
	}
	if snap.AttackPct != 25.0 {
		t.Errorf("attack_pct = %v, want 25.0", snap.AttackPct)
	}
	if snap.LastPrediction == nil || snap.LastPrediction.Label != LabelAttack {
		t.Errorf("last prediction should be the attack event, got %+v", snap.LastPrediction)
	}
}

func TestRingCapacityAndOrder(t *testing.T) {
	s := NewStatsAggregator()

	for i := 1; i <= RingCapacity+1; i++ {
		s.Record(benignEvent(fmt.Sprintf("event-%d", i)))
	}

	recent := s.Recent(RingCapacity, false)
	if len(recent) != RingCapacity {
		t.Fatalf("ring holds %d events, want %d", len(recent), RingCapacity)
	}
	if recent[0].SourceIP != fmt.Sprintf("event-%d", RingCapacity+1) {
		t.Errorf("newest event should be first, got %s", recent[0].SourceIP)
	}
	for _, event := range recent {
		if event.SourceIP == "event-1" {
			t.Fatal("oldest event should have been evicted")
		}
	}
	if recent[len(recent)-1].SourceIP != "event-2" {
		t.Errorf("oldest surviving event should be event-2, got %s", recent[len(recent)-1].SourceIP)
	}
}

func TestRecentFilterRunsBeforeTruncation(t *testing.T) {
	s := NewStatsAggregator()

	// 10 events, 3 of them attacks buried between benign ones.
	for i := 1; i <= 10; i++ {
		if i == 2 || i == 5 || i == 8 {
			s.Record(attackEvent(fmt.Sprintf("attack-%d", i)))
		} else {
			s.Record(benignEvent(fmt.Sprintf("benign-%d", i)))
		}
	}

	alerts := s.Recent(5, true)
	if len(alerts) != 3 {
		t.Fatalf("got %d alerts, want exactly 3 (no benign padding)", len(alerts))
	}
	want := []string{"attack-8", "attack-5", "attack-2"}
	for i, tag := range want {
		if alerts[i].SourceIP != tag {
			t.Errorf("alerts[%d] = %s, want %s", i, alerts[i].SourceIP, tag)
		}
	}
}

func TestResetClearsCountersAndRingTogether(t *testing.T) {
	s := NewStatsAggregator()
	for i := 0; i < 20; i++ {
		s.Record(attackEvent(fmt.Sprintf("%d", i)))
	}

	s.Reset()

	snap := s.Snapshot()
	if snap.Total != 0 || snap.Benign != 0 || snap.Attack != 0 {
		t.Errorf("counters not reset: %+v", snap)
	}
	if snap.LastPrediction != nil {
		t.Error("last prediction should be cleared")
	}
	if got := s.Recent(200, false); len(got) != 0 {
		t.Errorf("ring not cleared, %d events remain", len(got))
	}
}

func TestConcurrentRecordsHoldInvariant(t *testing.T) {
	s := NewStatsAggregator()

	done := make(chan struct{})
	for w := 0; w < 4; w++ {
		go func(w int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				if i%2 == 0 {
					s.Record(benignEvent(fmt.Sprintf("w%d-%d", w, i)))
				} else {
					s.Record(attackEvent(fmt.Sprintf("w%d-%d", w, i)))
				}
			}
		}(w)
	}
	for w := 0; w < 4; w++ {
		<-done
	}

	snap := s.Snapshot()
	if snap.Total != 400 {
		t.Errorf("total = %d, want 400", snap.Total)
	}
	if snap.Total != snap.Benign+snap.Attack {
		t.Errorf("invariant broken: %+v", snap)
	}
}
