package services

import (
	"sync"
	"time"

	"github.com/brianvoe/gofakeit/v7"
)

// attackTypePlaceholders is the display set used when the oracle only
// reports a binary attack flag instead of naming the attack.
var attackTypePlaceholders = []string{
	"DDoS",
	"Port Scan",
	"Brute Force",
	"Botnet",
	"Web Attack",
	"Infiltration",
}

// IngestionPipeline is the single code path both the live feed and the
// replay worker use to turn a flow record into recorded statistics.
type IngestionPipeline struct {
	gate       *MonitoringGate
	arbiter    *SourceArbiter
	classifier Classifier
	stats      *StatsAggregator

	mu            sync.RWMutex
	webhook       *WebhookService
	alertOnAttack bool
}

func NewIngestionPipeline(gate *MonitoringGate, arbiter *SourceArbiter, classifier Classifier, stats *StatsAggregator) *IngestionPipeline {
	return &IngestionPipeline{
		gate:       gate,
		arbiter:    arbiter,
		classifier: classifier,
		stats:      stats,
	}
}

// SetWebhook connects the alerting webhook. alertOnAttack controls whether
// high-risk detections are pushed out.
func (p *IngestionPipeline) SetWebhook(webhook *WebhookService, alertOnAttack bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.webhook = webhook
	p.alertOnAttack = alertOnAttack
}

// Ingest validates the gates, classifies the record, enriches the outcome
// and records it. The oracle call runs without holding any lock; the stats
// update is the aggregator's own critical section.
//
// Replay callers own the source mode for the duration of their job, so the
// arbiter check applies to live callers only.
func (p *IngestionPipeline) Ingest(source SourceMode, record FlowRecord) (PredictionEvent, error) {
	if err := p.gate.RequireRunning(); err != nil {
		return PredictionEvent{}, err
	}
	if source == SourceLive {
		if err := p.arbiter.RequireMode(SourceLive); err != nil {
			return PredictionEvent{}, err
		}
	}

	label, probability, err := p.classifier.Classify(record)
	if err != nil {
		return PredictionEvent{}, err
	}

	event := enrich(label, probability)
	p.stats.Record(event)
	p.maybeAlert(event)

	return event, nil
}

// enrich derives risk and attack type and attaches synthetic endpoint
// addresses for display.
func enrich(label string, probability float64) PredictionEvent {
	risk := RiskLow
	attackType := ""
	if label != LabelBenign {
		if probability >= 0.80 {
			risk = RiskHigh
		} else {
			risk = RiskMedium
		}
		if label == LabelAttack {
			attackType = gofakeit.RandomString(attackTypePlaceholders)
		} else {
			// Oracle already names the attack.
			attackType = label
		}
	}

	return PredictionEvent{
		Timestamp:   time.Now(),
		Label:       label,
		Probability: probability,
		SourceIP:    gofakeit.IPv4Address(),
		DestIP:      gofakeit.IPv4Address(),
		AttackType:  attackType,
		Risk:        risk,
	}
}

func (p *IngestionPipeline) maybeAlert(event PredictionEvent) {
	if event.Risk != RiskHigh {
		return
	}

	p.mu.RLock()
	webhook := p.webhook
	enabled := p.alertOnAttack
	p.mu.RUnlock()

	if webhook == nil || !enabled {
		return
	}
	// Fire and forget, never block ingestion on the webhook call.
	go webhook.SendAttackAlert(event)
}
