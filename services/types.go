package services

import (
	"time"
)

// FlowRecord is one network-flow feature record, as received from the live
// feed or parsed out of an uploaded dataset. Values are feature name ->
// number (or string for non-numeric columns).
type FlowRecord map[string]interface{}

// Risk levels derived from the classification outcome.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Classification labels. An oracle may also return a concrete attack name
// instead of the binary LabelAttack.
const (
	LabelBenign = "BENIGN"
	LabelAttack = "ATTACK"
)

// PredictionEvent is the immutable record of one classified flow. It is
// created at enrichment time and handed to the stats ring; it is never
// mutated afterwards.
type PredictionEvent struct {
	Timestamp   time.Time `json:"timestamp"`
	Label       string    `json:"label"`
	Probability float64   `json:"probability"`
	SourceIP    string    `json:"source_ip"`
	DestIP      string    `json:"dest_ip"`
	AttackType  string    `json:"attack_type,omitempty"`
	Risk        string    `json:"risk"`
}
