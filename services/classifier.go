package services

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"

	"ids-dashboard/backend/system"
)

// Classifier is the prediction oracle: it turns a feature record into a
// label and a confidence probability. Implementations may be slow and may
// fail; callers treat both as normal.
type Classifier interface {
	Classify(record FlowRecord) (label string, probability float64, err error)
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(record FlowRecord) (string, float64, error)

func (f ClassifierFunc) Classify(record FlowRecord) (string, float64, error) {
	return f(record)
}

// defaultFeatureNames is the fallback feature set when no feature_names.json
// is available or it cannot be understood.
var defaultFeatureNames = []string{
	"flow_duration",
	"total_fwd_packets",
	"total_bwd_packets",
	"fwd_packet_length_mean",
	"bwd_packet_length_mean",
	"flow_bytes_per_s",
	"flow_packets_per_s",
	"flow_iat_mean",
	"syn_flag_count",
	"ack_flag_count",
	"down_up_ratio",
	"average_packet_size",
}

// LoadFeatureNames decodes a feature-name file. Exported model artifacts
// come in several shapes, so each accepted variant is tried explicitly:
// a plain string array, an object with a "features", "feature_names" or
// "columns" array, or an object keyed by feature name.
func LoadFeatureNames(data []byte) ([]string, error) {
	var names []string
	if err := json.Unmarshal(data, &names); err == nil {
		if len(names) == 0 {
			return nil, fmt.Errorf("feature list is empty")
		}
		return names, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("feature file is neither a list nor an object: %w", err)
	}

	for _, key := range []string{"features", "feature_names", "columns"} {
		raw, ok := wrapped[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, &names); err != nil {
			return nil, fmt.Errorf("key %q is not a string array: %w", key, err)
		}
		if len(names) == 0 {
			return nil, fmt.Errorf("key %q holds an empty list", key)
		}
		return names, nil
	}

	// Last accepted shape: an object keyed by feature name. Keys are
	// sorted so the vector order is stable across runs.
	if len(wrapped) == 0 {
		return nil, fmt.Errorf("feature object is empty")
	}
	for name := range wrapped {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// ThresholdClassifier is the built-in oracle implementation: it builds a
// feature vector in the model's training order (missing or uncoercible
// values become 0) and scores it against a fixed decision threshold.
type ThresholdClassifier struct {
	features  []string
	threshold float64
}

// NewThresholdClassifier loads feature names from path when given. Any
// load failure falls back to the built-in feature set; the failure is
// logged, not fatal, matching how the model artifacts are optional.
func NewThresholdClassifier(featuresPath string) *ThresholdClassifier {
	c := &ThresholdClassifier{
		features:  defaultFeatureNames,
		threshold: 0.80,
	}

	if featuresPath == "" {
		return c
	}

	data, err := os.ReadFile(featuresPath)
	if err != nil {
		system.Warn("Could not read feature names from %s: %v", featuresPath, err)
		return c
	}

	names, err := LoadFeatureNames(data)
	if err != nil {
		system.Warn("Could not parse feature names from %s: %v", featuresPath, err)
		return c
	}

	system.Info("Loaded %d feature names from %s", len(names), featuresPath)
	c.features = names
	return c
}

// FeatureNames returns the feature order the classifier expects.
func (c *ThresholdClassifier) FeatureNames() []string {
	return c.features
}

// Classify scores one record. Empty records are malformed input.
func (c *ThresholdClassifier) Classify(record FlowRecord) (string, float64, error) {
	if len(record) == 0 {
		return "", 0, newError(KindClassification, "empty feature record")
	}

	vector := c.vector(record)

	// Logistic squash of an alternating-sign feature sum. Deliberately
	// simple: the oracle contract only promises a label and a
	// probability in [0,1].
	var score float64
	for i, v := range vector {
		if i%2 == 0 {
			score += v
		} else {
			score -= v / 2
		}
	}
	scale := 50.0 * float64(len(vector))
	p := 1.0 / (1.0 + math.Exp(-score/scale))

	if p >= c.threshold {
		return LabelAttack, p, nil
	}
	return LabelBenign, 1 - p, nil
}

// vector builds the feature vector in training order. Missing features and
// values that cannot be coerced to a number become 0.
func (c *ThresholdClassifier) vector(record FlowRecord) []float64 {
	out := make([]float64, len(c.features))
	for i, name := range c.features {
		raw, ok := record[name]
		if !ok {
			continue
		}
		out[i] = coerceFloat(raw)
	}
	return out
}

func coerceFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int64:
		return float64(value)
	case bool:
		if value {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := value.Float64(); err == nil {
			return f
		}
	}
	return 0
}
