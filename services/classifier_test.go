package services

import (
	"reflect"
	"testing"
)

func TestLoadFeatureNamesAcceptedShapes(t *testing.T) {
	cases := []struct {
		name string
		data string
		want []string
	}{
		{"plain array", `["a", "b", "c"]`, []string{"a", "b", "c"}},
		{"features key", `{"features": ["x", "y"]}`, []string{"x", "y"}},
		{"feature_names key", `{"feature_names": ["x", "y"]}`, []string{"x", "y"}},
		{"columns key", `{"columns": ["x", "y"]}`, []string{"x", "y"}},
		{"object keyed by name", `{"beta": 1, "alpha": 2}`, []string{"alpha", "beta"}},
	}

	for _, tc := range cases {
		got, err := LoadFeatureNames([]byte(tc.data))
		if err != nil {
			t.Errorf("%s: %v", tc.name, err)
			continue
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestLoadFeatureNamesRejectedShapes(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"empty array", `[]`},
		{"empty object", `{}`},
		{"scalar", `42`},
		{"features not an array", `{"features": "nope"}`},
		{"not json", `{{{`},
	}

	for _, tc := range cases {
		if _, err := LoadFeatureNames([]byte(tc.data)); err == nil {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestThresholdClassifierRejectsEmptyRecord(t *testing.T) {
	c := NewThresholdClassifier("")

	_, _, err := c.Classify(FlowRecord{})
	if err == nil {
		t.Fatal("empty record should fail")
	}
	if kind, ok := KindOf(err); !ok || kind != KindClassification {
		t.Errorf("error kind = %v, want Classification", kind)
	}
}

func TestThresholdClassifierIsDeterministic(t *testing.T) {
	c := NewThresholdClassifier("")
	record := FlowRecord{
		"flow_duration":     12.5,
		"total_fwd_packets": 40.0,
		"syn_flag_count":    2.0,
	}

	label1, p1, err := c.Classify(record)
	if err != nil {
		t.Fatal(err)
	}
	label2, p2, err := c.Classify(record)
	if err != nil {
		t.Fatal(err)
	}

	if label1 != label2 || p1 != p2 {
		t.Errorf("classification not deterministic: (%s, %v) vs (%s, %v)", label1, p1, label2, p2)
	}
	if p1 < 0 || p1 > 1 {
		t.Errorf("probability %v out of [0,1]", p1)
	}
	if label1 != LabelBenign && label1 != LabelAttack {
		t.Errorf("unexpected label %q", label1)
	}
}

func TestVectorCoercion(t *testing.T) {
	c := &ThresholdClassifier{features: []string{"a", "b", "c", "d", "e"}, threshold: 0.8}

	vector := c.vector(FlowRecord{
		"a": 1.5,
		"b": "2.25", // numeric string
		"c": "junk", // uncoercible -> 0
		"d": true,   // -> 1
		// "e" missing -> 0
	})

	want := []float64{1.5, 2.25, 0, 1, 0}
	if !reflect.DeepEqual(vector, want) {
		t.Errorf("vector = %v, want %v", vector, want)
	}
}
