package services

import (
	"testing"
)

func TestArbiterSetAndGet(t *testing.T) {
	a := NewSourceArbiter("live")

	if mode := a.Get(); mode != SourceLive {
		t.Fatalf("initial mode = %q, want live", mode)
	}

	if _, err := a.Set(SourceLive); err != nil {
		t.Fatalf("Set(live) failed: %v", err)
	}
	if mode, err := a.Set(SourceDataset); err != nil || mode != SourceDataset {
		t.Fatalf("Set(dataset) = %q, %v", mode, err)
	}
	if mode := a.Get(); mode != SourceDataset {
		t.Errorf("Get() = %q, want dataset", mode)
	}
}

func TestArbiterRejectsInvalidMode(t *testing.T) {
	a := NewSourceArbiter("dataset")

	_, err := a.Set(SourceMode("bogus"))
	if err == nil {
		t.Fatal("Set(bogus) should fail")
	}
	if kind, ok := KindOf(err); !ok || kind != KindInvalidArgument {
		t.Errorf("error kind = %v, want InvalidArgument", kind)
	}
	if mode := a.Get(); mode != SourceDataset {
		t.Errorf("failed Set changed the mode to %q", mode)
	}
}

func TestArbiterRequireMode(t *testing.T) {
	a := NewSourceArbiter("live")

	if err := a.RequireMode(SourceLive); err != nil {
		t.Errorf("RequireMode(live) failed while live: %v", err)
	}

	a.Set(SourceDataset)
	err := a.RequireMode(SourceLive)
	if err == nil {
		t.Fatal("RequireMode(live) should fail while dataset is active")
	}
	if kind, ok := KindOf(err); !ok || kind != KindConflict {
		t.Errorf("error kind = %v, want Conflict", kind)
	}
}

func TestArbiterDefaultFallsBackToLive(t *testing.T) {
	a := NewSourceArbiter("nonsense")
	if mode := a.Get(); mode != SourceLive {
		t.Errorf("invalid default resolved to %q, want live", mode)
	}
}

func TestArbiterForceLive(t *testing.T) {
	a := NewSourceArbiter("live")
	a.Set(SourceDataset)
	a.ForceLive()
	if mode := a.Get(); mode != SourceLive {
		t.Errorf("ForceLive left mode %q", mode)
	}
}
