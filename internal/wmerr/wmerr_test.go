package wmerr

import (
	"errors"
	"testing"
)

func TestKindClassification(t *testing.T) {
	err := New(Clampable, "mwfact %.2f", 1.5)
	if !errors.Is(err, Clampable) {
		t.Fatalf("expected Clampable, got %v", err)
	}
	if errors.Is(err, Transient) {
		t.Fatalf("did not expect Transient match")
	}
}

func TestClampFloat(t *testing.T) {
	if got := ClampFloat("mwfact", 0.95, 0.1, 0.9); got != 0.9 {
		t.Fatalf("ClampFloat(0.95) = %v, want 0.9", got)
	}
	if got := ClampFloat("mwfact", 0.5, 0.1, 0.9); got != 0.5 {
		t.Fatalf("ClampFloat(0.5) = %v, want 0.5 (unchanged)", got)
	}
}

func TestClampMin(t *testing.T) {
	if got := ClampMin("useless_gaps", -3, 0); got != 0 {
		t.Fatalf("ClampMin(-3) = %v, want 0", got)
	}
}

func TestReportPreconditionPanicsInDebug(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic in debug mode")
		}
	}()
	Report(New(Precondition, "container already has a bsp node"))
}
