package metrics

import (
	"math"
	"testing"
	"time"
)

func TestMeanArithmetic(t *testing.T) {
	var m Mean
	for _, v := range []float64{1.0, 0.5, 0.0} {
		m.Add(v)
	}
	if math.Abs(m.Value()-0.5) > 1e-12 {
		t.Fatalf("expected mean 0.5, got %f", m.Value())
	}
	if m.Count() != 3 {
		t.Fatalf("expected 3 observations, got %d", m.Count())
	}
}

func TestMeanEmpty(t *testing.T) {
	var m Mean
	if m.Value() != 0 {
		t.Fatalf("empty mean should be 0, got %f", m.Value())
	}
}

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(64, 20*time.Millisecond, 10*time.Millisecond, 1.2)
	w.Record(64, 10*time.Millisecond, 20*time.Millisecond, 0.8)
	snap := w.Snapshot()
	if math.Abs(snap.SamplesPerSec-2133.3333) > 1 {
		t.Fatalf("unexpected throughput %.2f", snap.SamplesPerSec)
	}
	if w.samples != 0 || w.steps != 0 {
		t.Fatalf("window was not reset")
	}
	if snap.LastLoss != 0.8 {
		t.Fatalf("expected last loss 0.8, got %.2f", snap.LastLoss)
	}
}
