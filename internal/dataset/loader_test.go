package dataset

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
)

func testSamples(n int) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		samples[i] = Sample{Tokens: []int{i + 1}, Label: i % 3}
	}
	return samples
}

func TestLoaderBatchCount(t *testing.T) {
	l, err := NewLoader(testSamples(7), 3, 1, false)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	if l.NumBatches() != 3 {
		t.Fatalf("expected 3 batches, got %d", l.NumBatches())
	}
	if l.Len() != 7 {
		t.Fatalf("expected 7 samples, got %d", l.Len())
	}
	// final batch is short
	last := l.Batch(2)
	if last.Size() != 1 {
		t.Fatalf("expected final batch of 1, got %d", last.Size())
	}
}

func TestLoaderUnshuffledOrderStable(t *testing.T) {
	l, err := NewLoader(testSamples(4), 2, 1, false)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	before := l.Batch(0)
	l.Shuffle()
	after := l.Batch(0)
	if !reflect.DeepEqual(before, after) {
		t.Fatalf("unshuffled loader changed order: %v vs %v", before, after)
	}
}

func TestLoaderShuffleDeterministicBySeed(t *testing.T) {
	a, err := NewLoader(testSamples(16), 4, 7, true)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	b, err := NewLoader(testSamples(16), 4, 7, true)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	a.Shuffle()
	b.Shuffle()
	for i := 0; i < a.NumBatches(); i++ {
		if !reflect.DeepEqual(a.Batch(i), b.Batch(i)) {
			t.Fatalf("same seed produced different batch %d", i)
		}
	}
}

func TestLoaderCoversAllSamplesAfterShuffle(t *testing.T) {
	l, err := NewLoader(testSamples(10), 3, 3, true)
	if err != nil {
		t.Fatalf("NewLoader error: %v", err)
	}
	l.Shuffle()
	seen := map[int]bool{}
	for i := 0; i < l.NumBatches(); i++ {
		for _, tokens := range l.Batch(i).Inputs {
			seen[tokens[0]] = true
		}
	}
	if len(seen) != 10 {
		t.Fatalf("expected all 10 samples once per epoch, saw %d", len(seen))
	}
}

func TestLoadSplitNoShards(t *testing.T) {
	if _, err := LoadSplit(context.Background(), t.TempDir(), nil, 4, 1, false); err == nil {
		t.Fatalf("expected error for a root without shards")
	}
}

func TestLoadSplitHonorsCancellation(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "shard-000000.jsonl"), `{"text": "ok", "label": 0}
`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadSplit(ctx, dir, nil, 4, 1, false); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}

func TestLoaderRejectsBadInput(t *testing.T) {
	if _, err := NewLoader(nil, 4, 1, false); err == nil {
		t.Fatalf("expected error for empty samples")
	}
	if _, err := NewLoader(testSamples(4), 0, 1, false); err == nil {
		t.Fatalf("expected error for zero batch size")
	}
}
