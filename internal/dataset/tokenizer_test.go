package dataset

import (
	"testing"

	"seqforge/internal/model"
)

func TestFitTokensPads(t *testing.T) {
	got := FitTokens([]int{10, 20}, 5, 8)
	if len(got) != 5 {
		t.Fatalf("expected length 5, got %d", len(got))
	}
	for i := 2; i < 5; i++ {
		if got[i] != model.PadID {
			t.Fatalf("position %d should be padding, got %d", i, got[i])
		}
	}
}

func TestFitTokensTruncates(t *testing.T) {
	got := FitTokens([]int{1, 2, 3, 4, 5, 6}, 3, 8)
	if len(got) != 3 {
		t.Fatalf("expected length 3, got %d", len(got))
	}
}

func TestFitTokensAvoidsPadBucket(t *testing.T) {
	// IDs fold into [1, buckets); bucket 0 stays reserved for padding.
	for id := 0; id < 100; id++ {
		got := FitTokens([]int{id}, 1, 8)
		if got[0] == model.PadID {
			t.Fatalf("token id %d folded onto the pad bucket", id)
		}
		if got[0] < 1 || got[0] >= 8 {
			t.Fatalf("token id %d folded out of range: %d", id, got[0])
		}
	}
}

func TestNewTokenizerRejectsBadConfig(t *testing.T) {
	if _, err := NewTokenizer("r50k_base", 0, 8); err == nil {
		t.Fatalf("expected error for max length 0")
	}
	if _, err := NewTokenizer("r50k_base", 16, 1); err == nil {
		t.Fatalf("expected error for a single bucket")
	}
}
