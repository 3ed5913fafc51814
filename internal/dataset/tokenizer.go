package dataset

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"seqforge/internal/model"
)

// Tokenizer converts raw text into fixed-length bucketed token IDs.
//
// BPE token IDs are folded into a configurable number of embedding
// buckets (the hashing trick) so the embedding table stays small;
// bucket 0 is reserved for padding.
type Tokenizer struct {
	enc     *tiktoken.Tiktoken
	maxLen  int
	buckets int
}

// NewTokenizer loads the named tiktoken encoding.
func NewTokenizer(encoding string, maxLen, buckets int) (*Tokenizer, error) {
	if maxLen <= 0 {
		return nil, fmt.Errorf("tokenizer: max length must be > 0 (got %d)", maxLen)
	}
	if buckets < 2 {
		return nil, fmt.Errorf("tokenizer: need at least 2 buckets (got %d)", buckets)
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load tiktoken encoding %q: %w", encoding, err)
	}
	return &Tokenizer{enc: enc, maxLen: maxLen, buckets: buckets}, nil
}

// Encode tokenizes text, buckets the IDs, and truncates or pads the
// sequence to the configured length.
func (t *Tokenizer) Encode(text string) []int {
	return FitTokens(t.enc.Encode(text, nil, nil), t.maxLen, t.buckets)
}

// FitTokens folds raw token IDs into [1, buckets) and truncates or pads
// the sequence to maxLen with model.PadID.
func FitTokens(ids []int, maxLen, buckets int) []int {
	out := make([]int, maxLen)
	n := len(ids)
	if n > maxLen {
		n = maxLen
	}
	for i := 0; i < n; i++ {
		out[i] = 1 + ids[i]%(buckets-1)
	}
	for i := n; i < maxLen; i++ {
		out[i] = model.PadID
	}
	return out
}
