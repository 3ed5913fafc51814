package dataset

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"seqforge/internal/model"
)

// Sample is a tokenized record ready for batching.
type Sample struct {
	Tokens []int
	Label  int
}

// Loader batches tokenized samples for epoch-based iteration. Batch(i)
// is deterministic between Shuffle calls; the final batch may be short.
type Loader struct {
	samples []Sample
	batch   int
	order   []int
	rng     *rand.Rand
	shuffle bool
}

// NewLoader wraps pre-tokenized samples. Loaders created with shuffle
// false (validation, test) keep their original order forever.
func NewLoader(samples []Sample, batchSize int, seed int64, shuffle bool) (*Loader, error) {
	if len(samples) == 0 {
		return nil, errors.New("dataset: no samples")
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be > 0 (got %d)", batchSize)
	}
	order := make([]int, len(samples))
	for i := range order {
		order[i] = i
	}
	return &Loader{
		samples: samples,
		batch:   batchSize,
		order:   order,
		rng:     rand.New(rand.NewSource(seed)),
		shuffle: shuffle,
	}, nil
}

// Len returns the number of samples.
func (l *Loader) Len() int { return len(l.samples) }

// NumBatches counts batches per epoch, including a short final batch.
func (l *Loader) NumBatches() int {
	return (len(l.samples) + l.batch - 1) / l.batch
}

// Shuffle reorders the samples for a new epoch.
func (l *Loader) Shuffle() {
	if !l.shuffle {
		return
	}
	l.rng.Shuffle(len(l.order), func(i, j int) {
		l.order[i], l.order[j] = l.order[j], l.order[i]
	})
}

// Batch materializes the i-th batch of the current epoch order.
func (l *Loader) Batch(i int) model.Batch {
	start := i * l.batch
	end := start + l.batch
	if end > len(l.order) {
		end = len(l.order)
	}
	b := model.Batch{
		Inputs: make([][]int, 0, end-start),
		Labels: make([]int, 0, end-start),
	}
	for _, idx := range l.order[start:end] {
		b.Inputs = append(b.Inputs, l.samples[idx].Tokens)
		b.Labels = append(b.Labels, l.samples[idx].Label)
	}
	return b
}

// LoadSplit discovers the shards under root, reads and tokenizes every
// record, and wraps them in a loader. The context is checked between
// shards so an interrupt stops the load.
func LoadSplit(ctx context.Context, root string, tok *Tokenizer, batchSize int, seed int64, shuffle bool) (*Loader, error) {
	shards, err := DiscoverShards(root)
	if err != nil {
		return nil, err
	}
	if len(shards) == 0 {
		return nil, fmt.Errorf("dataset: no shards under %s", root)
	}
	var samples []Sample
	for _, shard := range shards {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := ReadShard(shard)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			samples = append(samples, Sample{Tokens: tok.Encode(rec.Text), Label: rec.Label})
		}
	}
	return NewLoader(samples, batchSize, seed, shuffle)
}
