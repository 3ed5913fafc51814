package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ConfusionMatrix counts (true label, predicted label) occurrences.
// Update is pure accumulation with no normalization, so batches may be
// processed in any order.
type ConfusionMatrix struct {
	classes int
	counts  *mat.Dense
}

// NewConfusionMatrix returns an all-zero classes x classes table.
func NewConfusionMatrix(classes int) *ConfusionMatrix {
	return &ConfusionMatrix{
		classes: classes,
		counts:  mat.NewDense(classes, classes, nil),
	}
}

// Update increments the (label, prediction) cell once per sample.
func (c *ConfusionMatrix) Update(preds, labels []int) error {
	if len(preds) != len(labels) {
		return fmt.Errorf("confusion: %d predictions vs %d labels", len(preds), len(labels))
	}
	for i := range preds {
		t, p := labels[i], preds[i]
		if t < 0 || t >= c.classes || p < 0 || p >= c.classes {
			return fmt.Errorf("confusion: class out of range (true=%d pred=%d classes=%d)", t, p, c.classes)
		}
		c.counts.Set(t, p, c.counts.At(t, p)+1)
	}
	return nil
}

// Classes returns the class count.
func (c *ConfusionMatrix) Classes() int { return c.classes }

// At returns the count for (true label, predicted label).
func (c *ConfusionMatrix) At(trueLabel, pred int) int {
	return int(c.counts.At(trueLabel, pred))
}

// Sum returns the total number of accumulated samples.
func (c *ConfusionMatrix) Sum() int {
	return int(mat.Sum(c.counts))
}

// Grid returns the counts as integer rows for text appends.
func (c *ConfusionMatrix) Grid() [][]int {
	grid := make([][]int, c.classes)
	for i := 0; i < c.classes; i++ {
		row := make([]int, c.classes)
		for j := 0; j < c.classes; j++ {
			row[j] = int(c.counts.At(i, j))
		}
		grid[i] = row
	}
	return grid
}
