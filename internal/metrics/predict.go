package metrics

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// ArgmaxRows returns the per-row index of the maximum column.
func ArgmaxRows(m mat.Matrix) []int {
	r, _ := m.Dims()
	out := make([]int, r)
	var row []float64
	for i := 0; i < r; i++ {
		row = mat.Row(row, i, m)
		out[i] = floats.MaxIdx(row)
	}
	return out
}

// Accuracy is the fraction of predictions matching labels.
func Accuracy(preds, labels []int) float64 {
	if len(preds) == 0 || len(preds) != len(labels) {
		return 0
	}
	hits := 0
	for i := range preds {
		if preds[i] == labels[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(preds))
}

// MajorityVote returns the statistical mode of votes over classes.
// Ties resolve to the lowest class index; votes outside [0, classes)
// are ignored.
func MajorityVote(votes []int, classes int) int {
	counts := make([]int, classes)
	for _, v := range votes {
		if v >= 0 && v < classes {
			counts[v]++
		}
	}
	best := 0
	for c := 1; c < classes; c++ {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}
