// Package metrics holds the small accumulators used by the training and
// evaluation passes.
package metrics

import "time"

// Mean accumulates scalar observations and reports their arithmetic mean.
//
// Per-batch accuracies and losses are averaged unweighted by batch size,
// so an epoch with a short final batch reports a slightly biased corpus
// metric. Kept as-is for parity with earlier result sets.
type Mean struct {
	sum float64
	n   int
}

// Add records one observation.
func (m *Mean) Add(v float64) {
	m.sum += v
	m.n++
}

// Value returns the mean of everything added, or 0 with no observations.
func (m *Mean) Value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// Count returns the number of observations.
func (m *Mean) Count() int { return m.n }

// Window accumulates throughput stats across training steps.
type Window struct {
	samples  int
	data     time.Duration
	compute  time.Duration
	steps    int
	lastLoss float64
}

// Record adds a new measurement to the window.
func (w *Window) Record(batchSize int, dataTime, computeTime time.Duration, loss float64) {
	w.samples += batchSize
	w.data += dataTime
	w.compute += computeTime
	w.steps++
	w.lastLoss = loss
}

// Snapshot returns aggregated metrics and resets the window.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{}
	total := w.data + w.compute
	if total > 0 {
		snap.SamplesPerSec = float64(w.samples) / total.Seconds()
	}
	if w.steps > 0 {
		snap.AvgDataMS = (w.data.Seconds() * 1000) / float64(w.steps)
		snap.AvgComputeMS = (w.compute.Seconds() * 1000) / float64(w.steps)
	}
	snap.LastLoss = w.lastLoss

	w.samples = 0
	w.data = 0
	w.compute = 0
	w.steps = 0
	return snap
}

// Snapshot represents loggable metrics.
type Snapshot struct {
	SamplesPerSec float64
	AvgDataMS     float64
	AvgComputeMS  float64
	LastLoss      float64
}
