package model

import "seqforge/internal/device"

// PadID is the reserved token bucket used for padding. Pooling skips it.
const PadID = 0

// Batch is one minibatch of token-ID sequences and class labels. All
// sequences share a length, with PadID filling the tail of short ones.
type Batch struct {
	Inputs [][]int
	Labels []int
}

// Size returns the number of samples in the batch.
func (b Batch) Size() int { return len(b.Inputs) }

// To places the batch on dev. CPU is the only supported target, so this
// is a passthrough that keeps the device handoff explicit in the loops.
func (b Batch) To(device.Device) Batch { return b }
