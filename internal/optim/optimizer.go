// Package optim implements parameter-update rules for training.
package optim

// Optimizer applies accumulated gradients to the parameters it owns.
type Optimizer interface {
	// Step applies one update using the current gradients.
	Step()
	// ZeroGrad clears all gradients before the next accumulation.
	ZeroGrad()
	// Reset discards optimizer state (moments, step counter) while
	// keeping the parameter binding, as after an early-stopping restore.
	Reset()
}
