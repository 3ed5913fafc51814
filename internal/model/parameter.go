package model

import "gonum.org/v1/gonum/mat"

// Parameter is a trainable matrix together with its accumulated
// gradient. Optimizers hold Parameter pointers, so restoring weights
// must copy into Value rather than replace it.
type Parameter struct {
	Name  string
	Value *mat.Dense
	Grad  *mat.Dense
}

// NewParameter allocates a zeroed parameter and gradient.
func NewParameter(name string, rows, cols int) *Parameter {
	return &Parameter{
		Name:  name,
		Value: mat.NewDense(rows, cols, nil),
		Grad:  mat.NewDense(rows, cols, nil),
	}
}

// ZeroGrad clears the accumulated gradient in place.
func (p *Parameter) ZeroGrad() { p.Grad.Zero() }
