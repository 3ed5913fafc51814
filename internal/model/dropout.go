package model

import (
	"math/rand"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Layer is a named sub-layer whose training mode can be flipped
// independently of the rest of the model. Monte-Carlo-Dropout sampling
// re-activates dropout layers while the model stays in eval mode.
type Layer interface {
	Name() string
	SetMode(training bool)
	Training() bool
}

// IsDropout reports whether a layer is a dropout site. It is the
// predicate used to re-activate dropout during MC sampling.
func IsDropout(l Layer) bool { return strings.HasPrefix(l.Name(), "dropout") }

// Dropout zeroes activations with probability P while training, scaling
// survivors by 1/(1-P) (inverted dropout). In eval mode it is the
// identity.
type Dropout struct {
	name     string
	p        float64
	training bool
	rng      *rand.Rand
	mask     *mat.Dense
}

// NewDropout builds a dropout layer sharing the model's rng.
func NewDropout(name string, p float64, rng *rand.Rand) *Dropout {
	return &Dropout{name: name, p: p, rng: rng}
}

func (d *Dropout) Name() string          { return d.name }
func (d *Dropout) SetMode(training bool) { d.training = training }
func (d *Dropout) Training() bool        { return d.training }

// P returns the configured drop probability.
func (d *Dropout) P() float64 { return d.p }

// Apply runs the layer forward, remembering the mask for Backward.
func (d *Dropout) Apply(x *mat.Dense) *mat.Dense {
	r, c := x.Dims()
	out := mat.NewDense(r, c, nil)
	if !d.training || d.p <= 0 {
		d.mask = nil
		out.Copy(x)
		return out
	}
	keep := 1 - d.p
	scale := 1 / keep
	d.mask = mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if d.rng.Float64() < keep {
				d.mask.Set(i, j, scale)
				out.Set(i, j, x.At(i, j)*scale)
			}
		}
	}
	return out
}

// Backward propagates a gradient through the most recent Apply.
func (d *Dropout) Backward(grad *mat.Dense) *mat.Dense {
	if d.mask == nil {
		return grad
	}
	r, c := grad.Dims()
	out := mat.NewDense(r, c, nil)
	out.MulElem(grad, d.mask)
	return out
}
