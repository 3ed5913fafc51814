package optim

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"seqforge/internal/model"
)

// AdamWConfig holds the AdamW hyperparameters. Zero values select the
// usual defaults (lr 1e-3, betas 0.9/0.999, eps 1e-8, weight decay 0.01).
type AdamWConfig struct {
	LR          float64
	Beta1       float64
	Beta2       float64
	Eps         float64
	WeightDecay float64
}

func (c *AdamWConfig) setDefaults() {
	if c.LR == 0 {
		c.LR = 1e-3
	}
	if c.Beta1 == 0 {
		c.Beta1 = 0.9
	}
	if c.Beta2 == 0 {
		c.Beta2 = 0.999
	}
	if c.Eps == 0 {
		c.Eps = 1e-8
	}
	if c.WeightDecay == 0 {
		c.WeightDecay = 0.01
	}
}

// AdamW implements Adam with decoupled weight decay:
//
//	m_t = beta1*m_{t-1} + (1-beta1)*g
//	v_t = beta2*v_{t-1} + (1-beta2)*g^2
//	w  -= lr * (m_hat/(sqrt(v_hat)+eps) + wd*w)
type AdamW struct {
	params []*model.Parameter
	cfg    AdamWConfig
	t      int
	m      map[string]*mat.Dense
	v      map[string]*mat.Dense
}

// NewAdamW binds an optimizer to the given parameters.
func NewAdamW(params []*model.Parameter, cfg AdamWConfig) *AdamW {
	cfg.setDefaults()
	a := &AdamW{
		params: params,
		cfg:    cfg,
		m:      make(map[string]*mat.Dense, len(params)),
		v:      make(map[string]*mat.Dense, len(params)),
	}
	for _, p := range params {
		r, c := p.Value.Dims()
		a.m[p.Name] = mat.NewDense(r, c, nil)
		a.v[p.Name] = mat.NewDense(r, c, nil)
	}
	return a
}

// LR returns the configured learning rate.
func (a *AdamW) LR() float64 { return a.cfg.LR }

// Step applies one AdamW update to every parameter.
func (a *AdamW) Step() {
	a.t++
	bc1 := 1 - math.Pow(a.cfg.Beta1, float64(a.t))
	bc2 := 1 - math.Pow(a.cfg.Beta2, float64(a.t))
	for _, p := range a.params {
		g := p.Grad.RawMatrix().Data
		w := p.Value.RawMatrix().Data
		mBuf := a.m[p.Name].RawMatrix().Data
		vBuf := a.v[p.Name].RawMatrix().Data
		for i := range w {
			mBuf[i] = a.cfg.Beta1*mBuf[i] + (1-a.cfg.Beta1)*g[i]
			vBuf[i] = a.cfg.Beta2*vBuf[i] + (1-a.cfg.Beta2)*g[i]*g[i]
			mHat := mBuf[i] / bc1
			vHat := vBuf[i] / bc2
			w[i] -= a.cfg.LR * (mHat/(math.Sqrt(vHat)+a.cfg.Eps) + a.cfg.WeightDecay*w[i])
		}
	}
}

// ZeroGrad clears every parameter gradient.
func (a *AdamW) ZeroGrad() {
	for _, p := range a.params {
		p.ZeroGrad()
	}
}

// Reset returns the optimizer to a fresh state over the same parameters.
func (a *AdamW) Reset() {
	a.t = 0
	for _, d := range a.m {
		d.Zero()
	}
	for _, d := range a.v {
		d.Zero()
	}
}
