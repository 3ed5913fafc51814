package optim

import (
	"testing"

	"github.com/stretchr/testify/require"

	"seqforge/internal/model"
)

func TestAdamWDescendsGradient(t *testing.T) {
	p := model.NewParameter("w", 1, 2)
	p.Value.Set(0, 0, 1.0)
	p.Value.Set(0, 1, -1.0)

	opt := NewAdamW([]*model.Parameter{p}, AdamWConfig{LR: 0.1, WeightDecay: 1e-12})
	p.Grad.Set(0, 0, 1.0)  // positive gradient: value should drop
	p.Grad.Set(0, 1, -1.0) // negative gradient: value should rise
	opt.Step()

	require.Less(t, p.Value.At(0, 0), 1.0)
	require.Greater(t, p.Value.At(0, 1), -1.0)
}

func TestAdamWZeroGrad(t *testing.T) {
	p := model.NewParameter("w", 1, 1)
	p.Grad.Set(0, 0, 3.5)

	opt := NewAdamW([]*model.Parameter{p}, AdamWConfig{})
	opt.ZeroGrad()
	require.Equal(t, 0.0, p.Grad.At(0, 0))
}

func TestAdamWResetGivesFreshState(t *testing.T) {
	p := model.NewParameter("w", 1, 1)
	opt := NewAdamW([]*model.Parameter{p}, AdamWConfig{LR: 0.1, WeightDecay: 1e-12})

	p.Grad.Set(0, 0, 1.0)
	opt.Step()
	firstDelta := -p.Value.At(0, 0)

	// run more steps to build up moment state
	for i := 0; i < 5; i++ {
		opt.Step()
	}

	opt.Reset()
	require.Equal(t, 0, opt.t)
	require.Equal(t, 0.0, opt.m["w"].At(0, 0))
	require.Equal(t, 0.0, opt.v["w"].At(0, 0))

	// after a reset the next update behaves like a first step again
	before := p.Value.At(0, 0)
	opt.Step()
	require.InDelta(t, firstDelta, before-p.Value.At(0, 0), 1e-6)
}

func TestAdamWDefaults(t *testing.T) {
	cfg := AdamWConfig{}
	cfg.setDefaults()
	require.Equal(t, 1e-3, cfg.LR)
	require.Equal(t, 0.9, cfg.Beta1)
	require.Equal(t, 0.999, cfg.Beta2)
	require.Equal(t, 1e-8, cfg.Eps)
	require.Equal(t, 0.01, cfg.WeightDecay)
}
