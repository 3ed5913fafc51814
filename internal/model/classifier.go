// Package model implements the sequence classifier: a bag-of-tokens
// network with an embedding table, one hidden layer, a linear head, and
// two dropout sites sharing a single rate.
package model

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Arch fixes the classifier dimensions. It travels inside checkpoints so
// pretrained weights can rebuild the network they were trained with.
type Arch struct {
	VocabBuckets int
	EmbedDim     int
	HiddenDim    int
	NumLabels    int
}

func (a Arch) validate() error {
	if a.VocabBuckets < 2 {
		return fmt.Errorf("model: vocab buckets must be >= 2 (got %d)", a.VocabBuckets)
	}
	if a.EmbedDim <= 0 || a.HiddenDim <= 0 {
		return fmt.Errorf("model: dims must be > 0 (embed=%d hidden=%d)", a.EmbedDim, a.HiddenDim)
	}
	if a.NumLabels < 2 {
		return fmt.Errorf("model: need at least 2 labels (got %d)", a.NumLabels)
	}
	return nil
}

// TextClassifier embeds and mean-pools the token IDs of each sample,
// applies a hidden ReLU layer and a linear head, with dropout after the
// pooled embedding and after the hidden activation.
//
// Forward caches activations for Backward; instances are not safe for
// concurrent use.
type TextClassifier struct {
	arch Arch

	embedding *Parameter // [VocabBuckets x EmbedDim]
	w1        *Parameter // [EmbedDim x HiddenDim]
	b1        *Parameter // [1 x HiddenDim]
	w2        *Parameter // [HiddenDim x NumLabels]
	b2        *Parameter // [1 x NumLabels]

	embedDrop  *Dropout
	hiddenDrop *Dropout

	training bool

	// caches from the most recent Forward
	lastBatch  Batch
	pooledDrop *mat.Dense
	pre        *mat.Dense
	hiddenOut  *mat.Dense
}

// NewTextClassifier builds a randomly initialized classifier. This is
// the untrained factory variant.
func NewTextClassifier(arch Arch, dropout float64, seed int64) (*TextClassifier, error) {
	if err := arch.validate(); err != nil {
		return nil, err
	}
	if dropout < 0 || dropout >= 1 {
		return nil, fmt.Errorf("model: dropout must be in [0,1) (got %g)", dropout)
	}
	rng := rand.New(rand.NewSource(seed))
	m := &TextClassifier{
		arch:       arch,
		embedding:  NewParameter("embedding", arch.VocabBuckets, arch.EmbedDim),
		w1:         NewParameter("hidden.weight", arch.EmbedDim, arch.HiddenDim),
		b1:         NewParameter("hidden.bias", 1, arch.HiddenDim),
		w2:         NewParameter("head.weight", arch.HiddenDim, arch.NumLabels),
		b2:         NewParameter("head.bias", 1, arch.NumLabels),
		embedDrop:  NewDropout("dropout.embed", dropout, rng),
		hiddenDrop: NewDropout("dropout.hidden", dropout, rng),
	}
	initUniform(m.embedding.Value, rng, 0.05)
	initUniform(m.w1.Value, rng, 0.05)
	initUniform(m.w2.Value, rng, 0.05)
	m.Train()
	return m, nil
}

// FromState rebuilds a classifier from saved weights, overriding the
// dropout rate. This is the pretrained factory variant.
func FromState(arch Arch, state StateDict, dropout float64, seed int64) (*TextClassifier, error) {
	m, err := NewTextClassifier(arch, dropout, seed)
	if err != nil {
		return nil, err
	}
	if err := m.LoadStateDict(state); err != nil {
		return nil, err
	}
	return m, nil
}

func initUniform(w *mat.Dense, rng *rand.Rand, scale float64) {
	raw := w.RawMatrix().Data
	for i := range raw {
		raw[i] = (rng.Float64()*2 - 1) * scale
	}
}

// Arch returns the classifier dimensions.
func (m *TextClassifier) Arch() Arch { return m.arch }

// DropoutRate returns the shared dropout probability.
func (m *TextClassifier) DropoutRate() float64 { return m.embedDrop.P() }

// Training reports whether the whole model is in training mode.
func (m *TextClassifier) Training() bool { return m.training }

// Parameters returns all trainable parameters in a stable order.
func (m *TextClassifier) Parameters() []*Parameter {
	return []*Parameter{m.embedding, m.w1, m.b1, m.w2, m.b2}
}

// Layers returns the mode-switchable sub-layers.
func (m *TextClassifier) Layers() []Layer {
	return []Layer{m.embedDrop, m.hiddenDrop}
}

// Train puts the whole model in training mode.
func (m *TextClassifier) Train() {
	m.training = true
	for _, l := range m.Layers() {
		l.SetMode(true)
	}
}

// Eval puts the whole model in evaluation mode.
func (m *TextClassifier) Eval() {
	m.training = false
	for _, l := range m.Layers() {
		l.SetMode(false)
	}
}

// SetLayerMode flips only the layers matching pred, leaving the rest of
// the model untouched.
func (m *TextClassifier) SetLayerMode(pred func(Layer) bool, training bool) {
	for _, l := range m.Layers() {
		if pred(l) {
			l.SetMode(training)
		}
	}
}

// Forward computes logits for the batch, one row per sample.
func (m *TextClassifier) Forward(b Batch) *mat.Dense {
	n := b.Size()
	pooled := mat.NewDense(n, m.arch.EmbedDim, nil)
	for i, tokens := range b.Inputs {
		row := pooled.RawRowView(i)
		count := 0
		for _, id := range tokens {
			if id == PadID {
				continue
			}
			floats.Add(row, m.embedding.Value.RawRowView(id%m.arch.VocabBuckets))
			count++
		}
		if count > 0 {
			floats.Scale(1/float64(count), row)
		}
	}
	m.lastBatch = b
	m.pooledDrop = m.embedDrop.Apply(pooled)

	pre := mat.NewDense(n, m.arch.HiddenDim, nil)
	pre.Mul(m.pooledDrop, m.w1.Value)
	addRowVector(pre, m.b1.Value)
	m.pre = pre

	hidden := mat.NewDense(n, m.arch.HiddenDim, nil)
	hidden.Apply(func(_, _ int, v float64) float64 {
		return math.Max(v, 0)
	}, pre)
	m.hiddenOut = m.hiddenDrop.Apply(hidden)

	logits := mat.NewDense(n, m.arch.NumLabels, nil)
	logits.Mul(m.hiddenOut, m.w2.Value)
	addRowVector(logits, m.b2.Value)
	return logits
}

// Loss is the mean softmax cross-entropy of logits against labels.
func (m *TextClassifier) Loss(logits *mat.Dense, labels []int) float64 {
	n, _ := logits.Dims()
	total := 0.0
	var row []float64
	for i := 0; i < n; i++ {
		row = mat.Row(row, i, logits)
		probs := softmax(row)
		total += -math.Log(math.Max(probs[labels[i]], 1e-12))
	}
	return total / float64(n)
}

// Backward accumulates parameter gradients for the most recent Forward.
func (m *TextClassifier) Backward(logits *mat.Dense, labels []int) {
	n, k := logits.Dims()
	dLogits := mat.NewDense(n, k, nil)
	var row []float64
	for i := 0; i < n; i++ {
		row = mat.Row(row, i, logits)
		probs := softmax(row)
		probs[labels[i]] -= 1
		for j := 0; j < k; j++ {
			dLogits.Set(i, j, probs[j]/float64(n))
		}
	}

	var gw2 mat.Dense
	gw2.Mul(m.hiddenOut.T(), dLogits)
	m.w2.Grad.Add(m.w2.Grad, &gw2)
	accumulateColumnSums(m.b2.Grad, dLogits)

	var dHiddenOut mat.Dense
	dHiddenOut.Mul(dLogits, m.w2.Value.T())
	dHidden := m.hiddenDrop.Backward(&dHiddenOut)
	r, c := dHidden.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if m.pre.At(i, j) <= 0 {
				dHidden.Set(i, j, 0)
			}
		}
	}

	var gw1 mat.Dense
	gw1.Mul(m.pooledDrop.T(), dHidden)
	m.w1.Grad.Add(m.w1.Grad, &gw1)
	accumulateColumnSums(m.b1.Grad, dHidden)

	var dPooledDrop mat.Dense
	dPooledDrop.Mul(dHidden, m.w1.Value.T())
	dPooled := m.embedDrop.Backward(&dPooledDrop)

	var grad []float64
	for i, tokens := range m.lastBatch.Inputs {
		count := 0
		for _, id := range tokens {
			if id != PadID {
				count++
			}
		}
		if count == 0 {
			continue
		}
		grad = mat.Row(grad, i, dPooled)
		floats.Scale(1/float64(count), grad)
		for _, id := range tokens {
			if id == PadID {
				continue
			}
			floats.Add(m.embedding.Grad.RawRowView(id%m.arch.VocabBuckets), grad)
		}
	}
}

func addRowVector(m *mat.Dense, row *mat.Dense) {
	r, c := m.Dims()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, m.At(i, j)+row.At(0, j))
		}
	}
}

func accumulateColumnSums(dst, src *mat.Dense) {
	r, c := src.Dims()
	for j := 0; j < c; j++ {
		sum := 0.0
		for i := 0; i < r; i++ {
			sum += src.At(i, j)
		}
		dst.Set(0, j, dst.At(0, j)+sum)
	}
}

func softmax(logits []float64) []float64 {
	maxLogit := logits[0]
	for _, v := range logits {
		if v > maxLogit {
			maxLogit = v
		}
	}
	sum := 0.0
	out := make([]float64, len(logits))
	for i, v := range logits {
		exp := math.Exp(v - maxLogit)
		out[i] = exp
		sum += exp
	}
	inv := 1.0 / sum
	for i := range out {
		out[i] *= inv
	}
	return out
}
