package model

import "fmt"

// TensorState is one parameter's values in row-major order.
type TensorState struct {
	Rows int
	Cols int
	Data []float64
}

// StateDict maps parameter names to their saved values.
type StateDict map[string]TensorState

// StateDict snapshots every parameter. The data is copied.
func (m *TextClassifier) StateDict() StateDict {
	params := m.Parameters()
	sd := make(StateDict, len(params))
	for _, p := range params {
		r, c := p.Value.Dims()
		data := make([]float64, r*c)
		copy(data, p.Value.RawMatrix().Data)
		sd[p.Name] = TensorState{Rows: r, Cols: c, Data: data}
	}
	return sd
}

// LoadStateDict copies saved values into the existing parameter
// matrices, so optimizers holding the parameters stay bound to them.
func (m *TextClassifier) LoadStateDict(sd StateDict) error {
	for _, p := range m.Parameters() {
		ts, ok := sd[p.Name]
		if !ok {
			return fmt.Errorf("model: state dict missing %q", p.Name)
		}
		r, c := p.Value.Dims()
		if ts.Rows != r || ts.Cols != c || len(ts.Data) != r*c {
			return fmt.Errorf("model: state %q has shape %dx%d, want %dx%d", p.Name, ts.Rows, ts.Cols, r, c)
		}
		copy(p.Value.RawMatrix().Data, ts.Data)
	}
	return nil
}
