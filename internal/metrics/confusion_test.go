package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConfusionMatrixUpdate(t *testing.T) {
	cm := NewConfusionMatrix(3)
	require.NoError(t, cm.Update([]int{0, 1, 2, 2}, []int{0, 2, 2, 1}))

	require.Equal(t, 1, cm.At(0, 0))
	require.Equal(t, 1, cm.At(2, 1))
	require.Equal(t, 1, cm.At(2, 2))
	require.Equal(t, 1, cm.At(1, 2))
	require.Equal(t, 4, cm.Sum())
}

func TestConfusionMatrixCommutative(t *testing.T) {
	batchA := struct{ preds, labels []int }{[]int{0, 1}, []int{1, 1}}
	batchB := struct{ preds, labels []int }{[]int{2, 0, 1}, []int{2, 2, 0}}

	ab := NewConfusionMatrix(3)
	require.NoError(t, ab.Update(batchA.preds, batchA.labels))
	require.NoError(t, ab.Update(batchB.preds, batchB.labels))

	ba := NewConfusionMatrix(3)
	require.NoError(t, ba.Update(batchB.preds, batchB.labels))
	require.NoError(t, ba.Update(batchA.preds, batchA.labels))

	require.Equal(t, ab.Grid(), ba.Grid())
}

func TestConfusionMatrixErrors(t *testing.T) {
	cm := NewConfusionMatrix(3)
	require.Error(t, cm.Update([]int{0}, []int{0, 1}))
	require.Error(t, cm.Update([]int{3}, []int{0}))
	require.Error(t, cm.Update([]int{0}, []int{-1}))
}
