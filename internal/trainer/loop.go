// Package trainer runs the training, validation, and evaluation passes
// for one experiment configuration.
package trainer

import (
	"errors"
	"fmt"
	"log"
	"time"

	"gonum.org/v1/gonum/mat"

	"seqforge/internal/checkpoint"
	"seqforge/internal/device"
	"seqforge/internal/metrics"
	"seqforge/internal/model"
	"seqforge/internal/optim"
	"seqforge/internal/runlog"
)

// Model is the slice of the classifier the loops need.
type Model interface {
	Forward(model.Batch) *mat.Dense
	Loss(*mat.Dense, []int) float64
	Backward(*mat.Dense, []int)
	Train()
	Eval()
	SetLayerMode(pred func(model.Layer) bool, training bool)
	StateDict() model.StateDict
	LoadStateDict(model.StateDict) error
	Arch() model.Arch
}

// DataSource yields deterministic batches for one epoch at a time.
type DataSource interface {
	Shuffle()
	NumBatches() int
	Batch(int) model.Batch
}

// RunConfig identifies one experiment configuration.
type RunConfig struct {
	RunID      string
	Epochs     int
	Pretrained bool
	Dropout    float64
	MCDSamples int
	Device     device.Device
	OutRoot    string
	LogEvery   int
}

func (r *RunConfig) validate() error {
	if r.Epochs <= 0 {
		return fmt.Errorf("trainer: epochs must be > 0 (got %d)", r.Epochs)
	}
	if r.Dropout > 0 && r.MCDSamples <= 0 {
		return fmt.Errorf("trainer: mcd samples must be > 0 for dropout runs (got %d)", r.MCDSamples)
	}
	if r.LogEvery <= 0 {
		r.LogEvery = 50
	}
	return nil
}

// Train runs the full early-stopping loop. Every epoch it checkpoints
// the current parameters, takes one training and one validation pass,
// and appends the metric pairs to the run's log files. Afterwards the
// model is restored in place from the epoch with the lowest validation
// loss and the optimizer state is reset over the restored parameters.
//
// Per-epoch metrics are arithmetic means over batches, unweighted by
// batch size; a short final batch skews them slightly. Kept as-is for
// parity with earlier result sets.
func Train(run RunConfig, m Model, opt optim.Optimizer, train, val DataSource) error {
	if err := run.validate(); err != nil {
		return err
	}

	store, err := checkpoint.NewStore(run.OutRoot)
	if err != nil {
		return err
	}
	logw, err := runlog.New(run.OutRoot, run.Pretrained, run.Dropout)
	if err != nil {
		return err
	}

	log.Printf("run=%s training epochs=%d pretrained=%t dropout=%g device=%s",
		run.RunID, run.Epochs, run.Pretrained, run.Dropout, run.Device)

	valLosses := make([]float64, 0, run.Epochs)
	for epoch := 0; epoch < run.Epochs; epoch++ {
		if err := store.Save(epoch, checkpoint.File{Arch: m.Arch(), State: m.StateDict()}); err != nil {
			return err
		}

		train.Shuffle()
		trainAcc, trainLoss, err := TrainingStep(m, train, opt, run.Device, run.LogEvery)
		if err != nil {
			return err
		}
		valAcc, valLoss, err := ValidationStep(m, val, run.Device)
		if err != nil {
			return err
		}
		valLosses = append(valLosses, valLoss)

		log.Printf("run=%s epoch=%d train_loss=%.3f train_acc=%.2f%% val_loss=%.3f val_acc=%.2f%%",
			run.RunID, epoch, trainLoss, trainAcc*100, valLoss, valAcc*100)

		for _, entry := range []struct {
			file  string
			value float64
		}{
			{runlog.TrainAccuracyFile, trainAcc},
			{runlog.TrainLossFile, trainLoss},
			{runlog.ValAccuracyFile, valAcc},
			{runlog.ValLossFile, valLoss},
		} {
			if err := logw.AppendValue(entry.file, entry.value); err != nil {
				return err
			}
		}
	}

	best := argminStrict(valLosses)
	ckpt, err := store.Load(best)
	if err != nil {
		return err
	}
	if err := m.LoadStateDict(ckpt.State); err != nil {
		return err
	}
	opt.Reset()

	if err := logw.Separator(runlog.TrainAccuracyFile, runlog.TrainLossFile,
		runlog.ValAccuracyFile, runlog.ValLossFile); err != nil {
		return err
	}
	log.Printf("run=%s training finished best_epoch=%d best_val_loss=%.3f",
		run.RunID, best, valLosses[best])
	return nil
}

// argminStrict scans with strict less-than so the first occurrence of
// the minimum wins, preserving the early-stopping tie-break.
func argminStrict(values []float64) int {
	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}
	return best
}

// TrainingStep takes one optimization pass over the data source and
// returns the mean batch accuracy and loss.
func TrainingStep(m Model, src DataSource, opt optim.Optimizer, dev device.Device, logEvery int) (float64, float64, error) {
	if src.NumBatches() == 0 {
		return 0, 0, errors.New("trainer: empty data source")
	}
	if logEvery <= 0 {
		logEvery = 50
	}
	var accMean, lossMean metrics.Mean
	var window metrics.Window
	m.Train()
	for i := 0; i < src.NumBatches(); i++ {
		opt.ZeroGrad()

		startData := time.Now()
		batch := src.Batch(i).To(dev)
		dataTime := time.Since(startData)

		startCompute := time.Now()
		logits := m.Forward(batch)
		loss := m.Loss(logits, batch.Labels)
		acc := metrics.Accuracy(metrics.ArgmaxRows(logits), batch.Labels)
		m.Backward(logits, batch.Labels)
		opt.Step()
		window.Record(batch.Size(), dataTime, time.Since(startCompute), loss)

		accMean.Add(acc)
		lossMean.Add(loss)

		if (i+1)%logEvery == 0 {
			snap := window.Snapshot()
			log.Printf("batch=%d samples_per_sec=%.1f data_ms=%.2f compute_ms=%.2f loss=%.4f",
				i+1, snap.SamplesPerSec, snap.AvgDataMS, snap.AvgComputeMS, snap.LastLoss)
		}
	}
	return accMean.Value(), lossMean.Value(), nil
}

// ValidationStep takes one forward-only pass and returns the mean batch
// accuracy and loss. No gradients are accumulated and no update runs.
func ValidationStep(m Model, src DataSource, dev device.Device) (float64, float64, error) {
	if src.NumBatches() == 0 {
		return 0, 0, errors.New("trainer: empty data source")
	}
	var accMean, lossMean metrics.Mean
	m.Eval()
	for i := 0; i < src.NumBatches(); i++ {
		batch := src.Batch(i).To(dev)
		logits := m.Forward(batch)
		lossMean.Add(m.Loss(logits, batch.Labels))
		accMean.Add(metrics.Accuracy(metrics.ArgmaxRows(logits), batch.Labels))
	}
	return accMean.Value(), lossMean.Value(), nil
}
