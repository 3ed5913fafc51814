package trainer

import (
	"errors"
	"log"

	"seqforge/internal/metrics"
	"seqforge/internal/model"
	"seqforge/internal/runlog"
)

// Evaluate runs the held-out pass. Point predictions in eval mode feed a
// confusion matrix and the running accuracy. For dropout runs every
// batch is additionally re-predicted MCDSamples times with only the
// dropout layers re-activated (the rest of the model stays in eval
// mode), and the per-sample majority vote feeds a second confusion
// matrix. Returns the plain, non-MCD mean accuracy.
func Evaluate(run RunConfig, m Model, src DataSource) (float64, error) {
	if err := run.validate(); err != nil {
		return 0, err
	}
	if src.NumBatches() == 0 {
		return 0, errors.New("trainer: empty data source")
	}
	logw, err := runlog.New(run.OutRoot, run.Pretrained, run.Dropout)
	if err != nil {
		return 0, err
	}

	numLabels := m.Arch().NumLabels
	cm := metrics.NewConfusionMatrix(numLabels)
	cmMCD := metrics.NewConfusionMatrix(numLabels)
	var accMean, accMCDMean metrics.Mean

	for i := 0; i < src.NumBatches(); i++ {
		batch := src.Batch(i).To(run.Device)

		m.Eval()
		preds := metrics.ArgmaxRows(m.Forward(batch))
		if err := cm.Update(preds, batch.Labels); err != nil {
			return 0, err
		}
		accMean.Add(metrics.Accuracy(preds, batch.Labels))

		if run.Dropout <= 0 {
			continue
		}

		m.SetLayerMode(model.IsDropout, true)
		votes := make([][]int, batch.Size())
		for s := range votes {
			votes[s] = make([]int, run.MCDSamples)
		}
		for t := 0; t < run.MCDSamples; t++ {
			sampled := metrics.ArgmaxRows(m.Forward(batch))
			for s, p := range sampled {
				votes[s][t] = p
			}
		}
		m.SetLayerMode(model.IsDropout, false)

		mcdPreds := make([]int, batch.Size())
		for s, v := range votes {
			mcdPreds[s] = metrics.MajorityVote(v, numLabels)
		}
		if err := cmMCD.Update(mcdPreds, batch.Labels); err != nil {
			return 0, err
		}
		accMCDMean.Add(metrics.Accuracy(mcdPreds, batch.Labels))
	}

	if err := logw.AppendLine(runlog.TestAccuracyFile, accMean.Value()); err != nil {
		return 0, err
	}
	if err := logw.AppendMatrix(runlog.ConfusionFile, cm.Grid()); err != nil {
		return 0, err
	}

	if run.Dropout > 0 {
		if err := logw.AppendLine(runlog.TestAccuracyMCDFile, accMCDMean.Value()); err != nil {
			return 0, err
		}
		if err := logw.AppendMatrix(runlog.ConfusionMCDFile, cmMCD.Grid()); err != nil {
			return 0, err
		}
		log.Printf("run=%s test_acc=%.4f test_acc_mcd=%.4f", run.RunID, accMean.Value(), accMCDMean.Value())
	} else {
		log.Printf("run=%s test_acc=%.4f", run.RunID, accMean.Value())
	}
	return accMean.Value(), nil
}
