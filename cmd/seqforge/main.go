package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"seqforge/internal/checkpoint"
	"seqforge/internal/config"
	"seqforge/internal/dataset"
	"seqforge/internal/device"
	"seqforge/internal/model"
	"seqforge/internal/optim"
	"seqforge/internal/trainer"
)

// experimentOrder lists the four cells of the (pretrained, dropout) grid
// in sweep order.
var experimentOrder = []string{
	"untrained-normal",
	"untrained-dropout",
	"pretrained-normal",
	"pretrained-dropout",
}

// experiments maps the -experiment flag to run flags. Dropout cells use
// the configured rate, normal cells force it to zero.
var experiments = map[string]struct {
	pretrained bool
	dropout    bool
}{
	"untrained-normal":   {false, false},
	"untrained-dropout":  {false, true},
	"pretrained-normal":  {true, false},
	"pretrained-dropout": {true, true},
}

func main() {
	cfgPath := flag.String("config", "configs/default.yaml", "Path to YAML config")
	experiment := flag.String("experiment", "untrained-normal", "Experiment cell to run, or 'all'")
	trainRoot := flag.String("train-root", "", "Override training shard root")
	valRoot := flag.String("val-root", "", "Override validation shard root")
	testRoot := flag.String("test-root", "", "Override test shard root")
	outRoot := flag.String("out", "", "Override output root")
	epochs := flag.Int("epochs", 0, "Number of training epochs")
	batchSize := flag.Int("batch-size", 0, "Batch size")
	mcdSamples := flag.Int("mcd-samples", 0, "Stochastic forward passes per batch for MCD")
	seed := flag.Int64("seed", 0, "PRNG seed")

	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	cfg.ApplyOverrides(config.Overrides{
		TrainRoot:  *trainRoot,
		ValRoot:    *valRoot,
		TestRoot:   *testRoot,
		OutRoot:    *outRoot,
		Epochs:     *epochs,
		BatchSize:  *batchSize,
		MCDSamples: *mcdSamples,
		Seed:       *seed,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	var names []string
	switch {
	case *experiment == "all":
		names = experimentOrder
	default:
		if _, ok := experiments[*experiment]; !ok {
			log.Fatalf("unknown experiment %q (want one of %v or all)", *experiment, experimentOrder)
		}
		names = []string{*experiment}
	}

	dev := device.Detect()
	log.Printf("device=%s", dev)

	tok, err := dataset.NewTokenizer(cfg.Encoding, cfg.MaxSeqLen, cfg.VocabBuckets)
	if err != nil {
		log.Fatalf("tokenizer: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	trainLoader, err := dataset.LoadSplit(ctx, cfg.TrainRoot, tok, cfg.BatchSize, cfg.Seed, true)
	if err != nil {
		log.Fatalf("load train split: %v", err)
	}
	valLoader, err := dataset.LoadSplit(ctx, cfg.ValRoot, tok, cfg.BatchSize, cfg.Seed, false)
	if err != nil {
		log.Fatalf("load val split: %v", err)
	}
	testLoader, err := dataset.LoadSplit(ctx, cfg.TestRoot, tok, cfg.BatchSize, cfg.Seed, false)
	if err != nil {
		log.Fatalf("load test split: %v", err)
	}
	log.Printf("dataset train=%d val=%d test=%d", trainLoader.Len(), valLoader.Len(), testLoader.Len())

	arch := model.Arch{
		VocabBuckets: cfg.VocabBuckets,
		EmbedDim:     cfg.EmbedDim,
		HiddenDim:    cfg.HiddenDim,
		NumLabels:    cfg.NumLabels,
	}

	for _, name := range names {
		cell := experiments[name]
		dropout := 0.0
		if cell.dropout {
			if cfg.Dropout <= 0 {
				log.Fatalf("experiment %s needs dropout > 0 in the config", name)
			}
			dropout = cfg.Dropout
		}

		var m *model.TextClassifier
		if cell.pretrained {
			m, err = checkpoint.LoadPretrained(cfg.WeightsPath, dropout, cfg.Seed)
			if err != nil {
				log.Fatalf("load pretrained weights: %v", err)
			}
		} else {
			m, err = model.NewTextClassifier(arch, dropout, cfg.Seed)
			if err != nil {
				log.Fatalf("build model: %v", err)
			}
		}

		opt := optim.NewAdamW(m.Parameters(), optim.AdamWConfig{
			LR:          cfg.LearningRate,
			WeightDecay: cfg.WeightDecay,
		})

		run := trainer.RunConfig{
			RunID:      uuid.NewString(),
			Epochs:     cfg.Epochs,
			Pretrained: cell.pretrained,
			Dropout:    dropout,
			MCDSamples: cfg.MCDSamples,
			Device:     dev,
			OutRoot:    cfg.OutRoot,
			LogEvery:   cfg.LogEvery,
		}

		log.Printf("run=%s experiment=%s", run.RunID, name)
		if err := trainer.Train(run, m, opt, trainLoader, valLoader); err != nil {
			log.Fatalf("experiment %s: training failed: %v", name, err)
		}
		acc, err := trainer.Evaluate(run, m, testLoader)
		if err != nil {
			log.Fatalf("experiment %s: evaluation failed: %v", name, err)
		}
		log.Printf("run=%s experiment=%s test_accuracy=%.4f", run.RunID, name, acc)
	}
}
