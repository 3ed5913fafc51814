// Package config loads the experiment configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config captures the runtime knobs for an experiment run.
type Config struct {
	TrainRoot   string `yaml:"train_root"`
	ValRoot     string `yaml:"val_root"`
	TestRoot    string `yaml:"test_root"`
	OutRoot     string `yaml:"out_root"`
	WeightsPath string `yaml:"weights_path"`

	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	WeightDecay  float64 `yaml:"weight_decay"`
	Dropout      float64 `yaml:"dropout"`
	MCDSamples   int     `yaml:"mcd_samples"`

	Encoding     string `yaml:"encoding"`
	MaxSeqLen    int    `yaml:"max_seq_len"`
	VocabBuckets int    `yaml:"vocab_buckets"`
	EmbedDim     int    `yaml:"embed_dim"`
	HiddenDim    int    `yaml:"hidden_dim"`
	NumLabels    int    `yaml:"num_labels"`

	Seed     int64 `yaml:"seed"`
	LogEvery int   `yaml:"log_every"`
}

// Overrides captures CLI supplied values.
type Overrides struct {
	TrainRoot  string
	ValRoot    string
	TestRoot   string
	OutRoot    string
	Epochs     int
	BatchSize  int
	MCDSamples int
	Seed       int64
}

// Load reads and validates a Config from YAML.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.TrainRoot != "" {
		c.TrainRoot = o.TrainRoot
	}
	if o.ValRoot != "" {
		c.ValRoot = o.ValRoot
	}
	if o.TestRoot != "" {
		c.TestRoot = o.TestRoot
	}
	if o.OutRoot != "" {
		c.OutRoot = o.OutRoot
	}
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.MCDSamples > 0 {
		c.MCDSamples = o.MCDSamples
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
}

// Validate verifies the config is runnable and fills defaults for the
// optional knobs.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.TrainRoot == "" || c.ValRoot == "" || c.TestRoot == "" {
		return errors.New("train_root, val_root, and test_root must all be set")
	}
	if c.OutRoot == "" {
		return errors.New("out_root must be set")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("dropout must be in [0,1) (got %g)", c.Dropout)
	}
	if c.LearningRate < 0 {
		return fmt.Errorf("learning_rate must be >= 0 (got %g)", c.LearningRate)
	}
	if c.LearningRate == 0 {
		c.LearningRate = 1e-3
	}
	if c.MCDSamples <= 0 {
		c.MCDSamples = 10
	}
	if c.Encoding == "" {
		c.Encoding = "r50k_base"
	}
	if c.MaxSeqLen <= 0 {
		c.MaxSeqLen = 128
	}
	if c.VocabBuckets < 2 {
		c.VocabBuckets = 8192
	}
	if c.EmbedDim <= 0 {
		c.EmbedDim = 64
	}
	if c.HiddenDim <= 0 {
		c.HiddenDim = 128
	}
	if c.NumLabels <= 0 {
		c.NumLabels = 3
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 50
	}
	return nil
}
