// Package runlog appends experiment metrics to per-run text files.
//
// Files live under <root>/evaluation_data/{pretrained|untrained}/
// {normal|dropout}/ and are append-only: runs against the same directory
// accumulate. A single process is assumed to own the directory; the
// writers take no locks.
package runlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Metric file names within a run directory.
const (
	TrainAccuracyFile   = "train_accuracy.txt"
	TrainLossFile       = "train_loss.txt"
	ValAccuracyFile     = "val_accuracy.txt"
	ValLossFile         = "val_loss.txt"
	TestAccuracyFile    = "test_accuracy.txt"
	TestAccuracyMCDFile = "test_accuracy_mcd.txt"
	ConfusionFile       = "confusion_matrix.txt"
	ConfusionMCDFile    = "confusion_matrix_mcd.txt"
)

// Writer appends metrics for one (pretrained, dropout) run category.
type Writer struct {
	dir string
}

// New resolves and creates the category directory for the run flags.
func New(root string, pretrained bool, dropout float64) (*Writer, error) {
	dir := Dir(root, pretrained, dropout)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("runlog: create %s: %w", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Dir returns the category directory for the run flags without creating it.
func Dir(root string, pretrained bool, dropout float64) string {
	variant := "untrained"
	if pretrained {
		variant = "pretrained"
	}
	mode := "normal"
	if dropout > 0 {
		mode = "dropout"
	}
	return filepath.Join(root, "evaluation_data", variant, mode)
}

// Path returns the full path of a metric file in this run's directory.
func (w *Writer) Path(name string) string { return filepath.Join(w.dir, name) }

// Append writes text to the named file. Text without a newline gets a
// trailing space, so successive values on one run line stay separated.
func (w *Writer) Append(name, text string) error {
	f, err := os.OpenFile(w.Path(name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("runlog: open %s: %w", name, err)
	}
	if !strings.Contains(text, "\n") {
		text += " "
	}
	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return fmt.Errorf("runlog: write %s: %w", name, err)
	}
	return f.Close()
}

// AppendValue appends one scalar metric value without a line break.
func (w *Writer) AppendValue(name string, v float64) error {
	return w.Append(name, strconv.FormatFloat(v, 'g', -1, 64))
}

// AppendLine appends one scalar metric value terminated by a newline.
func (w *Writer) AppendLine(name string, v float64) error {
	return w.Append(name, strconv.FormatFloat(v, 'g', -1, 64)+"\n")
}

// Separator writes a blank line marking a run boundary in each file.
func (w *Writer) Separator(names ...string) error {
	for _, name := range names {
		if err := w.Append(name, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// AppendMatrix appends a confusion matrix as an integer grid followed by
// a footer line.
func (w *Writer) AppendMatrix(name string, grid [][]int) error {
	var sb strings.Builder
	for _, row := range grid {
		for j, v := range row {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("# \n")
	return w.Append(name, sb.String())
}
