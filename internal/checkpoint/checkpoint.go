// Package checkpoint persists model state dicts as gob blobs, one file
// per training epoch.
package checkpoint

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"seqforge/internal/model"
)

const saveDir = "saves"

// File is the on-disk checkpoint payload: the architecture plus the full
// parameter state, enough to rebuild the model that wrote it.
type File struct {
	Arch  model.Arch
	State model.StateDict
}

// Store writes per-epoch checkpoints under <root>/saves.
type Store struct {
	dir string
}

// NewStore creates the saves directory under root.
func NewStore(root string) (*Store, error) {
	dir := filepath.Join(root, saveDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("checkpoint: create %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the checkpoint path for an epoch index.
func (s *Store) Path(epoch int) string {
	return filepath.Join(s.dir, fmt.Sprintf("model_early_stopping_%d.pkl", epoch))
}

// Save writes the epoch's checkpoint, replacing any previous file with
// the same index.
func (s *Store) Save(epoch int, f File) error {
	return WriteFile(s.Path(epoch), f)
}

// Load reads the epoch's checkpoint.
func (s *Store) Load(epoch int) (File, error) {
	return ReadFile(s.Path(epoch))
}

// WriteFile gob-encodes a checkpoint to path.
func WriteFile(path string, f File) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: create %s: %w", path, err)
	}
	if err := gob.NewEncoder(out).Encode(f); err != nil {
		out.Close()
		return fmt.Errorf("checkpoint: encode %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("checkpoint: close %s: %w", path, err)
	}
	return nil
}

// ReadFile decodes a checkpoint from path.
func ReadFile(path string) (File, error) {
	in, err := os.Open(path)
	if err != nil {
		return File{}, fmt.Errorf("checkpoint: open %s: %w", path, err)
	}
	defer in.Close()
	var f File
	if err := gob.NewDecoder(in).Decode(&f); err != nil {
		return File{}, fmt.Errorf("checkpoint: decode %s: %w", path, err)
	}
	return f, nil
}

// LoadPretrained rebuilds a classifier from a base weights file,
// overriding its dropout rate.
func LoadPretrained(path string, dropout float64, seed int64) (*model.TextClassifier, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return model.FromState(f.Arch, f.State, dropout, seed)
}
