package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/gzip"
)

// Checkpoint is the persisted snapshot of a trained model. It carries the
// tokenizer so sampling does not need the original corpus file.
type Checkpoint struct {
	SavedAt   time.Time
	Config    Config
	Tokenizer *Tokenizer
	Model     *Model
}

// SaveCheckpoint writes a gob-encoded, gzip-compressed checkpoint to path
// with an atomic tmp+rename replace.
func SaveCheckpoint(path string, m *Model, tok *Tokenizer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	ckpt := Checkpoint{
		SavedAt: time.Now(),
		Config: Config{
			EmbedDim:  m.EmbedDim,
			NumLayers: m.NumLayers,
			NumHeads:  m.NumHeads,
			MaxSeqLen: m.MaxSeqLen,
		},
		Tokenizer: tok,
		Model:     m,
	}

	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create checkpoint file: %w", err)
	}

	zw := gzip.NewWriter(f)
	if err := gob.NewEncoder(zw).Encode(&ckpt); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to encode checkpoint: %w", err)
	}
	if err := zw.Close(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to flush checkpoint: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to close checkpoint file: %w", err)
	}
	return os.Rename(tmp, path)
}

// LoadCheckpoint reads a checkpoint from path and validates its shape.
func LoadCheckpoint(path string) (*Model, *Tokenizer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	defer zr.Close()

	var ckpt Checkpoint
	if err := gob.NewDecoder(zr).Decode(&ckpt); err != nil {
		return nil, nil, fmt.Errorf("failed to decode checkpoint: %w", err)
	}

	if ckpt.Model == nil || ckpt.Tokenizer == nil {
		return nil, nil, fmt.Errorf("invalid checkpoint: missing model or tokenizer")
	}
	if err := ckpt.Config.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid checkpoint: %w", err)
	}
	if ckpt.Model.VocabSize != ckpt.Tokenizer.VocabSize {
		return nil, nil, fmt.Errorf("invalid checkpoint: model vocab %d does not match tokenizer vocab %d",
			ckpt.Model.VocabSize, ckpt.Tokenizer.VocabSize)
	}
	return ckpt.Model, ckpt.Tokenizer, nil
}
