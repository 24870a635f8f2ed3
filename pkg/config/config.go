// Package config loads the JSON configuration shared by the corpus, train,
// and generate commands. All sections have working defaults; a missing
// config file is not an error.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/oarkflow/poemgen/pkg/corpus"
	"github.com/oarkflow/poemgen/pkg/generate"
	"github.com/oarkflow/poemgen/pkg/model"
	"github.com/oarkflow/poemgen/pkg/train"
)

// Config is the complete application configuration.
type Config struct {
	Version    string               `json:"version"`
	Corpus     corpus.BuilderConfig `json:"corpus"`
	Model      model.Config         `json:"model"`
	Training   train.Config         `json:"training"`
	Generation generate.LoopConfig  `json:"generation"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version:    "1",
		Corpus:     corpus.DefaultBuilderConfig(),
		Model:      model.DefaultConfig(),
		Training:   train.DefaultConfig(),
		Generation: generate.DefaultLoopConfig(),
	}
}

// Load reads the configuration from a JSON file, applying defaults for
// absent fields. An empty path returns the defaults; a missing file is an
// error only when a path was given explicitly.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.resolveEnvVars()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveEnvVars expands ${ENV_VAR} references in path fields.
func (c *Config) resolveEnvVars() {
	c.Corpus.Root = resolveEnvVar(c.Corpus.Root)
	c.Corpus.OutputPath = resolveEnvVar(c.Corpus.OutputPath)
	c.Training.CheckpointPath = resolveEnvVar(c.Training.CheckpointPath)
	c.Generation.CheckpointPath = resolveEnvVar(c.Generation.CheckpointPath)
	c.Generation.OutputPath = resolveEnvVar(c.Generation.OutputPath)
}

// resolveEnvVar resolves a single ${VAR} reference, leaving other values
// untouched. Unset variables resolve to the empty string.
func resolveEnvVar(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	return s
}

// Validate reports configuration errors that would only surface mid-run.
func (c *Config) Validate() error {
	if err := c.Model.Validate(); err != nil {
		return err
	}
	if c.Corpus.MaxPoemLines <= 0 {
		return fmt.Errorf("corpus.max_poem_lines must be positive, got %d", c.Corpus.MaxPoemLines)
	}
	if c.Corpus.ReflowWidth <= 0 {
		return fmt.Errorf("corpus.reflow_width must be positive, got %d", c.Corpus.ReflowWidth)
	}
	if c.Training.BlockSize > c.Model.MaxSeqLen {
		return fmt.Errorf("training.block_size %d exceeds model.max_seq_len %d",
			c.Training.BlockSize, c.Model.MaxSeqLen)
	}
	if c.Generation.MaxLineBreaks <= 0 {
		return fmt.Errorf("generation.max_line_breaks must be positive, got %d", c.Generation.MaxLineBreaks)
	}
	return nil
}
