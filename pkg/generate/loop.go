package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/oarkflow/poemgen/pkg/corpus"
	"github.com/oarkflow/poemgen/pkg/model"
)

// ErrNoEndMarker indicates a sampled completion never produced the "END"
// marker. This is a hard failure: the model is not producing corpus-shaped
// text and resampling will not be attempted.
var ErrNoEndMarker = errors.New("sampled completion contains no END marker")

// Generator is the narrow sampling interface the loop drives. *model.Model
// satisfies it; tests substitute fakes.
type Generator interface {
	Generate(seed []int, maxNewTokens int, temperature float64, topK int) []int
}

// LoadFunc loads a checkpoint from disk.
type LoadFunc func(path string) (Generator, *model.Tokenizer, error)

// LoadCheckpoint adapts model.LoadCheckpoint to LoadFunc.
func LoadCheckpoint(path string) (Generator, *model.Tokenizer, error) {
	m, tok, err := model.LoadCheckpoint(path)
	if err != nil {
		return nil, nil, err
	}
	return m, tok, nil
}

// LoopConfig configures the rejection-sampling loop.
type LoopConfig struct {
	CheckpointPath string  `json:"checkpoint_path"`
	OutputPath     string  `json:"output_path"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	TopK           int     `json:"top_k"`
	MaxLineBreaks  int     `json:"max_line_breaks"`
	Signature      string  `json:"signature"`

	// ReloadEachAttempt re-reads the checkpoint file before every sampling
	// attempt, so a long-running loop picks up a checkpoint that is being
	// retrained concurrently. Off, the checkpoint is loaded once.
	ReloadEachAttempt bool `json:"reload_each_attempt"`

	// MaxAttempts bounds the number of sampling attempts. 0 means retry
	// until a sample passes or the context is cancelled.
	MaxAttempts int `json:"max_attempts"`
}

// DefaultLoopConfig returns default generation configuration.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		CheckpointPath:    "poem_model.ckpt",
		OutputPath:        "latest_generation.txt",
		MaxNewTokens:      2000,
		Temperature:       1.0,
		TopK:              10,
		MaxLineBreaks:     18,
		Signature:         "Poetic AI",
		ReloadEachAttempt: true,
		MaxAttempts:       0,
	}
}

// Result is the accepted generation.
type Result struct {
	Text     string // truncated at the END marker, inclusive
	Word     string // seed word of the accepted attempt
	Attempts int
}

// Loop samples poems until one is short enough. Each attempt seeds the
// model with "Poem Start\n<word>\n\n", samples, truncates at the first END
// marker, and accepts only if the truncated text has at most MaxLineBreaks
// line breaks.
type Loop struct {
	config LoopConfig
	words  WordSource
	load   LoadFunc

	gen Generator
	tok *model.Tokenizer

	logf func(format string, args ...any)
}

// NewLoop creates a generation loop. load is called to (re)read the
// checkpoint; pass LoadCheckpoint for the on-disk format.
func NewLoop(cfg LoopConfig, words WordSource, load LoadFunc) *Loop {
	if cfg.MaxNewTokens <= 0 {
		cfg.MaxNewTokens = 2000
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = 1.0
	}
	if cfg.MaxLineBreaks <= 0 {
		cfg.MaxLineBreaks = 18
	}
	return &Loop{
		config: cfg,
		words:  words,
		load:   load,
		logf:   func(format string, args ...any) { fmt.Printf(format, args...) },
	}
}

// SetLogger replaces the progress logger. A nil logger silences progress
// output.
func (l *Loop) SetLogger(logf func(format string, args ...any)) {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	l.logf = logf
}

// Run samples until an attempt satisfies the line-break predicate, then
// writes the accepted text plus the signature line to the output path and
// returns the result. It never returns an accepted result whose line-break
// count exceeds the limit, and it stops on the first attempt that passes.
func (l *Loop) Run(ctx context.Context) (*Result, error) {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if l.config.MaxAttempts > 0 && attempt > l.config.MaxAttempts {
			return nil, fmt.Errorf("no acceptable sample after %d attempts", l.config.MaxAttempts)
		}

		if err := l.ensureModel(); err != nil {
			return nil, err
		}

		word, err := l.words.RandomWord()
		if err != nil {
			return nil, fmt.Errorf("getting random word: %w", err)
		}

		text, err := l.sample(word)
		if err != nil {
			return nil, err
		}

		breaks := strings.Count(text, "\n")
		if breaks > l.config.MaxLineBreaks {
			l.logf("Attempt %d (%q): %d line breaks, resampling\n", attempt, word, breaks)
			continue
		}

		l.logf("Attempt %d (%q): %d line breaks, accepted\n", attempt, word, breaks)
		res := &Result{Text: text, Word: word, Attempts: attempt}
		if l.config.OutputPath != "" {
			if err := WriteResult(l.config.OutputPath, text, l.config.Signature); err != nil {
				return nil, err
			}
		}
		return res, nil
	}
}

// ensureModel loads the checkpoint, either on every attempt or once.
func (l *Loop) ensureModel() error {
	if l.gen != nil && !l.config.ReloadEachAttempt {
		return nil
	}
	gen, tok, err := l.load(l.config.CheckpointPath)
	if err != nil {
		return fmt.Errorf("loading checkpoint: %w", err)
	}
	l.gen, l.tok = gen, tok
	return nil
}

// sample runs a single attempt and truncates at the first END marker.
func (l *Loop) sample(word string) (string, error) {
	prompt := corpus.StartMarker + "\n" + word + "\n\n"
	seed, err := l.tok.Encode(prompt)
	if err != nil {
		return "", fmt.Errorf("encoding prompt: %w", err)
	}

	out := l.gen.Generate(seed, l.config.MaxNewTokens, l.config.Temperature, l.config.TopK)
	completion := l.tok.Decode(out)

	idx := strings.Index(completion, corpus.EndMarker)
	if idx < 0 {
		return "", ErrNoEndMarker
	}
	return completion[:idx+len(corpus.EndMarker)], nil
}

// WriteResult writes the accepted text plus the signature line to path,
// overwriting any prior content.
func WriteResult(path, text, signature string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	out := text
	if signature != "" {
		out += "\n" + signature
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write generation: %w", err)
	}
	return nil
}
