package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Corpus delimiters. Every accepted poem is serialized as a block opened by
// StartMarker and closed by EndMarker, with the author on the line after
// EndMarker. The generation loop depends on these exact literals.
const (
	StartMarker = "Poem Start"
	EndMarker   = "END"
)

// BuilderConfig configures corpus assembly.
type BuilderConfig struct {
	Root         string `json:"root"`
	OutputPath   string `json:"output_path"`
	MaxPoemLines int    `json:"max_poem_lines"`
	ReflowWidth  int    `json:"reflow_width"`
}

// DefaultBuilderConfig returns default configuration.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Root:         "topics",
		OutputPath:   "mega_poems.txt",
		MaxPoemLines: 20,
		ReflowWidth:  DefaultReflowWidth,
	}
}

// BuildStats counts per-file outcomes of a corpus build. Skips are
// classified, never fatal.
type BuildStats struct {
	Accepted   int `json:"accepted"`
	NotPoem    int `json:"skipped_not_poem"`
	NoAuthor   int `json:"skipped_no_author"`
	Unreadable int `json:"skipped_unreadable"`
	TooLong    int `json:"skipped_too_long"`
}

// Skipped returns the total number of files that contributed nothing.
func (s *BuildStats) Skipped() int {
	return s.NotPoem + s.NoAuthor + s.Unreadable + s.TooLong
}

// Builder assembles a training corpus from a directory tree of poem files.
type Builder struct {
	config BuilderConfig
}

// NewBuilder creates a new builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.MaxPoemLines <= 0 {
		cfg.MaxPoemLines = 20
	}
	if cfg.ReflowWidth <= 0 {
		cfg.ReflowWidth = DefaultReflowWidth
	}
	return &Builder{config: cfg}
}

// Build walks every file of every topic folder under root and returns the
// assembled corpus text along with per-outcome counts. Per-file failures are
// counted and skipped; only an unreadable root is an error.
func (b *Builder) Build(root string) (string, *BuildStats, error) {
	folders, err := os.ReadDir(root)
	if err != nil {
		return "", nil, fmt.Errorf("reading corpus root: %w", err)
	}

	stats := &BuildStats{}
	var mega strings.Builder

	for _, folder := range folders {
		if !folder.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(root, folder.Name()))
		if err != nil {
			stats.Unreadable++
			continue
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			block, outcome := b.buildPoem(root, folder.Name(), file.Name())
			switch outcome {
			case outcomeAccepted:
				mega.WriteString(block)
				stats.Accepted++
			case outcomeNotPoem:
				stats.NotPoem++
			case outcomeNoAuthor:
				stats.NoAuthor++
			case outcomeUnreadable:
				stats.Unreadable++
			case outcomeTooLong:
				stats.TooLong++
			}
		}
	}

	return mega.String(), stats, nil
}

// BuildToFile builds the corpus and writes it to the configured output path
// in a single shot, overwriting any existing content.
func (b *Builder) BuildToFile() (*BuildStats, error) {
	text, stats, err := b.Build(b.config.Root)
	if err != nil {
		return nil, err
	}
	if err := WriteCorpus(b.config.OutputPath, text); err != nil {
		return nil, err
	}
	return stats, nil
}

type outcome int

const (
	outcomeAccepted outcome = iota
	outcomeNotPoem
	outcomeNoAuthor
	outcomeUnreadable
	outcomeTooLong
)

// buildPoem produces the serialized block for a single poem file, or the
// reason it contributed nothing. A poem over the line limit is excluded
// whole: no partial output.
func (b *Builder) buildPoem(root, folder, name string) (string, outcome) {
	meta, err := ParseFilename(folder, name)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoAuthor):
		return "", outcomeNoAuthor
	default:
		return "", outcomeNotPoem
	}

	raw, err := os.ReadFile(filepath.Join(root, folder, name))
	if err != nil {
		return "", outcomeUnreadable
	}

	lines := splitLines(string(raw))
	if len(lines) > b.config.MaxPoemLines {
		return "", outcomeTooLong
	}

	var block strings.Builder
	block.WriteString(StartMarker)
	block.WriteByte('\n')
	block.WriteString(meta.Title)
	block.WriteString("\n\n")
	for i, line := range lines {
		if i > 0 {
			block.WriteByte('\n')
		}
		block.WriteString(ReflowLine(normalizeText(line), b.config.ReflowWidth))
	}
	block.WriteByte('\n')
	block.WriteString(EndMarker)
	block.WriteByte('\n')
	block.WriteString(meta.Author)
	block.WriteString("\n\n\n")
	return block.String(), outcomeAccepted
}

// WriteCorpus writes the corpus text to path with an atomic tmp+rename
// replace, creating parent directories as needed.
func WriteCorpus(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("failed to write corpus file: %w", err)
	}
	return os.Rename(tmp, path)
}

// splitLines splits raw file content into lines without their terminators.
// A trailing newline does not produce an extra empty line.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

// normalizeText strips combining marks so the character vocabulary stays
// small. Case is preserved.
func normalizeText(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return result
}
