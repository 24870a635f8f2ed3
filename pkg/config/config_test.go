package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Generation.MaxLineBreaks != 18 {
		t.Errorf("max line breaks = %d, want 18", cfg.Generation.MaxLineBreaks)
	}
	if cfg.Corpus.MaxPoemLines != 20 {
		t.Errorf("max poem lines = %d, want 20", cfg.Corpus.MaxPoemLines)
	}
	if cfg.Generation.Signature != "Poetic AI" {
		t.Errorf("signature = %q, want %q", cfg.Generation.Signature, "Poetic AI")
	}
}

func TestLoadMissingFileIsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected error for explicitly given missing file")
	}
}

func TestLoadOverridesAndEnvResolution(t *testing.T) {
	t.Setenv("POEM_CORPUS_ROOT", "/data/poems")

	raw := `{
		"corpus": {"root": "${POEM_CORPUS_ROOT}", "output_path": "corpus.txt", "max_poem_lines": 30, "reflow_width": 60},
		"generation": {"checkpoint_path": "m.ckpt", "output_path": "gen.txt", "temperature": 0.8, "top_k": 5, "max_line_breaks": 12, "max_new_tokens": 500, "signature": "Poetic AI", "reload_each_attempt": false}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Corpus.Root != "/data/poems" {
		t.Errorf("env var not resolved: %q", cfg.Corpus.Root)
	}
	if cfg.Corpus.MaxPoemLines != 30 {
		t.Errorf("max poem lines = %d, want 30", cfg.Corpus.MaxPoemLines)
	}
	if cfg.Generation.Temperature != 0.8 || cfg.Generation.TopK != 5 {
		t.Errorf("generation overrides not applied: %+v", cfg.Generation)
	}
	if cfg.Generation.ReloadEachAttempt {
		t.Error("reload_each_attempt override not applied")
	}
	// Sections absent from the file keep their defaults.
	if cfg.Model.EmbedDim != 512 {
		t.Errorf("model defaults lost: %+v", cfg.Model)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	raw := `{"training": {"block_size": 4096}}`
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for block size over context window")
	}
}
