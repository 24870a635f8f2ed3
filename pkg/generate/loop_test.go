package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oarkflow/poemgen/pkg/model"
)

// scriptedGenerator returns pre-encoded completions, one per call.
type scriptedGenerator struct {
	tok     *model.Tokenizer
	scripts []string
	calls   int
}

func (g *scriptedGenerator) Generate(seed []int, maxNewTokens int, temperature float64, topK int) []int {
	script := g.scripts[g.calls%len(g.scripts)]
	g.calls++
	ids, err := g.tok.Encode(script)
	if err != nil {
		panic(err)
	}
	return ids
}

// fixedWords cycles through a fixed list of seed words.
type fixedWords struct {
	words []string
	calls int
}

func (w *fixedWords) RandomWord() (string, error) {
	word := w.words[w.calls%len(w.words)]
	w.calls++
	return word, nil
}

func testTokenizer() *model.Tokenizer {
	return model.NewTokenizer("Poem Start\nEND abcdefghijklmnopqrstuvwxyz0123456789")
}

func testLoop(t *testing.T, scripts []string, cfg LoopConfig) (*Loop, *scriptedGenerator, *int) {
	t.Helper()
	tok := testTokenizer()
	gen := &scriptedGenerator{tok: tok, scripts: scripts}
	loads := 0
	load := func(path string) (Generator, *model.Tokenizer, error) {
		loads++
		return gen, tok, nil
	}
	loop := NewLoop(cfg, &fixedWords{words: []string{"rain", "moss"}}, load)
	loop.SetLogger(nil)
	return loop, gen, &loads
}

func poemWithBreaks(n int) string {
	return "Poem Start\nrain\n\n" + strings.Repeat("line\n", n-3) + "END\ntrailing text"
}

func TestRunAcceptsFirstShortSample(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.txt")

	loop, _, _ := testLoop(t, []string{poemWithBreaks(5)}, cfg)
	res, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
	if !strings.HasSuffix(res.Text, "END") {
		t.Errorf("text not truncated at END: %q", res.Text)
	}
	if breaks := strings.Count(res.Text, "\n"); breaks > cfg.MaxLineBreaks {
		t.Errorf("accepted %d line breaks, limit %d", breaks, cfg.MaxLineBreaks)
	}

	data, err := os.ReadFile(cfg.OutputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if want := res.Text + "\n" + cfg.Signature; string(data) != want {
		t.Errorf("output file:\ngot  %q\nwant %q", string(data), want)
	}
}

func TestRunResamplesLongPoems(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), "out.txt")

	loop, gen, _ := testLoop(t, []string{poemWithBreaks(25), poemWithBreaks(25), poemWithBreaks(4)}, cfg)
	res, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Attempts != 3 {
		t.Errorf("attempts = %d, want 3", res.Attempts)
	}
	if gen.calls != 3 {
		t.Errorf("generator called %d times, want 3", gen.calls)
	}
	if breaks := strings.Count(res.Text, "\n"); breaks > cfg.MaxLineBreaks {
		t.Errorf("accepted %d line breaks, limit %d", breaks, cfg.MaxLineBreaks)
	}
}

func TestRunAcceptsAtExactLimit(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""

	// 18 line breaks is within the limit, not over it.
	loop, _, _ := testLoop(t, []string{poemWithBreaks(18)}, cfg)
	res, err := loop.Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", res.Attempts)
	}
}

func TestRunMissingEndMarkerIsFatal(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""

	loop, _, _ := testLoop(t, []string{"Poem Start\nrain\n\nno marker here"}, cfg)
	_, err := loop.Run(context.Background())
	if !errors.Is(err, ErrNoEndMarker) {
		t.Fatalf("expected ErrNoEndMarker, got %v", err)
	}
}

func TestRunReloadsCheckpointEachAttempt(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""
	cfg.ReloadEachAttempt = true

	loop, _, loads := testLoop(t, []string{poemWithBreaks(25), poemWithBreaks(25), poemWithBreaks(4)}, cfg)
	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *loads != 3 {
		t.Errorf("checkpoint loaded %d times, want 3", *loads)
	}
}

func TestRunLoadsCheckpointOnceWhenReloadDisabled(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""
	cfg.ReloadEachAttempt = false

	loop, _, loads := testLoop(t, []string{poemWithBreaks(25), poemWithBreaks(4)}, cfg)
	if _, err := loop.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *loads != 1 {
		t.Errorf("checkpoint loaded %d times, want 1", *loads)
	}
}

func TestRunHonorsMaxAttempts(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""
	cfg.MaxAttempts = 2

	loop, _, _ := testLoop(t, []string{poemWithBreaks(25)}, cfg)
	if _, err := loop.Run(context.Background()); err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""

	loop, _, _ := testLoop(t, []string{poemWithBreaks(25)}, cfg)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunPropagatesLoadFailure(t *testing.T) {
	cfg := DefaultLoopConfig()
	cfg.OutputPath = ""

	load := func(path string) (Generator, *model.Tokenizer, error) {
		return nil, nil, errors.New("checkpoint corrupt")
	}
	loop := NewLoop(cfg, &fixedWords{words: []string{"rain"}}, load)
	loop.SetLogger(nil)
	if _, err := loop.Run(context.Background()); err == nil {
		t.Fatal("expected load failure to propagate")
	}
}
