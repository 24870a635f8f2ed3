package corpus

import (
	"strings"
	"testing"
)

func TestReflowLine(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		segments int
	}{
		{"short line untouched", 10, 1},
		{"exactly width", 60, 1},
		{"one over width", 61, 2},
		{"two full segments", 120, 2},
		{"two and a bit", 130, 3},
		{"empty", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := strings.Repeat("a", tt.length)
			got := ReflowLine(line, DefaultReflowWidth)

			segments := strings.Split(got, "\n")
			if len(segments) != tt.segments {
				t.Fatalf("got %d segments, want %d", len(segments), tt.segments)
			}
			for i, seg := range segments {
				if len(seg) > DefaultReflowWidth {
					t.Errorf("segment %d has %d chars, limit is %d", i, len(seg), DefaultReflowWidth)
				}
			}
			if strings.ReplaceAll(got, "\n", "") != line {
				t.Error("reflow changed line content")
			}
		})
	}
}

func TestReflowLineIdempotentOnShortLines(t *testing.T) {
	line := "a short line"
	once := ReflowLine(line, DefaultReflowWidth)
	if once != line {
		t.Fatalf("short line changed: %q", once)
	}
	if again := ReflowLine(once, DefaultReflowWidth); again != once {
		t.Fatalf("reflow not idempotent: %q", again)
	}
}

func TestReflowLineCountsRunes(t *testing.T) {
	line := strings.Repeat("é", 70)
	got := ReflowLine(line, DefaultReflowWidth)
	segments := strings.Split(got, "\n")
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if n := len([]rune(segments[0])); n != 60 {
		t.Errorf("first segment has %d runes, want 60", n)
	}
}
