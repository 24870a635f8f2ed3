package corpus

import (
	"errors"
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name       string
		folder     string
		filename   string
		wantTitle  string
		wantAuthor string
		wantErr    error
	}{
		{
			name:       "simple",
			folder:     "nature",
			filename:   "naturePoemsTheOldCatPoemby JaneDoe.txt",
			wantTitle:  "The Old Cat",
			wantAuthor: "JaneDoe",
		},
		{
			name:       "subcategory between topic and marker",
			folder:     "nature",
			filename:   "natureCatsPoemsTheOldCatPoemby JaneDoe.txt",
			wantTitle:  "The Old Cat",
			wantAuthor: "JaneDoe",
		},
		{
			name:       "single word title",
			folder:     "love",
			filename:   "lovePoemsForeverPoemby Keats.txt",
			wantTitle:  "Forever",
			wantAuthor: "Keats",
		},
		{
			name:       "underscore before author",
			folder:     "winter",
			filename:   "winterPoemsSnowfallPoemby_RobertFrost.txt",
			wantTitle:  "Snowfall",
			wantAuthor: "RobertFrost",
		},
		{
			name:     "no poems marker",
			folder:   "nature",
			filename: "notes.txt",
			wantErr:  ErrNotPoemFile,
		},
		{
			name:     "marker does not match folder",
			folder:   "nature",
			filename: "lovePoemsForeverPoemby Keats.txt",
			wantErr:  ErrNotPoemFile,
		},
		{
			name:     "no author segment",
			folder:   "nature",
			filename: "naturePoemsTheOldCat.txt",
			wantErr:  ErrNoAuthor,
		},
		{
			name:     "empty author",
			folder:   "nature",
			filename: "naturePoemsTheOldCatPoemby.txt",
			wantErr:  ErrNoAuthor,
		},
		{
			name:     "empty title",
			folder:   "nature",
			filename: "naturePoemsPoemby JaneDoe.txt",
			wantErr:  ErrNotPoemFile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta, err := ParseFilename(tt.folder, tt.filename)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if meta.Title != tt.wantTitle {
				t.Errorf("title: got %q, want %q", meta.Title, tt.wantTitle)
			}
			if meta.Author != tt.wantAuthor {
				t.Errorf("author: got %q, want %q", meta.Author, tt.wantAuthor)
			}
		})
	}
}

func TestSpaceTitleWords(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"TheOldCat", "The Old Cat"},
		{"Forever", "Forever"},
		{"ABC", "A B C"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := spaceTitleWords(tt.in); got != tt.want {
			t.Errorf("spaceTitleWords(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
