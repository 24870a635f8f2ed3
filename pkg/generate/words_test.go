package generate

import "testing"

func TestEmbeddedWordSource(t *testing.T) {
	src, err := EmbeddedWordSource()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(src.words) == 0 {
		t.Fatal("embedded word list is empty")
	}

	inList := make(map[string]bool, len(src.words))
	for _, w := range src.words {
		inList[w] = true
	}
	for i := 0; i < 20; i++ {
		word, err := src.RandomWord()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if word == "" {
			t.Fatal("empty word")
		}
		if !inList[word] {
			t.Fatalf("word %q not from the list", word)
		}
	}
}

func TestNewListWordSourceRejectsEmptyList(t *testing.T) {
	if _, err := NewListWordSource(nil); err == nil {
		t.Fatal("expected error for empty word list")
	}
}
