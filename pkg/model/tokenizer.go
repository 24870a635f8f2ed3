package model

import (
	"fmt"
	"sort"
	"strings"
)

// Tokenizer maps characters to token IDs and back. The vocabulary is the
// sorted set of unique runes in the training corpus, so the mapping is
// stable for a given corpus and travels inside checkpoints.
type Tokenizer struct {
	Vocab        map[rune]int
	InverseVocab map[int]rune
	VocabSize    int
}

// NewTokenizer builds a character vocabulary from text.
func NewTokenizer(text string) *Tokenizer {
	seen := make(map[rune]bool)
	for _, r := range text {
		seen[r] = true
	}
	chars := make([]rune, 0, len(seen))
	for r := range seen {
		chars = append(chars, r)
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i] < chars[j] })

	t := &Tokenizer{
		Vocab:        make(map[rune]int, len(chars)),
		InverseVocab: make(map[int]rune, len(chars)),
	}
	for _, r := range chars {
		t.Vocab[r] = t.VocabSize
		t.InverseVocab[t.VocabSize] = r
		t.VocabSize++
	}
	return t
}

// Encode converts text to token IDs. A rune outside the vocabulary is an
// error: the mapping is fixed by the training corpus and there is no
// unknown token.
func (t *Tokenizer) Encode(text string) ([]int, error) {
	ids := make([]int, 0, len(text))
	for _, r := range text {
		id, ok := t.Vocab[r]
		if !ok {
			return nil, fmt.Errorf("character %q not in vocabulary", r)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Decode converts token IDs back to text. IDs outside the vocabulary are
// dropped.
func (t *Tokenizer) Decode(ids []int) string {
	var b strings.Builder
	b.Grow(len(ids))
	for _, id := range ids {
		if r, ok := t.InverseVocab[id]; ok {
			b.WriteRune(r)
		}
	}
	return b.String()
}
