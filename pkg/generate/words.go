package generate

import (
	"bufio"
	"embed"
	"fmt"
	"math/rand"
	"strings"
)

//go:embed words.txt
var wordsFS embed.FS

// WordSource supplies the random seed word for each sampling attempt.
type WordSource interface {
	RandomWord() (string, error)
}

// ListWordSource draws uniformly from a fixed word list.
type ListWordSource struct {
	words []string
	rng   *rand.Rand
}

// NewListWordSource creates a word source over the given list.
func NewListWordSource(words []string) (*ListWordSource, error) {
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return &ListWordSource{
		words: words,
		rng:   rand.New(rand.NewSource(rand.Int63())),
	}, nil
}

// EmbeddedWordSource loads the word list bundled with the binary.
func EmbeddedWordSource() (*ListWordSource, error) {
	f, err := wordsFS.Open("words.txt")
	if err != nil {
		return nil, fmt.Errorf("opening embedded word list: %w", err)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading embedded word list: %w", err)
	}
	return NewListWordSource(words)
}

// RandomWord returns a uniformly chosen word from the list.
func (s *ListWordSource) RandomWord() (string, error) {
	return s.words[s.rng.Intn(len(s.words))], nil
}
