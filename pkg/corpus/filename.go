package corpus

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// Poem filenames encode title and author using a fixed convention:
//
//	<topic...>Poems<TitleCaseWords>Poemby<Author>.<ext>
//
// where the segment before "Poems" must begin with the topic folder's name
// (case-insensitive), the title is a run of TitleCase words with no
// separators, and the author follows the literal "Poemby" token, optionally
// preceded by a space or underscore.
const (
	poemsMarker  = "Poems"
	authorMarker = "Poemby"
)

var (
	// ErrNotPoemFile indicates the filename does not carry the
	// "<topic>Poems" marker and is not part of the collection.
	ErrNotPoemFile = errors.New("filename does not match poem naming convention")

	// ErrNoAuthor indicates the filename matched the topic marker but has
	// no "Poemby" author segment.
	ErrNoAuthor = errors.New("filename has no author segment")
)

// PoemMeta is the structured result of parsing a poem filename.
type PoemMeta struct {
	Title  string
	Author string
}

// ParseFilename derives a poem's title and author from its filename.
// folder is the topic directory the file lives in; name is the bare
// filename. Failures are tagged with ErrNotPoemFile or ErrNoAuthor so
// callers can classify rather than guess.
func ParseFilename(folder, name string) (PoemMeta, error) {
	i := strings.Index(name, poemsMarker)
	if i < 0 {
		return PoemMeta{}, fmt.Errorf("%q: %w", name, ErrNotPoemFile)
	}
	prefix := strings.ToLower(name[:i])
	if !strings.HasPrefix(prefix, strings.ToLower(folder)) {
		return PoemMeta{}, fmt.Errorf("%q: topic prefix %q does not match folder %q: %w",
			name, name[:i], folder, ErrNotPoemFile)
	}

	rest := name[i+len(poemsMarker):]
	j := strings.Index(rest, authorMarker)
	if j < 0 {
		return PoemMeta{}, fmt.Errorf("%q: %w", name, ErrNoAuthor)
	}

	title := spaceTitleWords(rest[:j])
	if title == "" {
		return PoemMeta{}, fmt.Errorf("%q: empty title segment: %w", name, ErrNotPoemFile)
	}

	author := rest[j+len(authorMarker):]
	author = strings.TrimSuffix(author, filepath.Ext(author))
	author = strings.TrimLeft(author, " _-")
	if author == "" {
		return PoemMeta{}, fmt.Errorf("%q: empty author segment: %w", name, ErrNoAuthor)
	}

	return PoemMeta{Title: title, Author: author}, nil
}

// spaceTitleWords turns a TitleCase run like "TheOldCat" into "The Old Cat"
// by inserting a space before each interior uppercase letter.
func spaceTitleWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}
