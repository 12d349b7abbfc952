package search

import (
	"strings"
	"unicode"
)

// Tokenizer segments free text into searchable word units. The same
// tokenizer is applied to query strings and must agree with the analyzer
// used at indexing time about what constitutes a word.
type Tokenizer interface {
	Tokenize(s string) []string
}

// DefaultTokenizer lowercases and splits on any rune that is neither a
// letter nor a digit, keeping the longest possible runs.
var DefaultTokenizer Tokenizer = unicodeTokenizer{}

type unicodeTokenizer struct{}

func (unicodeTokenizer) Tokenize(s string) []string {
	var words []string
	var b strings.Builder
	flush := func() {
		if b.Len() > 0 {
			words = append(words, b.String())
			b.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		flush()
	}
	flush()
	return words
}
