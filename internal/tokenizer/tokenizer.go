// Package tokenizer provides Japanese morphological tokenization behind
// a single capability interface. Backends are selected by configuration;
// queries and documents must pass through the same pipeline or recall
// silently degrades.
package tokenizer

import (
	"strings"
	"unicode"
)

// PartOfSpeech is the coarse morphological class of a token.
type PartOfSpeech string

// Part-of-speech constants.
const (
	Noun      PartOfSpeech = "noun"
	Verb      PartOfSpeech = "verb"
	Adjective PartOfSpeech = "adjective"
	Adverb    PartOfSpeech = "adverb"
	Other     PartOfSpeech = "other"
)

// Token is a single morphological unit produced by a backend.
type Token struct {
	Surface string
	POS     PartOfSpeech
}

// Tokenizer splits text into raw morphological tokens. Implementations
// must be safe for concurrent use.
type Tokenizer interface {
	Tokenize(text string) ([]Token, error)
}

// MinTermLength is the minimum surface length (in runes) of a search term.
const MinTermLength = 2

// searchablePOS is the whitelist applied to both queries and documents.
var searchablePOS = map[PartOfSpeech]bool{
	Noun:      true,
	Verb:      true,
	Adjective: true,
	Adverb:    true,
}

// Terms tokenizes text and applies the search-term filter: POS whitelist,
// minimum length, stop words, and digit-only surfaces dropped. Surfaces
// are lowercased. The result preserves token order and may contain
// duplicates.
func Terms(t Tokenizer, text string) ([]string, error) {
	tokens, err := t.Tokenize(text)
	if err != nil {
		return nil, err
	}

	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !searchablePOS[tok.POS] {
			continue
		}
		surface := strings.ToLower(strings.TrimSpace(tok.Surface))
		if len([]rune(surface)) < MinTermLength {
			continue
		}
		if isDigits(surface) {
			continue
		}
		if stopWords[surface] {
			continue
		}
		terms = append(terms, surface)
	}
	return terms, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
