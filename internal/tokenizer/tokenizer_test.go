package tokenizer

import (
	"reflect"
	"testing"
)

// staticTokenizer returns a fixed token stream.
type staticTokenizer struct {
	tokens []Token
}

func (s staticTokenizer) Tokenize(string) ([]Token, error) {
	return s.tokens, nil
}

func TestTerms_POSWhitelist(t *testing.T) {
	tok := staticTokenizer{tokens: []Token{
		{Surface: "研究所", POS: Noun},
		{Surface: "の", POS: Other},
		{Surface: "開発する", POS: Verb},
		{Surface: "きれい", POS: Adjective},
		{Surface: "かなり", POS: Adverb},
		{Surface: "を", POS: Other},
	}}

	terms, err := Terms(tok, "ignored")
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	want := []string{"研究所", "開発する", "きれい", "かなり"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("got %v, want %v", terms, want)
	}
}

func TestTerms_MinLength(t *testing.T) {
	tok := staticTokenizer{tokens: []Token{
		{Surface: "木", POS: Noun},
		{Surface: "a", POS: Noun},
		{Surface: "木材", POS: Noun},
	}}

	terms, err := Terms(tok, "")
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	want := []string{"木材"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("single-rune surfaces must be dropped: got %v, want %v", terms, want)
	}
}

func TestTerms_DigitsAndStopWords(t *testing.T) {
	tok := staticTokenizer{tokens: []Token{
		{Surface: "2024", POS: Noun},
		{Surface: "１２３", POS: Noun},
		{Surface: "こと", POS: Noun},
		{Surface: "ため", POS: Noun},
		{Surface: "電機", POS: Noun},
	}}

	terms, err := Terms(tok, "")
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	want := []string{"電機"}
	if !reflect.DeepEqual(terms, want) {
		t.Errorf("got %v, want %v", terms, want)
	}
}

func TestTerms_LowercasesSurface(t *testing.T) {
	tok := staticTokenizer{tokens: []Token{
		{Surface: "Cloud", POS: Noun},
	}}

	terms, err := Terms(tok, "")
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	if len(terms) != 1 || terms[0] != "cloud" {
		t.Errorf("got %v, want [cloud]", terms)
	}
}

func TestTerms_KeepsDuplicates(t *testing.T) {
	tok := staticTokenizer{tokens: []Token{
		{Surface: "開発", POS: Noun},
		{Surface: "開発", POS: Noun},
	}}

	terms, err := Terms(tok, "")
	if err != nil {
		t.Fatalf("Terms: %v", err)
	}

	// Deduplication is the query planner's job, not the tokenizer's.
	if len(terms) != 2 {
		t.Errorf("got %v, want two entries", terms)
	}
}
