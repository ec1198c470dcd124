package tokenizer

import (
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	kagome "github.com/ikawaha/kagome/v2/tokenizer"
)

// Kagome is the pure-Go backend (IPA dictionary). It is the default and
// requires no native libraries.
type Kagome struct {
	t *kagome.Tokenizer
}

// NewKagome creates a kagome-backed tokenizer.
func NewKagome() (*Kagome, error) {
	t, err := kagome.New(ipa.Dict(), kagome.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("init kagome: %w", err)
	}
	return &Kagome{t: t}, nil
}

// Tokenize splits text into morphological tokens.
func (k *Kagome) Tokenize(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	raw := k.t.Tokenize(text)
	tokens := make([]Token, 0, len(raw))
	for _, r := range raw {
		pos := Other
		if features := r.POS(); len(features) > 0 {
			pos = mapPOS(features[0])
		}
		tokens = append(tokens, Token{Surface: r.Surface, POS: pos})
	}
	return tokens, nil
}

// mapPOS maps an IPA-dictionary POS tag to the coarse class.
func mapPOS(tag string) PartOfSpeech {
	switch tag {
	case "名詞":
		return Noun
	case "動詞":
		return Verb
	case "形容詞":
		return Adjective
	case "副詞":
		return Adverb
	default:
		return Other
	}
}
