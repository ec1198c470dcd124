//go:build mecab && cgo

package tokenizer

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shogo82148/go-mecab"
)

// MeCab is the native-library backend. It is noticeably faster than
// kagome on long inputs but needs libmecab and a system dictionary, so
// it is only compiled in under the mecab build tag.
type MeCab struct {
	mu sync.Mutex // the underlying tagger is not safe for concurrent use
	m  mecab.MeCab
}

// NewMeCab creates a mecab-backed tokenizer.
func NewMeCab() (*MeCab, error) {
	m, err := mecab.New(map[string]string{})
	if err != nil {
		return nil, fmt.Errorf("init mecab: %w", err)
	}
	return &MeCab{m: m}, nil
}

// Tokenize splits text into morphological tokens.
func (t *MeCab) Tokenize(text string) ([]Token, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	node, err := t.m.ParseToNode(text)
	if err != nil {
		return nil, fmt.Errorf("mecab parse: %w", err)
	}

	var tokens []Token
	for ; !node.IsZero(); node = node.Next() {
		surface := node.Surface()
		if surface == "" { // BOS/EOS
			continue
		}
		// Feature format: "名詞,一般,*,*,*,*,機械,キカイ,キカイ"
		tag, _, _ := strings.Cut(node.Feature(), ",")
		tokens = append(tokens, Token{Surface: surface, POS: mapPOS(tag)})
	}
	return tokens, nil
}

// Close releases the native tagger.
func (t *MeCab) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m.Destroy()
}

func newMeCabBackend() (Tokenizer, error) {
	return NewMeCab()
}
