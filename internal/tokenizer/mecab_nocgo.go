//go:build !mecab || !cgo

package tokenizer

import "errors"

func newMeCabBackend() (Tokenizer, error) {
	return nil, errors.New("mecab backend not compiled in (rebuild with -tags mecab)")
}
