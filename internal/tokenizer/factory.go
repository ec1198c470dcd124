package tokenizer

import (
	"fmt"

	"go.uber.org/zap"
)

// Backend names accepted by the factory.
const (
	BackendAuto   = "auto"
	BackendKagome = "kagome"
	BackendMeCab  = "mecab"
)

// New creates a tokenizer for the configured backend. "auto" prefers
// mecab when it is compiled in and falls back to kagome; the fallback is
// logged so an unintended pure-Go deployment is visible.
func New(backend string, logger *zap.Logger) (Tokenizer, error) {
	switch backend {
	case "", BackendAuto:
		if t, err := newMeCabBackend(); err == nil {
			logger.Info("tokenizer backend selected", zap.String("backend", BackendMeCab))
			return t, nil
		}
		logger.Info("mecab unavailable, falling back to kagome")
		return NewKagome()
	case BackendKagome:
		return NewKagome()
	case BackendMeCab:
		return newMeCabBackend()
	default:
		return nil, fmt.Errorf("unknown tokenizer backend %q", backend)
	}
}
