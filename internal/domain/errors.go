package domain

import "errors"

var (
	// ErrEmptyQuery signals a query that normalized to the empty string.
	ErrEmptyQuery = errors.New("empty query")
	// ErrUnknownPrefecture signals a prefecture selector with no configured index.
	ErrUnknownPrefecture = errors.New("unknown prefecture")
	// ErrInvalidFilter signals a filter combination rejected before any index work.
	ErrInvalidFilter = errors.New("invalid filter")
	// ErrIndexUnavailable signals that every resolved region index failed.
	ErrIndexUnavailable = errors.New("index unavailable")
	// ErrDocumentInvalid signals a document missing required identifiers.
	ErrDocumentInvalid = errors.New("invalid document")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
)
