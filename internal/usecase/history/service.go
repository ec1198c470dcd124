// Package history records executed searches per user and aggregates
// global keyword and query popularity.
package history

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
)

// DefaultHistoryLimit is how many history entries a read returns when
// the caller does not say.
const DefaultHistoryLimit = 8

// Service is the history and rankings collaborator consumed by the
// search orchestrator (write side) and the transport layer (read side).
type Service struct {
	store  Store
	counts Counter
	tok    tokenizer.Tokenizer
	logger *zap.Logger
}

// New creates a history service.
func New(store Store, counts Counter, tok tokenizer.Tokenizer, logger *zap.Logger) *Service {
	return &Service{store: store, counts: counts, tok: tok, logger: logger}
}

// Record persists one search-log entry and bumps the popularity
// counters. Keywords are extracted with the same tokenizer pipeline as
// search, so "研究　開発" and "研究 開発" aggregate as one query and
// the same keywords.
func (s *Service) Record(ctx context.Context, entry domain.SearchLogEntry) error {
	var errs []error

	if entry.Username != "" {
		if err := s.store.Append(ctx, entry); err != nil {
			errs = append(errs, fmt.Errorf("append history: %w", err))
		}
	}

	if err := s.counts.Incr(ctx, KindQuery, entry.Query); err != nil {
		errs = append(errs, fmt.Errorf("count query: %w", err))
	}

	keywords, err := tokenizer.Terms(s.tok, entry.Query)
	if err != nil {
		errs = append(errs, fmt.Errorf("extract keywords: %w", err))
	}
	for _, kw := range keywords {
		if err := s.counts.Incr(ctx, KindKeyword, kw); err != nil {
			errs = append(errs, fmt.Errorf("count keyword %q: %w", kw, err))
			break
		}
	}

	return errors.Join(errs...)
}

// History returns a user's most recent searches, newest first.
func (s *Service) History(ctx context.Context, username string, limit int) ([]domain.SearchLogEntry, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	entries, err := s.store.Recent(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("read history for %s: %w", username, err)
	}
	return entries, nil
}

// TopKeywords returns the most searched keywords.
func (s *Service) TopKeywords(ctx context.Context, limit int) ([]domain.RankedTerm, error) {
	return s.top(ctx, KindKeyword, limit)
}

// TopQueries returns the most repeated full queries.
func (s *Service) TopQueries(ctx context.Context, limit int) ([]domain.RankedTerm, error) {
	return s.top(ctx, KindQuery, limit)
}

func (s *Service) top(ctx context.Context, kind string, limit int) ([]domain.RankedTerm, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	terms, err := s.counts.Top(ctx, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("read %s ranking: %w", kind, err)
	}
	return terms, nil
}
