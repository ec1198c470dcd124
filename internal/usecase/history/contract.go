package history

import (
	"context"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// Store persists per-user search history.
type Store interface {
	Append(ctx context.Context, entry domain.SearchLogEntry) error
	Recent(ctx context.Context, username string, limit int) ([]domain.SearchLogEntry, error)
}

// Counter tracks global popularity of keywords and full queries.
type Counter interface {
	Incr(ctx context.Context, kind, member string) error
	Top(ctx context.Context, kind string, limit int) ([]domain.RankedTerm, error)
}

// Popularity ranking kinds.
const (
	KindKeyword = "keyword"
	KindQuery   = "query"
)
