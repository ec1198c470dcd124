package search

import (
	"context"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
	"github.com/midori-cloud/kensaku/internal/query"
)

// Router resolves a prefecture selector and executes a plan across the
// resolved region set, returning one merged, ordered hit stream.
type Router interface {
	Search(ctx context.Context, plan query.Plan, f filter.Filter, selector string) ([]result.Hit, error)
	Multi() bool
}

// CompanyLookup resolves a company's canonical denormalized fields in
// O(1); the grouper calls it once per hit.
type CompanyLookup interface {
	Company(companyID string) (domain.CompanyFields, bool)
}

// Recorder persists search-log entries for history and rankings.
// Calls are fire-and-forget from the orchestrator's point of view.
type Recorder interface {
	Record(ctx context.Context, entry domain.SearchLogEntry) error
}
