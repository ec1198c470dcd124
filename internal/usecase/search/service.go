// Package search is the orchestrator gluing normalization, planning,
// routing, grouping, and caching into one call. It is the only entry
// point the transport layer consumes.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/cache"
	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/request"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
	"github.com/midori-cloud/kensaku/internal/metrics"
	"github.com/midori-cloud/kensaku/internal/query"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
)

// Service executes enterprise directory searches.
type Service struct {
	router   Router
	lookup   CompanyLookup
	cache    *cache.Cache
	tok      tokenizer.Tokenizer
	recorder Recorder // optional
	logger   *zap.Logger
}

// New creates the search orchestrator. recorder may be nil to disable
// history and rankings.
func New(
	router Router,
	lookup CompanyLookup,
	c *cache.Cache,
	tok tokenizer.Tokenizer,
	recorder Recorder,
	logger *zap.Logger,
) *Service {
	return &Service{
		router:   router,
		lookup:   lookup,
		cache:    c,
		tok:      tok,
		recorder: recorder,
		logger:   logger,
	}
}

// Search runs the full pipeline: cache lookup, plan, route, execute,
// group, paginate. Validation failures return before any index or cache
// work; a query that tokenizes away to nothing is a valid zero-result
// search. Every completed search emits a log entry asynchronously,
// cache hit or not.
func (s *Service) Search(ctx context.Context, req *request.Request) (result.Response, error) {
	start := time.Now()

	// City filtering needs a resolvable prefecture: under a multi-index
	// topology a city-only request would scan every region for a field
	// that is only meaningful within one.
	if req.Filter().City() != "" && req.AllRegions() && s.router.Multi() {
		return result.Response{}, fmt.Errorf(
			"%w: city filter requires a prefecture", domain.ErrInvalidFilter)
	}

	entry, hit, err := s.cache.GetOrCompute(req.CacheKey(), func() (*cache.Entry, error) {
		return s.compute(ctx, req)
	})
	if err != nil {
		return result.Response{}, err
	}

	resp := result.Response{
		Companies:      entry.Companies,
		TotalFound:     entry.TotalFound,
		TotalCompanies: entry.TotalCompanies,
		Elapsed:        time.Since(start),
		CacheHit:       hit,
	}

	cacheLabel := "miss"
	if hit {
		cacheLabel = "hit"
	}
	metrics.SearchesTotal.WithLabelValues(string(req.Mode()), cacheLabel).Inc()
	metrics.SearchDuration.WithLabelValues(string(req.Mode())).Observe(resp.Elapsed.Seconds())
	metrics.CacheEntries.Set(float64(s.cache.Len()))

	s.emitLog(req, &resp)
	return resp, nil
}

// CacheEntries reports the current result-cache size.
func (s *Service) CacheEntries() int { return s.cache.Len() }

// compute runs the uncached pipeline.
func (s *Service) compute(ctx context.Context, req *request.Request) (*cache.Entry, error) {
	plan, err := query.Build(req.Query(), s.tok, req.Mode(), req.Fields())
	if err != nil {
		return nil, fmt.Errorf("build plan: %w", err)
	}
	if plan.Empty() {
		// The query tokenized away to nothing (pure punctuation, stop
		// words only). Scanning any index would be a full scan for no
		// recall, so short-circuit to an empty result.
		s.logger.Debug("query tokenized to zero terms", zap.String("query", req.Query()))
		return &cache.Entry{CreatedAt: time.Now()}, nil
	}

	hits, err := s.router.Search(ctx, plan, req.Filter(), req.Selector())
	if err != nil {
		return nil, err
	}

	companies := group(hits, s.lookup, s.logger)
	entry := &cache.Entry{
		Companies:      companies,
		TotalFound:     len(hits),
		TotalCompanies: len(companies),
		CreatedAt:      time.Now(),
	}
	if len(entry.Companies) > req.Limit() {
		entry.Companies = entry.Companies[:req.Limit()]
	}
	return entry, nil
}

// emitLog writes the search-log entry off the critical path. History
// records user intent, so cache hits log too. Failures are counted and
// swallowed; they must never delay or fail the response.
func (s *Service) emitLog(req *request.Request, resp *result.Response) {
	if s.recorder == nil {
		return
	}
	entry := domain.SearchLogEntry{
		ID:          uuid.NewString(),
		Time:        time.Now(),
		Username:    req.Username(),
		Query:       req.Query(),
		Prefecture:  req.Selector(),
		City:        req.Filter().City(),
		Statuses:    req.Filter().Statuses(),
		ResultCount: resp.TotalFound,
		Elapsed:     resp.Elapsed,
	}
	go func() {
		// Detached from the request context: the response does not wait.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.recorder.Record(ctx, entry); err != nil {
			metrics.SearchLogDropsTotal.Inc()
			s.logger.Error("search log write failed", zap.Error(err))
		}
	}()
}
