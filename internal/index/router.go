package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/request"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
	"github.com/midori-cloud/kensaku/internal/metrics"
	"github.com/midori-cloud/kensaku/internal/query"
)

// Router resolves a prefecture selector to a region set, fans a query
// plan out across it, and merges the per-region hit streams into one
// ordered stream.
type Router struct {
	topo   Topology
	logger *zap.Logger
}

// NewRouter creates a router over a topology.
func NewRouter(topo Topology, logger *zap.Logger) *Router {
	return &Router{topo: topo, logger: logger}
}

// Multi reports whether the router serves a multi-index topology.
func (r *Router) Multi() bool { return r.topo.Multi() }

// Resolve maps a selector to the ordered region set. Under a
// single-index topology every selector resolves to the one region; the
// fallback is logged, never silent.
func (r *Router) Resolve(selector string) ([]*Region, error) {
	if !r.topo.Multi() {
		single := r.topo.All()
		if selector != request.SelectorAll && selector != single[0].Name() {
			r.logger.Warn("single-index fallback",
				zap.String("selector", selector),
				zap.String("region", single[0].Name()),
			)
		}
		return single, nil
	}

	if selector == request.SelectorAll {
		return r.topo.All(), nil
	}
	region, ok := r.topo.Region(selector)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPrefecture, selector)
	}
	return []*Region{region}, nil
}

// Search resolves the selector and executes the plan across the region
// set. A region that fails contributes zero hits and is recorded;
// the call fails only when every resolved region fails, or on context
// cancellation.
func (r *Router) Search(
	ctx context.Context, plan query.Plan, f filter.Filter, selector string,
) ([]result.Hit, error) {
	regions, err := r.Resolve(selector)
	if err != nil {
		return nil, err
	}
	return r.execute(ctx, plan, f, regions)
}

func (r *Router) execute(
	ctx context.Context, plan query.Plan, f filter.Filter, regions []*Region,
) ([]result.Hit, error) {
	var (
		mu      sync.Mutex
		hits    []result.Hit
		regErrs = make([]error, len(regions))
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, region := range regions {
		i, region := i, region
		g.Go(func() error {
			regionHits, err := region.Execute(gctx, plan, f)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return err
				}
				regErrs[i] = err
				metrics.RegionFailuresTotal.WithLabelValues(region.Name()).Inc()
				r.logger.Error("region execute failed",
					zap.String("region", region.Name()),
					zap.Error(err),
				)
				return nil
			}
			for j := range regionHits {
				regionHits[j].RegionOrd = i
			}
			mu.Lock()
			hits = append(hits, regionHits...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, e := range regErrs {
		if e != nil {
			failed++
		}
	}
	if failed == len(regions) {
		return nil, fmt.Errorf("%w: all %d regions failed: %w",
			domain.ErrIndexUnavailable, len(regions), errors.Join(regErrs...))
	}

	mergeHits(hits)
	return hits, nil
}

// mergeHits orders the combined stream by descending score; ties break
// by region resolution order, then document insertion order. Scores are
// not re-normalized between regions: identical tokenization and the
// same TF scoring function make them comparable cluster-wide.
func mergeHits(hits []result.Hit) {
	sortHits := func(i, j int) bool {
		a, b := &hits[i], &hits[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.RegionOrd != b.RegionOrd {
			return a.RegionOrd < b.RegionOrd
		}
		return a.Ord < b.Ord
	}
	sort.Slice(hits, sortHits)
}
