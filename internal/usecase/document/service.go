// Package document administers the region indexes: adding, removing,
// and clearing documents. Every mutation invalidates the result cache
// synchronously before returning, so a stale grouped result is never
// served after a write.
package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/index"
	"github.com/midori-cloud/kensaku/internal/query"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
)

// Invalidator drops memoized search results after an index mutation.
type Invalidator interface {
	InvalidateAll()
}

// Service mutates region indexes and keeps the company directory and
// result cache consistent with them.
type Service struct {
	topo   index.Topology
	dir    *index.Directory
	cache  Invalidator
	tok    tokenizer.Tokenizer
	logger *zap.Logger
}

// New creates a document administration service.
func New(
	topo index.Topology,
	dir *index.Directory,
	cache Invalidator,
	tok tokenizer.Tokenizer,
	logger *zap.Logger,
) *Service {
	return &Service{topo: topo, dir: dir, cache: cache, tok: tok, logger: logger}
}

// Add indexes one document into the named prefecture's region.
// TitleTokens are derived from the company name with the query-side
// tokenizer when the indexing pipeline did not supply them; title and
// query tokenization must agree or title matches silently vanish.
func (s *Service) Add(ctx context.Context, prefecture string, doc domain.Document) error {
	region, err := s.region(prefecture)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(doc.TitleTokens) == 0 && doc.Company.Name != "" {
		terms, err := tokenizer.Terms(s.tok, query.Normalize(doc.Company.Name))
		if err != nil {
			return fmt.Errorf("tokenize title: %w", err)
		}
		doc.TitleTokens = terms
	}

	if err := region.Add(doc); err != nil {
		return fmt.Errorf("add document %s: %w", doc.ID, err)
	}
	// Only indexed documents feed the directory; a rejected document
	// must not leave its company behind.
	s.dir.Observe(doc.CompanyID, doc.Company)
	s.cache.InvalidateAll()
	return nil
}

// AddBatch indexes documents in order, stopping at the first failure.
// The cache is invalidated once, after the batch, but still before the
// call returns.
func (s *Service) AddBatch(ctx context.Context, prefecture string, docs []domain.Document) (int, error) {
	region, err := s.region(prefecture)
	if err != nil {
		return 0, err
	}
	defer s.cache.InvalidateAll()

	for i := range docs {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		doc := docs[i]
		if len(doc.TitleTokens) == 0 && doc.Company.Name != "" {
			terms, err := tokenizer.Terms(s.tok, query.Normalize(doc.Company.Name))
			if err != nil {
				return i, fmt.Errorf("tokenize title: %w", err)
			}
			doc.TitleTokens = terms
		}
		if err := region.Add(doc); err != nil {
			return i, fmt.Errorf("add document %s: %w", doc.ID, err)
		}
		s.dir.Observe(doc.CompanyID, doc.Company)
	}
	s.logger.Info("documents indexed",
		zap.String("prefecture", prefecture),
		zap.Int("count", len(docs)),
	)
	return len(docs), nil
}

// Remove deletes one document from the named prefecture's region.
func (s *Service) Remove(ctx context.Context, prefecture, docID string) error {
	region, err := s.region(prefecture)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := region.Remove(docID); err != nil {
		return err
	}
	s.cache.InvalidateAll()
	return nil
}

// Clear drops every document in the named prefecture's region.
func (s *Service) Clear(ctx context.Context, prefecture string) error {
	region, err := s.region(prefecture)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	region.Clear()
	if !s.topo.Multi() {
		// The single region held every document, so the directory is empty too.
		s.dir.Reset()
	}
	s.cache.InvalidateAll()
	s.logger.Info("region cleared", zap.String("prefecture", region.Name()))
	return nil
}

// Optimize compacts the named prefecture's region.
func (s *Service) Optimize(ctx context.Context, prefecture string) error {
	region, err := s.region(prefecture)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	region.Optimize()
	s.cache.InvalidateAll()
	return nil
}

// RegionStats is one region's document count.
type RegionStats struct {
	Prefecture string `json:"prefecture"`
	Documents  int    `json:"documents"`
}

// Stats returns document counts per region plus the company total.
func (s *Service) Stats() ([]RegionStats, int) {
	regions := s.topo.All()
	stats := make([]RegionStats, 0, len(regions))
	for _, r := range regions {
		stats = append(stats, RegionStats{Prefecture: r.Name(), Documents: r.Count()})
	}
	return stats, s.dir.Len()
}

// Multi reports whether the service runs over a multi-index topology.
func (s *Service) Multi() bool { return s.topo.Multi() }

func (s *Service) region(prefecture string) (*index.Region, error) {
	if !s.topo.Multi() {
		return s.topo.All()[0], nil
	}
	region, ok := s.topo.Region(prefecture)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPrefecture, prefecture)
	}
	return region, nil
}
