package search

import (
	"testing"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
)

type mapLookup map[string]domain.CompanyFields

func (m mapLookup) Company(id string) (domain.CompanyFields, bool) {
	f, ok := m[id]
	return f, ok
}

func hit(docID, companyID string, score float64) result.Hit {
	return result.Hit{DocID: docID, CompanyID: companyID, URL: "https://example.jp/" + docID, Score: score}
}

func TestGroup_CollapsesByCompany(t *testing.T) {
	lookup := mapLookup{
		"c1": {Name: "緑川電機"},
		"c2": {Name: "大阪精密"},
	}
	hits := []result.Hit{
		hit("d1", "c1", 3),
		hit("d2", "c2", 2),
		hit("d3", "c1", 1),
	}

	companies := group(hits, lookup, zap.NewNop())

	if len(companies) != 2 {
		t.Fatalf("got %d companies, want 2", len(companies))
	}
	if companies[0].CompanyID != "c1" || len(companies[0].URLs) != 2 {
		t.Errorf("c1: got %+v", companies[0])
	}
	if companies[0].Fields.Name != "緑川電機" {
		t.Errorf("fields: got %q", companies[0].Fields.Name)
	}
}

func TestGroup_AggregateIsMaxURLScore(t *testing.T) {
	lookup := mapLookup{"c1": {}}
	companies := group([]result.Hit{
		hit("d1", "c1", 1.5),
		hit("d2", "c1", 4.0),
		hit("d3", "c1", 2.0),
	}, lookup, zap.NewNop())

	if companies[0].AggregateScore != 4.0 {
		t.Errorf("aggregate: got %.1f, want 4.0", companies[0].AggregateScore)
	}
	// URLs sorted by their own score within the company.
	if companies[0].URLs[0].DocID != "d2" {
		t.Errorf("url order: got %s first, want d2", companies[0].URLs[0].DocID)
	}
}

func TestGroup_ReordersByAggregate(t *testing.T) {
	lookup := mapLookup{"c1": {}, "c2": {}}
	// c1's first hit arrives before c2's, but c2's best page outranks it.
	companies := group([]result.Hit{
		hit("d1", "c1", 3),
		hit("d2", "c2", 2),
		hit("d3", "c2", 5),
	}, lookup, zap.NewNop())

	if companies[0].CompanyID != "c2" {
		t.Errorf("got %s first, want c2", companies[0].CompanyID)
	}
}

func TestGroup_MissingDirectoryEntry(t *testing.T) {
	companies := group([]result.Hit{hit("d1", "orphan", 1)}, mapLookup{}, zap.NewNop())

	if len(companies) != 1 {
		t.Fatalf("got %d companies, want 1", len(companies))
	}
	// The hit survives with zero-valued company fields.
	if companies[0].Fields != (domain.CompanyFields{}) {
		t.Errorf("fields: got %+v, want zero", companies[0].Fields)
	}
}

func TestGroup_Empty(t *testing.T) {
	if got := group(nil, mapLookup{}, zap.NewNop()); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
