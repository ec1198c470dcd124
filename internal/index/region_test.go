package index

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/mode"
	"github.com/midori-cloud/kensaku/internal/query"
)

func doc(id, companyID string, contentTokens ...string) domain.Document {
	return domain.Document{
		ID:            id,
		CompanyID:     companyID,
		URL:           "https://example.jp/" + id,
		ContentTokens: contentTokens,
	}
}

func plan(m mode.Match, terms ...string) query.Plan {
	return query.Plan{Terms: terms, Mode: m, Fields: mode.TitleContent}
}

func TestRegion_AnyMode_Union(t *testing.T) {
	r := NewRegion("tokyo")
	// d1 matches only "開発", d2 both, d3 only "製造".
	mustAdd(t, r, doc("d1", "c1", "開発"))
	mustAdd(t, r, doc("d2", "c2", "開発", "製造"))
	mustAdd(t, r, doc("d3", "c3", "製造"))

	hits, err := r.Execute(context.Background(), plan(mode.Any, "開発", "製造"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(hits) != 3 {
		t.Fatalf("got %d hits, want 3", len(hits))
	}
	// d2 scored 2 (one tf per term), must lead.
	if hits[0].DocID != "d2" || hits[0].Score != 2 {
		t.Errorf("top hit: got %s score %.0f, want d2 score 2", hits[0].DocID, hits[0].Score)
	}
}

func TestRegion_AllMode_Intersection(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("d1", "c1", "開発"))
	mustAdd(t, r, doc("d2", "c2", "開発", "製造"))
	mustAdd(t, r, doc("d3", "c3", "製造"))

	hits, err := r.Execute(context.Background(), plan(mode.All, "開発", "製造"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(hits) != 1 || hits[0].DocID != "d2" {
		t.Fatalf("got %v, want only d2", hits)
	}
	want := []string{"開発", "製造"}
	if !reflect.DeepEqual(hits[0].MatchedTerms, want) {
		t.Errorf("matched terms: got %v, want %v", hits[0].MatchedTerms, want)
	}
}

func TestRegion_TermFrequencyScoring(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("d1", "c1", "開発"))
	mustAdd(t, r, doc("d2", "c2", "開発", "開発", "開発"))

	hits, err := r.Execute(context.Background(), plan(mode.Any, "開発"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if hits[0].DocID != "d2" || hits[0].Score != 3 {
		t.Errorf("got %s score %.0f, want d2 score 3", hits[0].DocID, hits[0].Score)
	}
}

func TestRegion_EqualScoresKeepInsertionOrder(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("first", "c1", "開発"))
	mustAdd(t, r, doc("second", "c2", "開発"))
	mustAdd(t, r, doc("third", "c3", "開発"))

	hits, err := r.Execute(context.Background(), plan(mode.Any, "開発"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	got := []string{hits[0].DocID, hits[1].DocID, hits[2].DocID}
	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tie order: got %v, want %v", got, want)
	}
}

func TestRegion_TitleOnlyFields(t *testing.T) {
	r := NewRegion("tokyo")
	titled := doc("d1", "c1", "本文")
	titled.TitleTokens = []string{"電機"}
	mustAdd(t, r, titled)
	mustAdd(t, r, doc("d2", "c2", "電機"))

	p := query.Plan{Terms: []string{"電機"}, Mode: mode.Any, Fields: mode.Title}
	hits, err := r.Execute(context.Background(), p, filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(hits) != 1 || hits[0].DocID != "d1" {
		t.Errorf("title search: got %v, want only d1", hits)
	}
}

func TestRegion_FilterAppliedAfterScoring(t *testing.T) {
	r := NewRegion("tokyo")
	d1 := doc("d1", "c1", "開発")
	d1.Company = domain.CompanyFields{City: "渋谷区", CustomerStatus: "既存顧客"}
	d2 := doc("d2", "c2", "開発")
	d2.Company = domain.CompanyFields{City: "新宿区", CustomerStatus: "既存顧客"}
	mustAdd(t, r, d1)
	mustAdd(t, r, d2)

	f, err := filter.New("渋谷区", "", nil)
	if err != nil {
		t.Fatalf("filter.New: %v", err)
	}

	hits, err := r.Execute(context.Background(), plan(mode.Any, "開発"), f)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(hits) != 1 || hits[0].DocID != "d1" {
		t.Errorf("city filter: got %v, want only d1", hits)
	}
}

func TestRegion_UpsertReplacesPostings(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("d1", "c1", "旧語"))
	mustAdd(t, r, doc("d1", "c1", "新語"))

	if r.Count() != 1 {
		t.Fatalf("count: got %d, want 1", r.Count())
	}

	hits, err := r.Execute(context.Background(), plan(mode.Any, "旧語"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("stale postings survived upsert: %v", hits)
	}

	hits, err = r.Execute(context.Background(), plan(mode.Any, "新語"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("new postings missing: %v", hits)
	}
}

func TestRegion_RemoveAndNotFound(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("d1", "c1", "開発"))

	if err := r.Remove("d1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := r.Remove("d1"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("second remove: got %v, want ErrNotFound", err)
	}

	hits, err := r.Execute(context.Background(), plan(mode.Any, "開発"), filter.Filter{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("removed document still matches: %v", hits)
	}
}

func TestRegion_AddRejectsInvalidDocument(t *testing.T) {
	r := NewRegion("tokyo")
	err := r.Add(domain.Document{ID: "d1"}) // no company ID
	if !errors.Is(err, domain.ErrDocumentInvalid) {
		t.Errorf("got %v, want ErrDocumentInvalid", err)
	}
}

func TestRegion_CancelledContext(t *testing.T) {
	r := NewRegion("tokyo")
	mustAdd(t, r, doc("d1", "c1", "開発"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Execute(ctx, plan(mode.Any, "開発"), filter.Filter{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
}

func mustAdd(t *testing.T, r *Region, d domain.Document) {
	t.Helper()
	if err := r.Add(d); err != nil {
		t.Fatalf("Add(%s): %v", d.ID, err)
	}
}
