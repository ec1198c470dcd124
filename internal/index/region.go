// Package index implements the per-prefecture inverted indexes, the
// topology they are configured into, and the router that fans queries
// out across them.
package index

import (
	"context"
	"sort"
	"sync"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/mode"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
	"github.com/midori-cloud/kensaku/internal/query"
)

// postings maps term -> docID -> term frequency.
type postings map[string]map[string]int

type docEntry struct {
	doc domain.Document
	ord int // insertion order, the stable tie-break under equal scores
}

// Region is one per-prefecture searchable index. It supports many
// concurrent readers and one writer; a write in progress blocks new
// reads from starting.
type Region struct {
	name string

	mu      sync.RWMutex
	docs    map[string]*docEntry
	title   postings
	content postings
	nextOrd int
}

// NewRegion creates an empty region index.
func NewRegion(name string) *Region {
	return &Region{
		name:    name,
		docs:    make(map[string]*docEntry),
		title:   make(postings),
		content: make(postings),
	}
}

// Name returns the prefecture code this region serves.
func (r *Region) Name() string { return r.name }

// Count returns the number of indexed documents.
func (r *Region) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// Add indexes a document. An existing document with the same ID is
// replaced, keeping its original insertion order.
func (r *Region) Add(doc domain.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ord := r.nextOrd
	if prev, ok := r.docs[doc.ID]; ok {
		ord = prev.ord
		r.unindexLocked(prev)
	} else {
		r.nextOrd++
	}

	entry := &docEntry{doc: doc, ord: ord}
	r.docs[doc.ID] = entry
	indexTokens(r.title, doc.ID, doc.TitleTokens)
	indexTokens(r.content, doc.ID, doc.ContentTokens)
	return nil
}

// Remove deletes a document by ID.
func (r *Region) Remove(docID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.docs[docID]
	if !ok {
		return domain.ErrNotFound
	}
	r.unindexLocked(entry)
	delete(r.docs, docID)
	return nil
}

// Clear drops every document and posting.
func (r *Region) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[string]*docEntry)
	r.title = make(postings)
	r.content = make(postings)
	r.nextOrd = 0
}

// Optimize compacts the postings by dropping terms whose posting lists
// have emptied through removals.
func (r *Region) Optimize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range []postings{r.title, r.content} {
		for term, docs := range p {
			if len(docs) == 0 {
				delete(p, term)
			}
		}
	}
}

// Execute runs a query plan against this region and returns hits
// ordered by descending score, ties broken by insertion order. Scores
// are plain summed term frequencies with no corpus-level statistics,
// so they stay comparable across independently built regions.
func (r *Region) Execute(ctx context.Context, plan query.Plan, f filter.Filter) ([]result.Hit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scores := make(map[string]float64)
	matched := make(map[string]map[string]bool)

	for i, term := range plan.Terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs := r.termDocsLocked(term, plan.Fields)
		if plan.Mode == mode.All {
			if i == 0 {
				for id, tf := range docs {
					scores[id] = float64(tf)
					matched[id] = map[string]bool{term: true}
				}
				continue
			}
			for id := range scores {
				tf, ok := docs[id]
				if !ok {
					delete(scores, id)
					delete(matched, id)
					continue
				}
				scores[id] += float64(tf)
				matched[id][term] = true
			}
			if len(scores) == 0 {
				return nil, nil
			}
			continue
		}
		for id, tf := range docs {
			scores[id] += float64(tf)
			if matched[id] == nil {
				matched[id] = make(map[string]bool)
			}
			matched[id][term] = true
		}
	}

	hits := make([]result.Hit, 0, len(scores))
	for id, score := range scores {
		entry := r.docs[id]
		company := entry.doc.Company
		if !f.Match(company.City, company.CustomerStatus) {
			continue
		}
		hits = append(hits, result.Hit{
			DocID:        id,
			CompanyID:    entry.doc.CompanyID,
			URL:          entry.doc.URL,
			URLLabel:     entry.doc.URLLabel,
			Content:      entry.doc.Content,
			Score:        score,
			MatchedTerms: orderedTerms(plan.Terms, matched[id]),
			Region:       r.name,
			Ord:          entry.ord,
		})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].Ord < hits[j].Ord
	})
	return hits, nil
}

// termDocsLocked returns docID -> tf for a term over the targeted fields.
func (r *Region) termDocsLocked(term string, fields mode.Field) map[string]int {
	title := r.title[term]
	if fields == mode.Title {
		return title
	}
	content := r.content[term]
	if len(title) == 0 {
		return content
	}
	combined := make(map[string]int, len(title)+len(content))
	for id, tf := range title {
		combined[id] += tf
	}
	for id, tf := range content {
		combined[id] += tf
	}
	return combined
}

func (r *Region) unindexLocked(entry *docEntry) {
	unindexTokens(r.title, entry.doc.ID, entry.doc.TitleTokens)
	unindexTokens(r.content, entry.doc.ID, entry.doc.ContentTokens)
}

func indexTokens(p postings, docID string, tokens []string) {
	for _, t := range tokens {
		docs := p[t]
		if docs == nil {
			docs = make(map[string]int)
			p[t] = docs
		}
		docs[docID]++
	}
}

func unindexTokens(p postings, docID string, tokens []string) {
	for _, t := range tokens {
		if docs, ok := p[t]; ok {
			delete(docs, docID)
		}
	}
}

// orderedTerms lists the matched terms in plan order.
func orderedTerms(planTerms []string, matched map[string]bool) []string {
	terms := make([]string, 0, len(matched))
	for _, t := range planTerms {
		if matched[t] {
			terms = append(terms, t)
		}
	}
	return terms
}
