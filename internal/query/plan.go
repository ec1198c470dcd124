package query

import (
	"github.com/midori-cloud/kensaku/internal/domain/search/mode"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
)

// Plan is a structured, index-ready query: the filtered search terms,
// how they combine, and which fields they target.
type Plan struct {
	Terms  []string
	Mode   mode.Match
	Fields mode.Field
}

// Empty reports whether the query tokenized away to nothing. Callers
// must short-circuit to a zero-result response instead of scanning any
// index.
func (p Plan) Empty() bool { return len(p.Terms) == 0 }

// Build tokenizes a normalized query and assembles a plan. Terms are
// deduplicated preserving first occurrence; duplicate surfaces add
// nothing to either AND or OR semantics.
func Build(normalized string, tok tokenizer.Tokenizer, m mode.Match, f mode.Field) (Plan, error) {
	terms, err := tokenizer.Terms(tok, normalized)
	if err != nil {
		return Plan{}, err
	}

	seen := make(map[string]bool, len(terms))
	uniq := terms[:0]
	for _, t := range terms {
		if seen[t] {
			continue
		}
		seen[t] = true
		uniq = append(uniq, t)
	}

	return Plan{Terms: uniq, Mode: m, Fields: f}, nil
}
