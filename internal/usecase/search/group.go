package search

import (
	"sort"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain/search/result"
)

// group collapses URL-level hits into company-level records. Each
// company carries the union of its matched pages with per-URL score and
// matched-term detail; the company's aggregate score is the maximum of
// its member URL scores. Ordering needs a second sort pass after all
// hits are consumed: a low-ranked hit may belong to a company whose
// best page arrived earlier and scored higher.
func group(hits []result.Hit, lookup CompanyLookup, logger *zap.Logger) []result.Company {
	if len(hits) == 0 {
		return nil
	}

	byCompany := make(map[string]*result.Company)
	order := make([]string, 0, len(hits))

	for _, hit := range hits {
		company, ok := byCompany[hit.CompanyID]
		if !ok {
			fields, found := lookup.Company(hit.CompanyID)
			if !found {
				logger.Warn("company missing from directory",
					zap.String("company_id", hit.CompanyID),
					zap.String("doc_id", hit.DocID),
				)
			}
			company = &result.Company{CompanyID: hit.CompanyID, Fields: fields}
			byCompany[hit.CompanyID] = company
			order = append(order, hit.CompanyID)
		}
		company.URLs = append(company.URLs, result.URLMatch{
			DocID:        hit.DocID,
			URL:          hit.URL,
			URLLabel:     hit.URLLabel,
			Content:      hit.Content,
			MatchedTerms: hit.MatchedTerms,
			Score:        hit.Score,
		})
		if hit.Score > company.AggregateScore {
			company.AggregateScore = hit.Score
		}
	}

	companies := make([]result.Company, 0, len(order))
	for _, id := range order {
		c := byCompany[id]
		sort.SliceStable(c.URLs, func(i, j int) bool {
			return c.URLs[i].Score > c.URLs[j].Score
		})
		companies = append(companies, *c)
	}

	// Second pass: company order is by aggregate relevance, not hit
	// arrival. Stable sort keeps first-seen order for equal scores.
	sort.SliceStable(companies, func(i, j int) bool {
		return companies[i].AggregateScore > companies[j].AggregateScore
	})
	return companies
}
