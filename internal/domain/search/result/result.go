// Package result holds the hit and grouped-result types flowing out of
// the search pipeline.
package result

import (
	"time"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// Hit is one URL-level match from a region index, ephemeral per query.
// RegionOrd is the position of the producing region in the resolved
// region set and Ord the document's insertion order within its region;
// together they give the deterministic tie-break under equal scores.
type Hit struct {
	DocID        string
	CompanyID    string
	URL          string
	URLLabel     string
	Content      string
	Score        float64
	MatchedTerms []string
	Region       string
	RegionOrd    int
	Ord          int
}

// URLMatch is one matched page inside a grouped company record.
type URLMatch struct {
	DocID        string   `json:"id"`
	URL          string   `json:"url"`
	URLLabel     string   `json:"url_label"`
	Content      string   `json:"content"`
	MatchedTerms []string `json:"matched_terms"`
	Score        float64  `json:"score"`
}

// Company is the externally visible grouped unit: one company with the
// union of its matched pages, ordered by descending per-URL score.
type Company struct {
	CompanyID      string               `json:"company_id"`
	Fields         domain.CompanyFields `json:"company"`
	URLs           []URLMatch           `json:"urls"`
	AggregateScore float64              `json:"aggregate_score"`
}

// Response is the orchestrator's reply to one search call.
type Response struct {
	Companies      []Company     `json:"grouped_results"`
	TotalFound     int           `json:"total_found"`     // URL-level hits before grouping
	TotalCompanies int           `json:"total_companies"` // companies before pagination
	Elapsed        time.Duration `json:"-"`
	CacheHit       bool          `json:"cache_hit"`
}
