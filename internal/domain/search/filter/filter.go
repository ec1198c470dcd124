// Package filter holds the structural post-filter applied to hits.
package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// StatusDelimiter separates customer-status alternatives in the
// externally documented cust_status parameter, e.g. "白地|過去".
const StatusDelimiter = "|"

// Filter is a validated post-filter: optional exact-match city and an
// optional OR-list of customer statuses.
type Filter struct {
	city     string
	statuses []string
}

// New parses and validates filter parameters. statusList is the raw
// pipe-delimited form; known is the configured status vocabulary (empty
// slice disables validation). Unknown status tokens are rejected before
// any index is touched.
func New(city, statusList string, known []string) (Filter, error) {
	var statuses []string
	for _, s := range strings.Split(statusList, StatusDelimiter) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(known) > 0 && !contains(known, s) {
			return Filter{}, fmt.Errorf("%w: unknown customer status %q", domain.ErrInvalidFilter, s)
		}
		statuses = append(statuses, s)
	}
	return Filter{city: strings.TrimSpace(city), statuses: statuses}, nil
}

// City returns the exact-match city, empty when unset.
func (f Filter) City() string { return f.city }

// Statuses returns the customer-status alternatives.
func (f Filter) Statuses() []string { return f.statuses }

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool { return f.city == "" && len(f.statuses) == 0 }

// Match reports whether a document with the given city and customer
// status passes the filter. An unset city or status list matches all.
func (f Filter) Match(city, status string) bool {
	if f.city != "" && city != f.city {
		return false
	}
	if len(f.statuses) > 0 && !contains(f.statuses, status) {
		return false
	}
	return true
}

// Key returns a canonical fragment for cache keys. Status order in the
// request must not change cache identity, so alternatives are sorted.
func (f Filter) Key() string {
	sorted := make([]string, len(f.statuses))
	copy(sorted, f.statuses)
	sort.Strings(sorted)
	return f.city + "\x1f" + strings.Join(sorted, StatusDelimiter)
}

func contains(ss []string, v string) bool {
	for _, s := range ss {
		if s == v {
			return true
		}
	}
	return false
}
