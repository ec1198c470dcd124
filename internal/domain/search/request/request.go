// Package request holds the validated search request.
package request

import (
	"fmt"
	"strings"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/filter"
	"github.com/midori-cloud/kensaku/internal/domain/search/mode"
	"github.com/midori-cloud/kensaku/internal/query"
)

// Search parameter limits.
const (
	MaxQueryLength = 512
	DefaultLimit   = 100
	MaxLimit       = 1000
)

// SelectorAll targets every configured region index.
const SelectorAll = "all"

// Request is a validated search request. The query is stored in
// normalized form; validation happens once, in New.
type Request struct {
	rawQuery   string
	normalized string
	prefecture string
	fltr       filter.Filter
	match      mode.Match
	fields     mode.Field
	limit      int
	username   string
}

// New validates and normalizes search parameters. A query that
// normalizes to the empty string is ErrEmptyQuery. Defaults:
// mode=any, fields=auto, limit=100 (capped at 1000), prefecture=all.
func New(
	rawQuery, prefecture string,
	f filter.Filter,
	m mode.Match,
	fields mode.Field,
	limit int,
	username string,
) (Request, error) {
	normalized := query.Normalize(rawQuery)
	if normalized == "" {
		return Request{}, domain.ErrEmptyQuery
	}
	if len(normalized) > MaxQueryLength {
		return Request{}, fmt.Errorf("query too long (max %d bytes)", MaxQueryLength)
	}
	if m == "" {
		m = mode.Any
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("invalid match mode: %q", m)
	}
	if fields == "" {
		fields = mode.TitleContent
	}
	if !fields.IsValid() {
		return Request{}, fmt.Errorf("invalid field target: %q", fields)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	prefecture = strings.ToLower(strings.TrimSpace(prefecture))
	if prefecture == "" {
		prefecture = SelectorAll
	}

	return Request{
		rawQuery:   rawQuery,
		normalized: normalized,
		prefecture: prefecture,
		fltr:       f,
		match:      m,
		fields:     fields,
		limit:      limit,
		username:   username,
	},
		nil
}

// RawQuery returns the query as the user typed it.
func (r *Request) RawQuery() string { return r.rawQuery }

// Query returns the normalized query.
func (r *Request) Query() string { return r.normalized }

// Selector returns the prefecture selector ("all" or a prefecture code).
func (r *Request) Selector() string { return r.prefecture }

// AllRegions reports whether the request targets every region.
func (r *Request) AllRegions() bool { return r.prefecture == SelectorAll }

// Filter returns the structural post-filter.
func (r *Request) Filter() filter.Filter { return r.fltr }

// Mode returns the token combination strategy.
func (r *Request) Mode() mode.Match { return r.match }

// Fields returns the field target.
func (r *Request) Fields() mode.Field { return r.fields }

// Limit returns the maximum companies to return.
func (r *Request) Limit() int { return r.limit }

// Username returns the requesting user, empty for anonymous.
func (r *Request) Username() string { return r.username }

// CacheKey identifies the full pipeline computation. Two requests
// differing only by raw-query whitespace or status order share a key.
func (r *Request) CacheKey() string {
	return strings.Join([]string{
		r.normalized,
		r.prefecture,
		r.fltr.Key(),
		string(r.match),
		string(r.fields),
		fmt.Sprintf("%d", r.limit),
	}, "\x1e")
}
