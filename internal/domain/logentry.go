package domain

import "time"

// SearchLogEntry records one executed search for history and rankings.
// Writing it is fire-and-forget; the search response never waits on it.
type SearchLogEntry struct {
	ID          string        `json:"id"`
	Time        time.Time     `json:"time"`
	Username    string        `json:"username"`
	Query       string        `json:"query"` // normalized form
	Prefecture  string        `json:"prefecture,omitempty"`
	City        string        `json:"city,omitempty"`
	Statuses    []string      `json:"statuses,omitempty"`
	ResultCount int           `json:"result_count"`
	Elapsed     time.Duration `json:"elapsed"`
}

// RankedTerm is one row of a popularity ranking (keyword or full query).
type RankedTerm struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}
