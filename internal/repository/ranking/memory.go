package ranking

import (
	"context"
	"sort"
	"sync"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// Memory is an in-process counter for single-instance deployments and
// tests. Counts reset on restart.
type Memory struct {
	mu     sync.RWMutex
	counts map[string]map[string]int64
}

func NewMemory() *Memory {
	return &Memory{counts: make(map[string]map[string]int64)}
}

func (m *Memory) Incr(_ context.Context, kind, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byMember, ok := m.counts[kind]
	if !ok {
		byMember = make(map[string]int64)
		m.counts[kind] = byMember
	}
	byMember[member]++
	return nil
}

func (m *Memory) Top(_ context.Context, kind string, limit int) ([]domain.RankedTerm, error) {
	if limit <= 0 {
		return nil, nil
	}

	m.mu.RLock()
	byMember := m.counts[kind]
	terms := make([]domain.RankedTerm, 0, len(byMember))
	for member, count := range byMember {
		terms = append(terms, domain.RankedTerm{Term: member, Count: count})
	}
	m.mu.RUnlock()

	// Ties break alphabetically so ordering is reproducible.
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms, nil
}
