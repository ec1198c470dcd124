package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/repository/ranking"
	"github.com/midori-cloud/kensaku/internal/tokenizer"
)

type nounTokenizer struct{}

func (nounTokenizer) Tokenize(text string) ([]tokenizer.Token, error) {
	var tokens []tokenizer.Token
	for _, s := range strings.Fields(text) {
		tokens = append(tokens, tokenizer.Token{Surface: s, POS: tokenizer.Noun})
	}
	return tokens, nil
}

// memStore is an in-memory Store for tests.
type memStore struct {
	entries map[string][]domain.SearchLogEntry
	err     error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string][]domain.SearchLogEntry)}
}

func (m *memStore) Append(_ context.Context, e domain.SearchLogEntry) error {
	if m.err != nil {
		return m.err
	}
	m.entries[e.Username] = append(m.entries[e.Username], e)
	return nil
}

func (m *memStore) Recent(_ context.Context, username string, limit int) ([]domain.SearchLogEntry, error) {
	all := m.entries[username]
	var out []domain.SearchLogEntry
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func TestRecord_StoresEntryAndCounts(t *testing.T) {
	store := newMemStore()
	counts := ranking.NewMemory()
	svc := New(store, counts, nounTokenizer{}, zap.NewNop())

	entry := domain.SearchLogEntry{Username: "alice", Query: "研究 開発"}
	if err := svc.Record(context.Background(), entry); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(store.entries["alice"]) != 1 {
		t.Errorf("history entries: %d", len(store.entries["alice"]))
	}

	queries, err := svc.TopQueries(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopQueries: %v", err)
	}
	if len(queries) != 1 || queries[0].Term != "研究 開発" || queries[0].Count != 1 {
		t.Errorf("queries: %+v", queries)
	}

	keywords, err := svc.TopKeywords(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopKeywords: %v", err)
	}
	if len(keywords) != 2 {
		t.Errorf("keywords: %+v", keywords)
	}
}

func TestRecord_AnonymousSkipsHistoryButCounts(t *testing.T) {
	store := newMemStore()
	counts := ranking.NewMemory()
	svc := New(store, counts, nounTokenizer{}, zap.NewNop())

	if err := svc.Record(context.Background(), domain.SearchLogEntry{Query: "開発"}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	if len(store.entries) != 0 {
		t.Errorf("anonymous search stored: %+v", store.entries)
	}
	keywords, err := svc.TopKeywords(context.Background(), 5)
	if err != nil {
		t.Fatalf("TopKeywords: %v", err)
	}
	if len(keywords) != 1 {
		t.Errorf("keywords: %+v", keywords)
	}
}

func TestRecord_StoreErrorStillCounts(t *testing.T) {
	store := newMemStore()
	store.err = errors.New("disk full")
	counts := ranking.NewMemory()
	svc := New(store, counts, nounTokenizer{}, zap.NewNop())

	err := svc.Record(context.Background(), domain.SearchLogEntry{Username: "alice", Query: "開発"})
	if err == nil {
		t.Fatal("expected store error to surface")
	}

	// Counters were bumped despite the history failure.
	keywords, kerr := svc.TopKeywords(context.Background(), 5)
	if kerr != nil {
		t.Fatalf("TopKeywords: %v", kerr)
	}
	if len(keywords) != 1 {
		t.Errorf("keywords: %+v", keywords)
	}
}

func TestHistory_DefaultLimit(t *testing.T) {
	store := newMemStore()
	svc := New(store, ranking.NewMemory(), nounTokenizer{}, zap.NewNop())

	for i := 0; i < DefaultHistoryLimit+4; i++ {
		entry := domain.SearchLogEntry{Username: "alice", Query: "開発"}
		if err := svc.Record(context.Background(), entry); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	entries, err := svc.History(context.Background(), "alice", 0)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(entries) != DefaultHistoryLimit {
		t.Errorf("got %d entries, want %d", len(entries), DefaultHistoryLimit)
	}
}
