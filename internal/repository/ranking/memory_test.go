package ranking

import (
	"context"
	"reflect"
	"testing"

	"github.com/midori-cloud/kensaku/internal/domain"
)

func TestMemory_TopOrdersByCount(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := m.Incr(ctx, "keyword", "開発"); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}
	if err := m.Incr(ctx, "keyword", "製造"); err != nil {
		t.Fatalf("Incr: %v", err)
	}

	top, err := m.Top(ctx, "keyword", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}

	want := []domain.RankedTerm{
		{Term: "開発", Count: 3},
		{Term: "製造", Count: 1},
	}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("got %+v, want %+v", top, want)
	}
}

func TestMemory_TiesBreakAlphabetically(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for _, term := range []string{"b", "a", "c"} {
		if err := m.Incr(ctx, "query", term); err != nil {
			t.Fatalf("Incr: %v", err)
		}
	}

	top, err := m.Top(ctx, "query", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	got := []string{top[0].Term, top[1].Term, top[2].Term}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("tie order: got %v", got)
	}
}

func TestMemory_LimitAndKindsIsolated(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Incr(ctx, "keyword", "開発"); err != nil {
		t.Fatalf("Incr: %v", err)
	}
	if err := m.Incr(ctx, "query", "研究 開発"); err != nil {
		t.Fatalf("Incr: %v", err)
	}

	kw, err := m.Top(ctx, "keyword", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(kw) != 1 || kw[0].Term != "開発" {
		t.Errorf("keyword kind: %+v", kw)
	}

	if top, _ := m.Top(ctx, "keyword", 0); top != nil {
		t.Errorf("limit 0: got %+v, want nil", top)
	}
}
