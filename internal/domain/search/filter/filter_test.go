package filter

import (
	"errors"
	"reflect"
	"testing"

	"github.com/midori-cloud/kensaku/internal/domain"
)

var knownStatuses = []string{"既存顧客", "見込み顧客", "休眠顧客"}

func TestNew_ParsesPipeDelimitedStatuses(t *testing.T) {
	f, err := New("渋谷区", "既存顧客|見込み顧客", knownStatuses)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if f.City() != "渋谷区" {
		t.Errorf("city: got %q", f.City())
	}
	want := []string{"既存顧客", "見込み顧客"}
	if !reflect.DeepEqual(f.Statuses(), want) {
		t.Errorf("statuses: got %v, want %v", f.Statuses(), want)
	}
}

func TestNew_UnknownStatus(t *testing.T) {
	_, err := New("", "既存顧客|謎ステータス", knownStatuses)
	if !errors.Is(err, domain.ErrInvalidFilter) {
		t.Errorf("got %v, want ErrInvalidFilter", err)
	}
}

func TestNew_EmptySegmentsIgnored(t *testing.T) {
	f, err := New("", "既存顧客||", knownStatuses)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(f.Statuses()) != 1 {
		t.Errorf("empty segments must be dropped: got %v", f.Statuses())
	}
}

func TestNew_NoKnownListDisablesValidation(t *testing.T) {
	f, err := New("", "anything", nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(f.Statuses()) != 1 {
		t.Errorf("got %v", f.Statuses())
	}
}

func TestMatch(t *testing.T) {
	f, err := New("渋谷区", "既存顧客", knownStatuses)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	tests := []struct {
		city, status string
		want         bool
	}{
		{"渋谷区", "既存顧客", true},
		{"新宿区", "既存顧客", false},
		{"渋谷区", "休眠顧客", false},
		{"", "", false},
	}
	for _, tt := range tests {
		if got := f.Match(tt.city, tt.status); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.city, tt.status, got, tt.want)
		}
	}
}

func TestMatch_EmptyFilterMatchesEverything(t *testing.T) {
	var f Filter
	if !f.Match("どこでも", "なんでも") {
		t.Error("empty filter must match any document")
	}
}

func TestKey_StatusOrderInsensitive(t *testing.T) {
	a, err := New("渋谷区", "既存顧客|見込み顧客", knownStatuses)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New("渋谷区", "見込み顧客|既存顧客", knownStatuses)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if a.Key() != b.Key() {
		t.Errorf("keys differ for reordered statuses: %q vs %q", a.Key(), b.Key())
	}
}
