package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/midori-cloud/kensaku/internal/domain"
	"github.com/midori-cloud/kensaku/internal/domain/search/result"
)

func TestWriteCSV_OneRowPerURL(t *testing.T) {
	companies := []result.Company{
		{
			CompanyID: "1234567890123",
			Fields: domain.CompanyFields{
				Name:           "緑川電機",
				Prefecture:     "東京都",
				City:           "渋谷区",
				CustomerStatus: "既存顧客",
				Employees:      120,
				Revenue:        4500000000,
			},
			URLs: []result.URLMatch{
				{URL: "https://midorikawa.example.jp/", URLLabel: "トップ", Score: 3.0, MatchedTerms: []string{"電機", "開発"}},
				{URL: "https://midorikawa.example.jp/about", URLLabel: "会社概要", Score: 1.0, MatchedTerms: []string{"電機"}},
			},
			AggregateScore: 3.0,
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, companies); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\uFEFF") {
		t.Error("output must start with a UTF-8 BOM")
	}

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, "\uFEFF"))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}

	// Header plus one row per URL.
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	if records[0][0] != "company_id" {
		t.Errorf("header: %v", records[0])
	}

	// Company fields repeat on every row of the same company.
	for _, row := range records[1:] {
		if row[0] != "1234567890123" || row[1] != "緑川電機" || row[2] != "既存顧客" {
			t.Errorf("company fields not repeated: %v", row)
		}
	}
	if records[1][15] != "電機|開発" {
		t.Errorf("matched terms cell: %q", records[1][15])
	}
	if records[1][8] != "120" || records[1][9] != "4500000000" {
		t.Errorf("numeric fields: employees=%q revenue=%q", records[1][8], records[1][9])
	}
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, nil); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\uFEFF"))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("expected header only, got %d records", len(records))
	}
}

func TestWriteCSV_ClipsLongContent(t *testing.T) {
	companies := []result.Company{{
		CompanyID: "c1",
		URLs: []result.URLMatch{{
			URL:     "https://example.jp/",
			Content: strings.Repeat("あ", 600),
		}},
	}}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, companies); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\uFEFF"))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if got := len([]rune(records[1][13])); got != 500 {
		t.Errorf("content length: got %d runes, want 500", got)
	}
}
