// Package export flattens grouped search results into CSV, one row per
// matched URL with the company fields repeated on every row.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/midori-cloud/kensaku/internal/domain/search/result"
)

// utf8BOM keeps Excel from misreading Japanese text as Shift_JIS.
const utf8BOM = "\ufeff"

// termJoiner separates matched terms within one CSV cell.
const termJoiner = "|"

var header = []string{
	"company_id", "company_name", "customer_status",
	"address", "prefecture", "city",
	"industry_major", "industry_minor", "employees", "revenue",
	"main_domain_url",
	"url", "url_label", "content", "score", "matched_terms",
}

// WriteCSV streams companies to w as CSV. A company with N matched URLs
// produces exactly N rows carrying identical company-field values.
func WriteCSV(w io.Writer, companies []result.Company) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, company := range companies {
		f := company.Fields
		for _, u := range company.URLs {
			row := []string{
				company.CompanyID,
				f.Name,
				f.CustomerStatus,
				f.Address,
				f.Prefecture,
				f.City,
				f.IndustryMajor,
				f.IndustryMinor,
				strconv.Itoa(f.Employees),
				strconv.FormatInt(f.Revenue, 10),
				f.MainDomainURL,
				u.URL,
				u.URLLabel,
				clip(u.Content, 500),
				strconv.FormatFloat(u.Score, 'f', 3, 64),
				strings.Join(u.MatchedTerms, termJoiner),
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write row for %s: %w", company.CompanyID, err)
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// clip truncates long content cells without splitting a rune.
func clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
