package domain

// CompanyFields are the company-descriptive attributes denormalized onto
// every document at index-build time. All documents of one company are
// expected to carry identical values; the first-seen value wins.
type CompanyFields struct {
	Name           string `json:"company_name"`
	Address        string `json:"address"`
	Prefecture     string `json:"prefecture"`
	City           string `json:"city"`
	IndustryMajor  string `json:"industry_major"`
	IndustryMinor  string `json:"industry_minor"`
	Employees      int    `json:"employees"`
	Revenue        int64  `json:"revenue"`
	CustomerStatus string `json:"customer_status"`
	MainDomainURL  string `json:"main_domain_url"`
}

// Document is one company web page as produced by the offline indexing
// pipeline. ContentTokens are pre-tokenized with the same tokenizer the
// query side uses; the index never re-tokenizes content.
type Document struct {
	ID            string        `json:"id"`
	CompanyID     string        `json:"company_id"` // JCN, shared by all pages of one company
	URL           string        `json:"url"`
	URLLabel      string        `json:"url_label"`
	Content       string        `json:"content"` // display snippet, not searched
	TitleTokens   []string      `json:"title_tokens"`
	ContentTokens []string      `json:"content_tokens"`
	Company       CompanyFields `json:"company"`
}

// Validate checks the identifiers the index and grouper depend on.
func (d *Document) Validate() error {
	if d.ID == "" || d.CompanyID == "" {
		return ErrDocumentInvalid
	}
	return nil
}
