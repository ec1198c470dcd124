package index

import (
	"sync"

	"go.uber.org/zap"

	"github.com/midori-cloud/kensaku/internal/domain"
)

// Directory is the read-through company lookup used by the grouper:
// companyID -> canonical company fields, populated as documents are
// added. Company fields are denormalized onto every document; the
// first-seen value is canonical and later divergence is a data-quality
// warning, not an error.
type Directory struct {
	mu        sync.RWMutex
	companies map[string]domain.CompanyFields
	logger    *zap.Logger
}

// NewDirectory creates an empty company directory.
func NewDirectory(logger *zap.Logger) *Directory {
	return &Directory{
		companies: make(map[string]domain.CompanyFields),
		logger:    logger,
	}
}

// Observe records a company's fields from a document being indexed.
func (d *Directory) Observe(companyID string, fields domain.CompanyFields) {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.companies[companyID]
	if !ok {
		d.companies[companyID] = fields
		return
	}
	if existing != fields {
		d.logger.Warn("company fields diverge across documents",
			zap.String("company_id", companyID),
			zap.String("kept_name", existing.Name),
			zap.String("seen_name", fields.Name),
		)
	}
}

// Company returns the canonical fields for a company.
func (d *Directory) Company(companyID string) (domain.CompanyFields, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	f, ok := d.companies[companyID]
	return f, ok
}

// Len returns the number of known companies.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.companies)
}

// Reset drops every known company. Called when all indexes are cleared.
func (d *Directory) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.companies = make(map[string]domain.CompanyFields)
}
