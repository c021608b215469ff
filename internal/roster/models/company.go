package models

import (
	"strings"
	"time"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Company is a contracted vendor.
//
// Invariants:
//   - LegalName is non-empty
//   - TaxID is non-empty and unique (store-enforced)
//
// A company cannot be deleted while any contract references it.
type Company struct {
	ID        domain.CompanyID `json:"id"`
	LegalName string           `json:"legal_name"`
	TaxID     string           `json:"tax_id"`
	Contact   string           `json:"contact,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Validate enforces the company invariants before any save.
func (c *Company) Validate() error {
	if strings.TrimSpace(c.LegalName) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "company legal name cannot be empty")
	}
	if strings.TrimSpace(c.TaxID) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "company tax ID cannot be empty")
	}
	return nil
}
