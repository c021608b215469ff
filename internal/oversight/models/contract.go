// Package models defines the oversight entities (contracts, committees, and
// memberships) and the temporal invariants the rest of the system depends
// on. The active-membership predicate lives here (active.go) as the single
// source of truth for "currently serving".
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Contract is a procurement agreement with a company.
//
// Invariants:
//   - Number is non-empty and unique (store-enforced)
//   - Type is expense or revenue
//   - ValidUntil is never before ValidFrom
//
// Side effect: creating a contract also creates one inspection committee
// shell (inactive, no dates) so every contract has a body to populate. That
// happens in the contract service, not here.
type Contract struct {
	ID          domain.ContractID   `json:"id"`
	Number      string              `json:"number"`
	Type        domain.ContractType `json:"type"`
	Description string              `json:"description"`
	CompanyID   domain.CompanyID    `json:"company_id"`
	ValidFrom   time.Time           `json:"valid_from"`
	ValidUntil  time.Time           `json:"valid_until"`
	TotalValue  float64             `json:"total_value"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// Validate enforces the contract invariants before any save. Invalid
// contracts are never persisted.
func (c *Contract) Validate() error {
	if strings.TrimSpace(c.Number) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract number cannot be empty")
	}
	if !c.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract type must be 'expense' or 'revenue'")
	}
	if c.CompanyID == domain.CompanyID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract must reference a company")
	}
	if c.ValidFrom.IsZero() || c.ValidUntil.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract validity window requires both dates")
	}
	if c.ValidUntil.Before(c.ValidFrom) {
		return dErrors.New(dErrors.CodeInvariantViolation, "contract validity end cannot precede its start")
	}
	return nil
}

// Expired reports whether the contract's validity window has fully passed.
func (c *Contract) Expired(today time.Time) bool {
	return c.ValidUntil.Before(domain.Truncate(today))
}
