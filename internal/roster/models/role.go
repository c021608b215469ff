package models

import (
	"strings"
	"time"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Role is a designation type an agent can hold on a committee
// (inspector, alternate inspector, president, ...).
//
// Invariants:
//   - Title is non-empty and unique (store-enforced)
//   - HierarchyOrder sorts members within a committee listing; lower first
//
// A role cannot be deleted while any membership references it.
type Role struct {
	ID             domain.RoleID `json:"id"`
	Title          string        `json:"title"`
	Abbreviation   string        `json:"abbreviation,omitempty"`
	HierarchyOrder int           `json:"hierarchy_order"`
	Active         bool          `json:"active"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// Validate enforces the role invariants before any save.
func (r *Role) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "role title cannot be empty")
	}
	return nil
}
