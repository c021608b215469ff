package models

import (
	"time"

	"github.com/google/uuid"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Committee is one oversight body for one contract, of kind inspection or
// receiving. A contract holds at most one committee of each kind; the
// service enforces that with get-or-create, not a hard constraint.
//
// The Active flag is administrative. It does NOT follow the committee's own
// dates; an administrator (or the scheduled deactivation sweep) must flip
// it. Member activity is computed independently from membership dates.
//
// Business rule: a committee with zero memberships may not be activated.
// The service persists the corrected (inactive) record and surfaces the
// violation rather than leaving the in-memory record inconsistent.
type Committee struct {
	ID         domain.CommitteeID   `json:"id"`
	ContractID domain.ContractID    `json:"contract_id"`
	Kind       domain.CommitteeKind `json:"kind"`
	Active     bool                 `json:"active"`

	// Founding order (portaria) that constituted the committee.
	OrderNumber string     `json:"order_number,omitempty"`
	OrderDate   *time.Time `json:"order_date,omitempty"`

	// Publication bulletin that announced it.
	BulletinNumber string     `json:"bulletin_number,omitempty"`
	BulletinDate   *time.Time `json:"bulletin_date,omitempty"`

	// Overall validity window. Either side may be nil (open-ended).
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the committee invariants before any save.
func (c *Committee) Validate() error {
	if c.ContractID == domain.ContractID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee must reference a contract")
	}
	if !c.Kind.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee kind must be 'inspection' or 'receiving'")
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "committee end date cannot precede its start date")
	}
	return nil
}

// ValidityExpired reports whether the committee has an end date strictly
// before today. The deactivation sweep flips Active off for these.
func (c *Committee) ValidityExpired(today time.Time) bool {
	return c.EndDate != nil && c.EndDate.Before(domain.Truncate(today))
}

// NewCommitteeShell builds the inactive, date-less committee created as a
// side effect of contract creation.
func NewCommitteeShell(contractID domain.ContractID, kind domain.CommitteeKind, now time.Time) *Committee {
	return &Committee{
		ID:         domain.NewCommitteeID(),
		ContractID: contractID,
		Kind:       kind,
		Active:     false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
