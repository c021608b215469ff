package models

import (
	"time"

	"github.com/google/uuid"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

// Membership is one agent's timed designation to one role on one committee.
//
// Invariants (checked on every save, never persisted when violated):
//   - StartDate is required (after committee-date inheritance is applied)
//   - ScheduledEnd, when set, is never before StartDate
//   - TerminatedOn, when set, is never before StartDate
//   - when the owning committee has a start date, StartDate is not before it
//   - when the owning committee has an end date, ScheduledEnd does not
//     exceed it
//
// Save-time defaults (applied once, at creation only):
//   - RankID absent: copied from the agent's current rank. Snapshot-then-
//     freeze, never re-synced, so the historical grade survives later
//     promotions.
//   - StartDate / ScheduledEnd absent: inherited from the owning committee's
//     validity window. Clearing ScheduledEnd on a later edit is honored as a
//     deliberate open end and not re-filled.
//
// A membership closes either by reaching ScheduledEnd (time-based, no
// mutation) or by an administrator recording TerminatedOn plus a reason
// (early dismissal). Records are never hard-deleted; history backs the
// audit trail.
type Membership struct {
	ID          domain.MembershipID `json:"id"`
	CommitteeID domain.CommitteeID  `json:"committee_id"`
	AgentID     domain.AgentID      `json:"agent_id"`
	RoleID      domain.RoleID       `json:"role_id"`

	// RankID is the grade the agent held at designation time.
	RankID *domain.RankID `json:"rank_id,omitempty"`

	StartDate    time.Time  `json:"start_date"`
	ScheduledEnd *time.Time `json:"scheduled_end,omitempty"`

	TerminatedOn      *time.Time `json:"terminated_on,omitempty"`
	TerminationReason string     `json:"termination_reason,omitempty"`
	TerminationDoc    string     `json:"termination_doc,omitempty"`

	OrderNumber    string     `json:"order_number,omitempty"`
	OrderDate      *time.Time `json:"order_date,omitempty"`
	BulletinNumber string     `json:"bulletin_number,omitempty"`
	BulletinDate   *time.Time `json:"bulletin_date,omitempty"`

	Note string `json:"note,omitempty"`
	// DisplayOrder, when set, overrides the default role-hierarchy ordering
	// in committee listings.
	DisplayOrder *int `json:"display_order,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate enforces the membership date-ordering invariants.
func (m *Membership) Validate() error {
	if m.CommitteeID == domain.CommitteeID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership must reference a committee")
	}
	if m.AgentID == domain.AgentID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership must reference an agent")
	}
	if m.RoleID == domain.RoleID(uuid.Nil) {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership must reference a role")
	}
	if m.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership start date is required")
	}
	if m.ScheduledEnd != nil && m.ScheduledEnd.Before(m.StartDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "scheduled end date cannot precede the start date")
	}
	if m.TerminatedOn != nil && m.TerminatedOn.Before(m.StartDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "termination date cannot precede the start date")
	}
	return nil
}

// ValidateWithinCommittee checks the membership dates against the owning
// committee's validity window.
func (m *Membership) ValidateWithinCommittee(c *Committee) error {
	if c.StartDate != nil && m.StartDate.Before(*c.StartDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership cannot start before the committee's start date")
	}
	if m.ScheduledEnd != nil && c.EndDate != nil && m.ScheduledEnd.After(*c.EndDate) {
		return dErrors.New(dErrors.CodeInvariantViolation, "membership cannot end after the committee's end date")
	}
	return nil
}

// ApplyCommitteeDefaults inherits blank designation dates from the owning
// committee. Called at creation time only; later edits that blank a field
// are honored.
func (m *Membership) ApplyCommitteeDefaults(c *Committee) {
	if m.StartDate.IsZero() && c.StartDate != nil {
		m.StartDate = *c.StartDate
	}
	if m.ScheduledEnd == nil && c.EndDate != nil {
		end := *c.EndDate
		m.ScheduledEnd = &end
	}
}

// ApplyRankSnapshot captures the agent's current rank when none was
// recorded. One-time capture; an already-set snapshot is never touched.
func (m *Membership) ApplyRankSnapshot(currentRank domain.RankID) {
	if m.RankID == nil {
		rank := currentRank
		m.RankID = &rank
	}
}

// PrefillFromCommittee drafts a new membership carrying the committee's
// founding-order, bulletin, and validity fields, mirroring how designations
// are registered from the committee's own paperwork.
func PrefillFromCommittee(c *Committee) *Membership {
	m := &Membership{
		CommitteeID:    c.ID,
		OrderNumber:    c.OrderNumber,
		BulletinNumber: c.BulletinNumber,
	}
	if c.OrderDate != nil {
		d := *c.OrderDate
		m.OrderDate = &d
	}
	if c.BulletinDate != nil {
		d := *c.BulletinDate
		m.BulletinDate = &d
	}
	if c.StartDate != nil {
		m.StartDate = *c.StartDate
	}
	if c.EndDate != nil {
		d := *c.EndDate
		m.ScheduledEnd = &d
	}
	return m
}
