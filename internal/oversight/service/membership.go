package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
	"fiscaldesk/pkg/requestcontext"
)

// PrefillMembership drafts a membership from the committee's own paperwork:
// founding order, bulletin, and validity window. Nothing is persisted.
func (s *Service) PrefillMembership(ctx context.Context, committeeID domain.CommitteeID) (*models.Membership, error) {
	c, err := s.GetCommittee(ctx, committeeID)
	if err != nil {
		return nil, err
	}
	return models.PrefillFromCommittee(c), nil
}

// CreateMembership designates an agent to a committee. Creation-time
// defaults apply here and only here: blank dates inherit the committee's
// validity window and a missing rank snapshot captures the agent's current
// grade. Every referenced record must exist.
func (s *Service) CreateMembership(ctx context.Context, m *models.Membership) error {
	now := requestcontext.Now(ctx)
	m.ID = domain.NewMembershipID()
	m.CreatedAt = now
	m.UpdatedAt = now
	normalizeMembershipDates(m)

	committee, err := s.committees.FindByID(ctx, m.CommitteeID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "membership references an unknown committee")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership committee")
	}
	agent, err := s.agents.FindByID(ctx, m.AgentID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "membership references an unknown agent")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership agent")
	}
	if _, err := s.roles.FindByID(ctx, m.RoleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "membership references an unknown role")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership role")
	}

	m.ApplyCommitteeDefaults(committee)
	m.ApplyRankSnapshot(agent.RankID)

	if err := m.Validate(); err != nil {
		return err
	}
	if err := m.ValidateWithinCommittee(committee); err != nil {
		return err
	}

	if err := translateSave(s.memberships.Create(ctx, m), "membership"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "membership created",
		"membership_id", m.ID, "committee_id", m.CommitteeID,
		"agent_id", m.AgentID, "role_id", m.RoleID)
	if s.metrics != nil {
		s.metrics.MembershipsCreated.Inc()
	}
	return nil
}

// UpdateMembership saves membership edits. Creation-time defaults do NOT
// re-apply: a cleared scheduled end stays cleared (deliberate open end), and
// the rank snapshot survives unless the caller explicitly replaces it: an
// absent rank is re-read from the stored record, never from the agent.
func (s *Service) UpdateMembership(ctx context.Context, m *models.Membership) error {
	existing, err := s.memberships.FindByID(ctx, m.ID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "membership not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership")
	}

	// Identity of the designation is immutable; move the agent to a new
	// membership instead of rewriting history.
	m.CommitteeID = existing.CommitteeID
	m.AgentID = existing.AgentID
	m.RoleID = existing.RoleID
	if m.RankID == nil {
		m.RankID = existing.RankID
	}
	m.CreatedAt = existing.CreatedAt
	m.UpdatedAt = requestcontext.Now(ctx)
	normalizeMembershipDates(m)

	committee, err := s.committees.FindByID(ctx, m.CommitteeID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership committee")
	}

	if err := m.Validate(); err != nil {
		return err
	}
	if err := m.ValidateWithinCommittee(committee); err != nil {
		return err
	}
	return translateSave(s.memberships.Update(ctx, m), "membership")
}

// TerminateMembership records an early dismissal. A reason is mandatory;
// the record stays in place for the audit trail.
func (s *Service) TerminateMembership(ctx context.Context, id domain.MembershipID, on time.Time, reason, doc string) (*models.Membership, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "termination reason cannot be empty")
	}

	m, err := s.memberships.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "membership not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership")
	}
	if m.TerminatedOn != nil {
		return nil, dErrors.New(dErrors.CodeBusinessRuleViolation, "membership is already terminated")
	}

	when := domain.Truncate(on)
	m.TerminatedOn = &when
	m.TerminationReason = strings.TrimSpace(reason)
	m.TerminationDoc = strings.TrimSpace(doc)
	m.UpdatedAt = requestcontext.Now(ctx)

	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := translateSave(s.memberships.Update(ctx, m), "membership"); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "membership terminated",
		"membership_id", m.ID, "terminated_on", when, "reason", m.TerminationReason)
	if s.metrics != nil {
		s.metrics.MembershipsTerminated.Inc()
	}
	return m, nil
}

func (s *Service) GetMembership(ctx context.Context, id domain.MembershipID) (*models.Membership, error) {
	m, err := s.memberships.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "membership not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load membership")
	}
	return m, nil
}

func (s *Service) ListMembershipsByCommittee(ctx context.Context, committeeID domain.CommitteeID) ([]*models.Membership, error) {
	out, err := s.memberships.ListByCommittee(ctx, committeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list memberships")
	}
	return out, nil
}

// normalizeMembershipDates strips time-of-day from every date field so the
// civil-date comparisons in the predicate and the chain walk stay exact.
func normalizeMembershipDates(m *models.Membership) {
	if !m.StartDate.IsZero() {
		m.StartDate = domain.Truncate(m.StartDate)
	}
	truncatePtr(&m.ScheduledEnd)
	truncatePtr(&m.TerminatedOn)
	truncatePtr(&m.OrderDate)
	truncatePtr(&m.BulletinDate)
}

func truncatePtr(t **time.Time) {
	if *t != nil {
		d := domain.Truncate(**t)
		*t = &d
	}
}
