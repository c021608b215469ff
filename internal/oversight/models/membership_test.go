package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
)

func validMembership() *Membership {
	return &Membership{
		ID:          domain.NewMembershipID(),
		CommitteeID: domain.NewCommitteeID(),
		AgentID:     domain.NewAgentID(),
		RoleID:      domain.NewRoleID(),
		StartDate:   domain.Date(2024, 1, 1),
	}
}

func TestMembershipValidate(t *testing.T) {
	t.Run("open-ended membership is valid", func(t *testing.T) {
		assert.NoError(t, validMembership().Validate())
	})

	t.Run("scheduled end before start is rejected", func(t *testing.T) {
		m := validMembership()
		m.ScheduledEnd = domain.DatePtr(2023, 12, 31)
		err := m.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("scheduled end equal to start is allowed", func(t *testing.T) {
		m := validMembership()
		m.ScheduledEnd = domain.DatePtr(2024, 1, 1)
		assert.NoError(t, m.Validate())
	})

	t.Run("termination before start is rejected", func(t *testing.T) {
		m := validMembership()
		m.TerminatedOn = domain.DatePtr(2023, 12, 31)
		err := m.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("missing start date is rejected", func(t *testing.T) {
		m := validMembership()
		m.StartDate = time.Time{}
		err := m.Validate()
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestMembershipCommitteeWindow(t *testing.T) {
	committee := &Committee{
		ID:         domain.NewCommitteeID(),
		ContractID: domain.NewContractID(),
		Kind:       domain.CommitteeKindInspection,
		StartDate:  domain.DatePtr(2024, 1, 1),
		EndDate:    domain.DatePtr(2024, 12, 31),
	}

	t.Run("start before committee start is rejected", func(t *testing.T) {
		m := validMembership()
		m.StartDate = domain.Date(2023, 12, 15)
		err := m.ValidateWithinCommittee(committee)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("end beyond committee end is rejected", func(t *testing.T) {
		m := validMembership()
		m.ScheduledEnd = domain.DatePtr(2025, 1, 15)
		err := m.ValidateWithinCommittee(committee)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("dates inside the window pass", func(t *testing.T) {
		m := validMembership()
		m.ScheduledEnd = domain.DatePtr(2024, 6, 30)
		assert.NoError(t, m.ValidateWithinCommittee(committee))
	})

	t.Run("open-ended committee accepts anything ordered", func(t *testing.T) {
		open := &Committee{ID: committee.ID, ContractID: committee.ContractID, Kind: committee.Kind}
		m := validMembership()
		m.ScheduledEnd = domain.DatePtr(2030, 1, 1)
		assert.NoError(t, m.ValidateWithinCommittee(open))
	})
}

func TestMembershipDefaults(t *testing.T) {
	committee := &Committee{
		ID:        domain.NewCommitteeID(),
		StartDate: domain.DatePtr(2024, 1, 1),
		EndDate:   domain.DatePtr(2024, 12, 31),
	}

	t.Run("blank dates inherit from committee", func(t *testing.T) {
		m := &Membership{CommitteeID: committee.ID}
		m.ApplyCommitteeDefaults(committee)
		assert.Equal(t, domain.Date(2024, 1, 1), m.StartDate)
		require.NotNil(t, m.ScheduledEnd)
		assert.Equal(t, domain.Date(2024, 12, 31), *m.ScheduledEnd)
	})

	t.Run("explicit dates win over inheritance", func(t *testing.T) {
		m := &Membership{
			CommitteeID:  committee.ID,
			StartDate:    domain.Date(2024, 3, 1),
			ScheduledEnd: domain.DatePtr(2024, 6, 30),
		}
		m.ApplyCommitteeDefaults(committee)
		assert.Equal(t, domain.Date(2024, 3, 1), m.StartDate)
		assert.Equal(t, domain.Date(2024, 6, 30), *m.ScheduledEnd)
	})

	t.Run("rank snapshot captures once and freezes", func(t *testing.T) {
		designated := domain.NewRankID()
		promoted := domain.NewRankID()

		m := validMembership()
		m.ApplyRankSnapshot(designated)
		require.NotNil(t, m.RankID)
		assert.Equal(t, designated, *m.RankID)

		// A later save with the agent's new rank must not re-sync.
		m.ApplyRankSnapshot(promoted)
		assert.Equal(t, designated, *m.RankID)
	})
}

func TestPrefillFromCommittee(t *testing.T) {
	committee := &Committee{
		ID:             domain.NewCommitteeID(),
		OrderNumber:    "120/2024",
		OrderDate:      domain.DatePtr(2024, 1, 5),
		BulletinNumber: "BI 12",
		BulletinDate:   domain.DatePtr(2024, 1, 8),
		StartDate:      domain.DatePtr(2024, 1, 10),
		EndDate:        domain.DatePtr(2024, 12, 20),
	}

	m := PrefillFromCommittee(committee)
	assert.Equal(t, committee.ID, m.CommitteeID)
	assert.Equal(t, "120/2024", m.OrderNumber)
	assert.Equal(t, "BI 12", m.BulletinNumber)
	assert.Equal(t, domain.Date(2024, 1, 10), m.StartDate)
	require.NotNil(t, m.ScheduledEnd)
	assert.Equal(t, domain.Date(2024, 12, 20), *m.ScheduledEnd)
}
