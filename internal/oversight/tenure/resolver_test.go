package tenure

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
	"fiscaldesk/pkg/platform/sentinel"
)

// sliceFinder implements PredecessorFinder over an in-memory slice, the same
// matching rule the stores implement.
type sliceFinder struct {
	memberships []*oversight.Membership
}

func (f *sliceFinder) FindPredecessor(_ context.Context, committeeID domain.CommitteeID, agentID domain.AgentID, roleID domain.RoleID, endingOn time.Time) (*oversight.Membership, error) {
	for _, m := range f.memberships {
		if m.CommitteeID != committeeID || m.AgentID != agentID || m.RoleID != roleID {
			continue
		}
		if m.ScheduledEnd != nil && domain.SameDate(*m.ScheduledEnd, endingOn) {
			return m, nil
		}
		if m.TerminatedOn != nil && domain.SameDate(*m.TerminatedOn, endingOn) {
			return m, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

type ResolverSuite struct {
	suite.Suite
	committeeID domain.CommitteeID
	agentID     domain.AgentID
	roleID      domain.RoleID
}

func TestResolverSuite(t *testing.T) {
	suite.Run(t, new(ResolverSuite))
}

func (s *ResolverSuite) SetupTest() {
	s.committeeID = domain.NewCommitteeID()
	s.agentID = domain.NewAgentID()
	s.roleID = domain.NewRoleID()
}

func (s *ResolverSuite) membership(start time.Time) *oversight.Membership {
	return &oversight.Membership{
		ID:          domain.NewMembershipID(),
		CommitteeID: s.committeeID,
		AgentID:     s.agentID,
		RoleID:      s.roleID,
		StartDate:   start,
	}
}

func (s *ResolverSuite) TestNoPredecessor() {
	m := s.membership(domain.Date(2024, 3, 1))
	res, err := Resolve(context.Background(), &sliceFinder{}, m, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2024, 3, 1), res.Origin)
	s.Equal(0, res.Links)
}

// TestChainedRenewals: link 2 starts one day after link 1's scheduled end,
// link 3 starts one day after link 2's termination. Resolving from link 3
// must land on link 1's start.
func (s *ResolverSuite) TestChainedRenewals() {
	link1 := s.membership(domain.Date(2022, 1, 1))
	link1.ScheduledEnd = domain.DatePtr(2022, 12, 31)

	link2 := s.membership(domain.Date(2023, 1, 1))
	link2.ScheduledEnd = domain.DatePtr(2023, 12, 31)
	link2.TerminatedOn = domain.DatePtr(2023, 6, 30) // dismissed early

	link3 := s.membership(domain.Date(2023, 7, 1))

	finder := &sliceFinder{memberships: []*oversight.Membership{link1, link2, link3}}
	res, err := Resolve(context.Background(), finder, link3, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2022, 1, 1), res.Origin)
	s.Equal(2, res.Links)
}

// TestGapBreaksChain: a one-day gap between link 1 and link 2 stops the
// walk at link 2's own start.
func (s *ResolverSuite) TestGapBreaksChain() {
	link1 := s.membership(domain.Date(2022, 1, 1))
	link1.ScheduledEnd = domain.DatePtr(2022, 12, 31)

	// Starts two days after link 1 ends, not continuous.
	link2 := s.membership(domain.Date(2023, 1, 2))
	link2.ScheduledEnd = domain.DatePtr(2023, 12, 31)

	link3 := s.membership(domain.Date(2024, 1, 1))

	finder := &sliceFinder{memberships: []*oversight.Membership{link1, link2, link3}}

	res, err := Resolve(context.Background(), finder, link3, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2023, 1, 2), res.Origin)
	s.Equal(1, res.Links)

	res, err = Resolve(context.Background(), finder, link2, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2023, 1, 2), res.Origin)
	s.Equal(0, res.Links)
}

// TestDifferentTripleIgnored: a back-to-back membership on another role must
// not extend the chain.
func (s *ResolverSuite) TestDifferentTripleIgnored() {
	otherRole := s.membership(domain.Date(2023, 1, 1))
	otherRole.RoleID = domain.NewRoleID()
	otherRole.ScheduledEnd = domain.DatePtr(2023, 12, 31)

	m := s.membership(domain.Date(2024, 1, 1))

	finder := &sliceFinder{memberships: []*oversight.Membership{otherRole, m}}
	res, err := Resolve(context.Background(), finder, m, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2024, 1, 1), res.Origin)
	s.Equal(0, res.Links)
}

// TestScenarioRoster mirrors the audit-roster scenario: renewal on
// 2024-07-01 after a scheduled end on 2024-06-30 resolves to the original
// 2024-01-01 start with 213 elapsed days on 2024-08-01.
func (s *ResolverSuite) TestScenarioRoster() {
	a := s.membership(domain.Date(2024, 1, 1))
	a.ScheduledEnd = domain.DatePtr(2024, 6, 30)
	b := s.membership(domain.Date(2024, 7, 1))

	finder := &sliceFinder{memberships: []*oversight.Membership{a, b}}
	res, err := Resolve(context.Background(), finder, b, domain.Date(2024, 8, 1))
	s.Require().NoError(err)
	s.Equal(domain.Date(2024, 1, 1), res.Origin)
	s.Equal(213, res.TotalDays)
	s.Equal(0, res.Years)
	s.Equal(7, res.Months)
}

func TestResolutionFormatted(t *testing.T) {
	res := Resolution{TotalDays: 427, Years: 1, Months: 2}
	require.Equal(t, "1y 2m (427 days)", res.Formatted())
}
