//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	oversight "fiscaldesk/internal/oversight/models"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/pkg/domain"
	"fiscaldesk/pkg/platform/sentinel"
	"fiscaldesk/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	st       *Storage
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T(), Schema)
	s.st = NewPostgres(s.postgres.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(),
		"memberships", "committees", "contracts", "companies", "roles", "agents", "ranks")
	s.Require().NoError(err)
}

// fixture creates the minimal reference chain a membership needs.
type fixture struct {
	rank      *roster.Rank
	agent     *roster.Agent
	role      *roster.Role
	company   *roster.Company
	contract  *oversight.Contract
	committee *oversight.Committee
}

func (s *PostgresStoreSuite) newFixture() *fixture {
	ctx := context.Background()
	now := time.Now().UTC()

	f := &fixture{}
	f.rank = &roster.Rank{ID: domain.NewRankID(), Abbreviation: "MAJ", SeniorityOrder: 1, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Ranks.Create(ctx, f.rank))

	f.agent = &roster.Agent{
		ID: domain.NewAgentID(), FullName: "Arthur Andrade", WarName: "Andrade",
		RankID: f.rank.ID, Registration: "100001", CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(s.st.Agents.Create(ctx, f.agent))

	f.role = &roster.Role{ID: domain.NewRoleID(), Title: "Inspector", HierarchyOrder: 1, Active: true, CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Roles.Create(ctx, f.role))

	f.company = &roster.Company{ID: domain.NewCompanyID(), LegalName: "Vendor Ltd", TaxID: "12.345", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.st.Companies.Create(ctx, f.company))

	f.contract = &oversight.Contract{
		ID: domain.NewContractID(), Number: "CT-1", Type: domain.ContractTypeExpense,
		CompanyID: f.company.ID, ValidFrom: domain.Date(2024, 1, 1), ValidUntil: domain.Date(2025, 12, 31),
		CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(s.st.Contracts.Create(ctx, f.contract))

	f.committee = &oversight.Committee{
		ID: domain.NewCommitteeID(), ContractID: f.contract.ID,
		Kind: domain.CommitteeKindInspection, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(s.st.Committees.Create(ctx, f.committee))

	return f
}

func (s *PostgresStoreSuite) TestUniqueViolationsTranslate() {
	ctx := context.Background()
	f := s.newFixture()

	dup := &roster.Agent{
		ID: domain.NewAgentID(), FullName: "Other", WarName: "Other",
		RankID: f.rank.ID, Registration: f.agent.Registration,
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.ErrorIs(s.st.Agents.Create(ctx, dup), sentinel.ErrConflict)

	dupContract := &oversight.Contract{
		ID: domain.NewContractID(), Number: f.contract.Number, Type: domain.ContractTypeExpense,
		CompanyID: f.company.ID, ValidFrom: domain.Date(2024, 1, 1), ValidUntil: domain.Date(2025, 1, 1),
		CreatedAt: time.Now().UTC(), UpdatedAt: time.Now().UTC(),
	}
	s.ErrorIs(s.st.Contracts.Create(ctx, dupContract), sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestForeignKeyRestrictTranslates() {
	ctx := context.Background()
	f := s.newFixture()

	s.ErrorIs(s.st.Ranks.Delete(ctx, f.rank.ID), sentinel.ErrReferenced)
	s.ErrorIs(s.st.Companies.Delete(ctx, f.company.ID), sentinel.ErrReferenced)
}

func (s *PostgresStoreSuite) TestNotFoundTranslates() {
	ctx := context.Background()

	_, err := s.st.Agents.FindByID(ctx, domain.NewAgentID())
	s.ErrorIs(err, sentinel.ErrNotFound)

	err = s.st.Roles.Delete(ctx, domain.NewRoleID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// TestActivePredicateAgreement runs the boundary grid through the pushed-down
// SQL filter and checks every verdict against the in-memory predicate, so the
// two forms cannot drift apart.
func (s *PostgresStoreSuite) TestActivePredicateAgreement() {
	ctx := context.Background()
	f := s.newFixture()
	now := time.Now().UTC()
	today := domain.Date(2025, 8, 1)

	offsets := []*int{nil, intPtr(-1), intPtr(0), intPtr(1)}
	var all []*oversight.Membership
	for _, termOff := range offsets {
		for _, endOff := range offsets {
			m := &oversight.Membership{
				ID: domain.NewMembershipID(), CommitteeID: f.committee.ID,
				AgentID: f.agent.ID, RoleID: f.role.ID,
				StartDate: domain.Date(2024, 1, 1), CreatedAt: now, UpdatedAt: now,
			}
			if termOff != nil {
				d := domain.AddDays(today, *termOff)
				m.TerminatedOn = &d
			}
			if endOff != nil {
				d := domain.AddDays(today, *endOff)
				m.ScheduledEnd = &d
			}
			s.Require().NoError(s.st.Memberships.Create(ctx, m))
			all = append(all, m)
		}
	}

	details, err := s.st.Memberships.ListActiveDetails(ctx, today)
	s.Require().NoError(err)

	returned := make(map[domain.MembershipID]bool, len(details))
	for _, d := range details {
		returned[d.Membership.ID] = true
	}
	for _, m := range all {
		s.Equal(m.IsActive(today), returned[m.ID],
			"predicate disagreement: terminated_on=%v scheduled_end=%v", m.TerminatedOn, m.ScheduledEnd)
	}
}

func (s *PostgresStoreSuite) TestFindPredecessorRoundTrip() {
	ctx := context.Background()
	f := s.newFixture()
	now := time.Now().UTC()

	end := domain.Date(2024, 12, 31)
	first := &oversight.Membership{
		ID: domain.NewMembershipID(), CommitteeID: f.committee.ID,
		AgentID: f.agent.ID, RoleID: f.role.ID,
		StartDate: domain.Date(2024, 1, 1), ScheduledEnd: &end,
		CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(s.st.Memberships.Create(ctx, first))

	found, err := s.st.Memberships.FindPredecessor(ctx, f.committee.ID, f.agent.ID, f.role.ID, end)
	s.Require().NoError(err)
	s.Equal(first.ID, found.ID)

	_, err = s.st.Memberships.FindPredecessor(ctx, f.committee.ID, f.agent.ID, f.role.ID, domain.Date(2024, 12, 30))
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMembershipRoundTripPreservesNulls() {
	ctx := context.Background()
	f := s.newFixture()
	now := time.Now().UTC()

	m := &oversight.Membership{
		ID: domain.NewMembershipID(), CommitteeID: f.committee.ID,
		AgentID: f.agent.ID, RoleID: f.role.ID, RankID: &f.rank.ID,
		StartDate: domain.Date(2024, 3, 1), Note: "standing member",
		CreatedAt: now, UpdatedAt: now,
	}
	s.Require().NoError(s.st.Memberships.Create(ctx, m))

	got, err := s.st.Memberships.FindByID(ctx, m.ID)
	s.Require().NoError(err)
	s.Nil(got.ScheduledEnd)
	s.Nil(got.TerminatedOn)
	s.Nil(got.DisplayOrder)
	s.Require().NotNil(got.RankID)
	s.Equal(f.rank.ID, *got.RankID)
	s.True(domain.SameDate(domain.Date(2024, 3, 1), got.StartDate))
}

func intPtr(v int) *int { return &v }
