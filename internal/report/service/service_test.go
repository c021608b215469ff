package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/internal/oversight/risk"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/requestcontext"
)

// mapCache is an in-memory Cache for tests.
type mapCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newMapCache() *mapCache { return &mapCache{data: make(map[string][]byte)} }

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool) {
	c.gets++
	raw, ok := c.data[key]
	return raw, ok
}

func (c *mapCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	c.sets++
	c.data[key] = value
}

type ReportSuite struct {
	suite.Suite
	ctx   context.Context
	today time.Time
	st    *store.Storage
	svc   *Service

	rank      *roster.Rank
	role      *roster.Role
	company   *roster.Company
	contract  *oversight.Contract
	committee *oversight.Committee
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

func (s *ReportSuite) SetupTest() {
	s.today = domain.Date(2024, 8, 1)
	s.ctx = requestcontext.WithTime(context.Background(), s.today)
	s.st = store.NewMemory()
	s.svc = New(s.st)

	s.rank = &roster.Rank{ID: domain.NewRankID(), Abbreviation: "MAJ", SeniorityOrder: 1}
	s.Require().NoError(s.st.Ranks.Create(s.ctx, s.rank))
	s.role = &roster.Role{ID: domain.NewRoleID(), Title: "Inspector", HierarchyOrder: 1, Active: true}
	s.Require().NoError(s.st.Roles.Create(s.ctx, s.role))
	s.company = &roster.Company{ID: domain.NewCompanyID(), LegalName: "Vendor Ltd", TaxID: "12.345"}
	s.Require().NoError(s.st.Companies.Create(s.ctx, s.company))

	s.contract = s.addContract("CT-2024/001", domain.AddDays(s.today, 30))
	s.committee = s.addCommittee(s.contract, domain.CommitteeKindInspection, true)
}

func (s *ReportSuite) addContract(number string, until time.Time) *oversight.Contract {
	c := &oversight.Contract{
		ID: domain.NewContractID(), Number: number, Type: domain.ContractTypeExpense,
		CompanyID: s.company.ID, ValidFrom: domain.Date(2023, 1, 1), ValidUntil: until,
	}
	s.Require().NoError(s.st.Contracts.Create(s.ctx, c))
	return c
}

func (s *ReportSuite) addCommittee(c *oversight.Contract, kind domain.CommitteeKind, active bool) *oversight.Committee {
	k := &oversight.Committee{
		ID: domain.NewCommitteeID(), ContractID: c.ID,
		Kind: kind, Active: active,
	}
	s.Require().NoError(s.st.Committees.Create(s.ctx, k))
	return k
}

func (s *ReportSuite) addAgent(warName, registration string, courseDate *time.Time) *roster.Agent {
	a := &roster.Agent{
		ID: domain.NewAgentID(), FullName: warName + " Full", WarName: warName,
		RankID: s.rank.ID, Registration: registration, LastCourseDate: courseDate,
	}
	s.Require().NoError(s.st.Agents.Create(s.ctx, a))
	return a
}

func (s *ReportSuite) addMembership(k *oversight.Committee, a *roster.Agent, start time.Time, end *time.Time) *oversight.Membership {
	m := &oversight.Membership{
		ID: domain.NewMembershipID(), CommitteeID: k.ID, AgentID: a.ID,
		RoleID: s.role.ID, RankID: &s.rank.ID, StartDate: start, ScheduledEnd: end,
	}
	s.Require().NoError(s.st.Memberships.Create(s.ctx, m))
	return m
}

// TestExpirationMonitorTiers watches designations, not contract validity: a
// membership ending in five days must show up critical even though its
// contract runs for another month.
func (s *ReportSuite) TestExpirationMonitorTiers() {
	crit := s.addAgent("Barros", "100011", nil)
	warn := s.addAgent("Lima", "100012", nil)
	calm := s.addAgent("Nunes", "100013", nil)
	open := s.addAgent("Pires", "100014", nil)

	inFive := domain.AddDays(s.today, 5)
	inFifteen := domain.AddDays(s.today, 15)
	inSixty := domain.AddDays(s.today, 60)
	s.addMembership(s.committee, crit, domain.Date(2024, 1, 1), &inFive)
	s.addMembership(s.committee, warn, domain.Date(2024, 1, 1), &inFifteen)
	s.addMembership(s.committee, calm, domain.Date(2024, 1, 1), &inSixty)
	s.addMembership(s.committee, open, domain.Date(2024, 1, 1), nil)

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	// Open-ended designations carry no deadline.
	s.Equal(3, d.Expirations.Total)
	s.Equal(1, d.Expirations.Critical)
	s.Equal(1, d.Expirations.Warning)

	// Soonest first.
	s.Require().NotEmpty(d.Expirations.Soonest)
	s.Equal("Barros", d.Expirations.Soonest[0].AgentWarName)
	s.Equal(risk.DeadlineCritical, d.Expirations.Soonest[0].Tier)
	s.Equal(5, d.Expirations.Soonest[0].DaysRemaining)
	s.Equal(inFive, d.Expirations.Soonest[0].ScheduledEnd)
	s.Equal("CT-2024/001", d.Expirations.Soonest[0].ContractNumber)
	s.Equal("Vendor Ltd", d.Expirations.Soonest[0].CompanyName)
}

// TestTenureRadarChainsRenewals mirrors the audit-roster scenario: a
// designation renewed the day after its scheduled end reports tenure from
// the original start, 213 days as of 2024-08-01.
func (s *ReportSuite) TestTenureRadarChainsRenewals() {
	a := s.addAgent("Ferreira", "100001", nil)

	firstEnd := domain.Date(2024, 6, 30)
	s.addMembership(s.committee, a, domain.Date(2024, 1, 1), &firstEnd)
	s.addMembership(s.committee, a, domain.Date(2024, 7, 1), nil)

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(d.TenureRadar, 1)
	entry := d.TenureRadar[0]
	s.Equal("Ferreira", entry.AgentWarName)
	s.Equal(domain.Date(2024, 1, 1), entry.Origin)
	s.Equal(213, entry.TotalDays)
	s.Equal("0y 7m (213 days)", entry.Formatted)
	s.Equal(risk.TenureLow, entry.Tier)
}

func (s *ReportSuite) TestQualificationPanelBoundaries() {
	exactly365 := domain.AddDays(s.today, -365)
	day364 := domain.AddDays(s.today, -364)

	current := s.addAgent("Andrade", "200001", &day364)
	expired := s.addAgent("Costa", "200002", &exactly365)
	noCourse := s.addAgent("Moreira", "200003", nil)

	for _, a := range []*roster.Agent{current, expired, noCourse} {
		s.addMembership(s.committee, a, domain.Date(2024, 1, 1), nil)
	}

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(1, d.Qualification.Current)
	s.Equal(1, d.Qualification.Expired)
	s.Equal(1, d.Qualification.NoCourse)
	s.Require().Len(d.Qualification.Irregular, 2)

	names := []string{d.Qualification.Irregular[0].WarName, d.Qualification.Irregular[1].WarName}
	s.Contains(names, "Costa")
	s.Contains(names, "Moreira")
}

// TestOverloadedAgents expects every serving agent on the panel, the
// busiest first; a single active designation is enough to appear.
func (s *ReportSuite) TestOverloadedAgents() {
	busy := s.addAgent("Rocha", "300001", nil)
	calm := s.addAgent("Silva", "300002", nil)
	s.addAgent("Vago", "300003", nil)

	other := s.addContract("CT-2024/002", domain.AddDays(s.today, 90))
	otherCommittee := s.addCommittee(other, domain.CommitteeKindInspection, true)

	s.addMembership(s.committee, busy, domain.Date(2024, 1, 1), nil)
	s.addMembership(otherCommittee, busy, domain.Date(2024, 2, 1), nil)
	s.addMembership(s.committee, calm, domain.Date(2024, 1, 1), nil)

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(d.OverloadedAgents, 2)
	s.Equal("Rocha", d.OverloadedAgents[0].WarName)
	s.Equal(2, d.OverloadedAgents[0].ActiveCount)
	s.Equal("Silva", d.OverloadedAgents[1].WarName)
	s.Equal(1, d.OverloadedAgents[1].ActiveCount)
}

func (s *ReportSuite) TestUncoveredContractReasons() {
	s.addContract("CT-BARE", domain.AddDays(s.today, 60))

	inactiveOnly := s.addContract("CT-INACTIVE", domain.AddDays(s.today, 60))
	s.addCommittee(inactiveOnly, domain.CommitteeKindInspection, false)

	emptyActive := s.addContract("CT-EMPTY", domain.AddDays(s.today, 60))
	s.addCommittee(emptyActive, domain.CommitteeKindInspection, true)

	// A staffed receiving committee signs off deliveries; it does not make
	// the contract watched.
	receivingOnly := s.addContract("CT-RECV", domain.AddDays(s.today, 60))
	recvCommittee := s.addCommittee(receivingOnly, domain.CommitteeKindReceiving, true)
	receiver := s.addAgent("Teles", "400002", nil)
	s.addMembership(recvCommittee, receiver, domain.Date(2024, 1, 1), nil)

	// The base contract is covered.
	a := s.addAgent("Andrade", "400001", nil)
	s.addMembership(s.committee, a, domain.Date(2024, 1, 1), nil)

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	reasons := make(map[string]string, len(d.UncoveredContracts))
	for _, u := range d.UncoveredContracts {
		reasons[u.Number] = u.Reason
	}
	s.Len(reasons, 4)
	s.Equal("no inspection committee", reasons["CT-BARE"])
	s.Equal("no active inspection committee", reasons["CT-INACTIVE"])
	s.Equal("active inspection committee has no serving members", reasons["CT-EMPTY"])
	s.Equal("no inspection committee", reasons["CT-RECV"])
	s.NotContains(reasons, "CT-2024/001")
}

// TestAuditDetailsScope keeps history out of the audit sheet: memberships
// on lapsed contracts or deactivated committees are excluded even while the
// membership itself still counts as active.
func (s *ReportSuite) TestAuditDetailsScope() {
	inScope := s.addAgent("Andrade", "800001", nil)
	s.addMembership(s.committee, inScope, domain.Date(2024, 1, 1), nil)

	lapsed := s.addContract("CT-LAPSED", domain.AddDays(s.today, -1))
	lapsedCommittee := s.addCommittee(lapsed, domain.CommitteeKindInspection, true)
	onLapsed := s.addAgent("Costa", "800002", nil)
	s.addMembership(lapsedCommittee, onLapsed, domain.Date(2024, 1, 1), nil)

	dormant := s.addCommittee(s.contract, domain.CommitteeKindReceiving, false)
	onDormant := s.addAgent("Moreira", "800003", nil)
	s.addMembership(dormant, onDormant, domain.Date(2024, 1, 1), nil)

	details, err := s.svc.AuditDetails(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(details, 1)
	s.Equal("Andrade", details[0].AgentWarName)
	s.Equal("CT-2024/001", details[0].ContractNumber)
}

func (s *ReportSuite) TestTotals() {
	a := s.addAgent("Andrade", "500001", nil)
	b := s.addAgent("Costa", "500002", nil)
	s.addMembership(s.committee, a, domain.Date(2024, 1, 1), nil)
	s.addMembership(s.committee, b, domain.Date(2024, 1, 1), nil)

	expired := domain.Date(2024, 1, 31)
	s.addContract("CT-OLD", expired)

	d, err := s.svc.Dashboard(s.ctx)
	s.Require().NoError(err)

	s.Equal(2, d.Totals.Contracts)
	s.Equal(1, d.Totals.UnexpiredContracts)
	s.Equal(2, d.Totals.ActiveMemberships)
	s.Equal(2, d.Totals.ServingAgents)
	s.Equal(s.today, d.GeneratedFor)
}

func (s *ReportSuite) TestDashboardCaching() {
	cache := newMapCache()
	svc := New(s.st, WithCache(cache))

	a := s.addAgent("Andrade", "600001", nil)
	s.addMembership(s.committee, a, domain.Date(2024, 1, 1), nil)

	first, err := svc.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, cache.sets)

	// New data is invisible until the snapshot expires or the date moves.
	b := s.addAgent("Costa", "600002", nil)
	s.addMembership(s.committee, b, domain.Date(2024, 1, 1), nil)

	second, err := svc.Dashboard(s.ctx)
	s.Require().NoError(err)
	s.Equal(first.Totals.ActiveMemberships, second.Totals.ActiveMemberships)
	s.Equal(1, cache.sets)

	// A different reference date misses the cache and recomputes.
	nextDay := requestcontext.WithTime(context.Background(), domain.AddDays(s.today, 1))
	third, err := svc.Dashboard(nextDay)
	s.Require().NoError(err)
	s.Equal(2, third.Totals.ActiveMemberships)
	s.Equal(2, cache.sets)
}

func (s *ReportSuite) TestPeriodReport() {
	a := s.addAgent("Andrade", "700001", nil)

	endedBefore := domain.Date(2024, 2, 29)
	inWindow := s.addMembership(s.committee, a, domain.Date(2024, 3, 1), nil)
	s.addMembership(s.committee, a, domain.Date(2024, 1, 1), &endedBefore)

	report, err := s.svc.Period(s.ctx, domain.Date(2024, 3, 15), domain.Date(2024, 5, 15))
	s.Require().NoError(err)

	s.Require().Len(report.Entries, 1)
	s.Equal(inWindow.ID, report.Entries[0].MembershipID)
	s.True(report.Entries[0].ActiveAtEnd)
	s.Equal(1, report.DistinctAgents)
}

func (s *ReportSuite) TestPeriodRejectsInvertedWindow() {
	_, err := s.svc.Period(s.ctx, domain.Date(2024, 5, 1), domain.Date(2024, 4, 1))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
