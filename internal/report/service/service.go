// Package service computes the oversight reports: the management dashboard
// (expiration monitor, tenure radar, qualification standing, overloaded
// agents, uncovered contracts), the period roster, and the rows the CSV
// exports render. Every figure is derived for the request-scoped reference
// date; nothing here reads the wall clock.
package service

import (
	"context"
	"sort"
	"time"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/internal/oversight/risk"
	"fiscaldesk/internal/oversight/tenure"
	"fiscaldesk/internal/platform/metrics"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/requestcontext"
)

const (
	expirationMonitorSize = 5
	tenureRadarSize       = 10
	overloadedAgentsSize  = 10
	// overloadThreshold is the active-membership count from which an agent
	// shows up on the overload panel. Every serving agent qualifies; the
	// ranking puts the busiest first.
	overloadThreshold = 1
)

// Service computes reports over the storage facade.
type Service struct {
	contracts   store.ContractStore
	committees  store.CommitteeStore
	memberships store.MembershipStore
	cache       Cache
	metrics     *metrics.Metrics
}

type Option func(s *Service)

// WithCache enables dashboard snapshot caching.
func WithCache(c Cache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a report Service.
func New(st *store.Storage, opts ...Option) *Service {
	s := &Service{
		contracts:   st.Contracts,
		committees:  st.Committees,
		memberships: st.Memberships,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ExpirationEntry is one active designation approaching its scheduled end.
type ExpirationEntry struct {
	MembershipID     domain.MembershipID `json:"membership_id"`
	AgentWarName     string              `json:"agent_war_name"`
	RankAbbreviation string              `json:"rank_abbreviation"`
	RoleTitle        string              `json:"role_title"`
	ContractNumber   string              `json:"contract_number"`
	CompanyName      string              `json:"company_name"`
	ScheduledEnd     time.Time           `json:"scheduled_end"`
	DaysRemaining    int                 `json:"days_remaining"`
	Tier             risk.DeadlineTier   `json:"tier"`
}

// ExpirationMonitor summarizes the designations about to lapse.
type ExpirationMonitor struct {
	Total    int               `json:"total"`
	Critical int               `json:"critical"`
	Warning  int               `json:"warning"`
	Soonest  []ExpirationEntry `json:"soonest"`
}

// TenureEntry is one active membership on the rotation-risk radar, with its
// tenure resolved through chained renewals.
type TenureEntry struct {
	MembershipID     domain.MembershipID `json:"membership_id"`
	AgentWarName     string              `json:"agent_war_name"`
	RankAbbreviation string              `json:"rank_abbreviation"`
	RoleTitle        string              `json:"role_title"`
	ContractNumber   string              `json:"contract_number"`
	Origin           time.Time           `json:"origin"`
	TotalDays        int                 `json:"total_days"`
	Formatted        string              `json:"formatted"`
	Tier             risk.TenureTier     `json:"tier"`
}

// QualificationEntry is one actively serving agent and their training
// standing.
type QualificationEntry struct {
	AgentID      domain.AgentID             `json:"agent_id"`
	WarName      string                     `json:"war_name"`
	Registration string                     `json:"registration"`
	Status       roster.QualificationStatus `json:"status"`
	CourseDate   *time.Time                 `json:"course_date,omitempty"`
	ExpiresOn    *time.Time                 `json:"expires_on,omitempty"`
}

// QualificationPanel aggregates training standing over the agents serving
// actively today.
type QualificationPanel struct {
	Current   int                  `json:"current"`
	Expired   int                  `json:"expired"`
	NoCourse  int                  `json:"no_course"`
	Irregular []QualificationEntry `json:"irregular"`
}

// OverloadedAgent is one agent holding several active designations at once.
type OverloadedAgent struct {
	AgentID     domain.AgentID `json:"agent_id"`
	WarName     string         `json:"war_name"`
	ActiveCount int            `json:"active_count"`
}

// UncoveredContract is an unexpired contract with no working oversight.
type UncoveredContract struct {
	ContractID domain.ContractID `json:"contract_id"`
	Number     string            `json:"number"`
	ValidUntil time.Time         `json:"valid_until"`
	Reason     string            `json:"reason"`
}

// Totals are the dashboard headline counters.
type Totals struct {
	Contracts          int `json:"contracts"`
	UnexpiredContracts int `json:"unexpired_contracts"`
	ActiveMemberships  int `json:"active_memberships"`
	ServingAgents      int `json:"serving_agents"`
}

// Dashboard is the full management snapshot for one reference date.
type Dashboard struct {
	GeneratedFor       time.Time           `json:"generated_for"`
	Expirations        ExpirationMonitor   `json:"expirations"`
	TenureRadar        []TenureEntry       `json:"tenure_radar"`
	Qualification      QualificationPanel  `json:"qualification"`
	OverloadedAgents   []OverloadedAgent   `json:"overloaded_agents"`
	UncoveredContracts []UncoveredContract `json:"uncovered_contracts"`
	Totals             Totals              `json:"totals"`
}

// Dashboard assembles the snapshot for the context's reference date, served
// from cache when a snapshot for that date is present.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	today := requestcontext.Today(ctx)

	if cached, ok := s.cacheGet(ctx, today); ok {
		if s.metrics != nil {
			s.metrics.DashboardCacheHits.Inc()
		}
		return cached, nil
	}
	if s.metrics != nil {
		s.metrics.DashboardCacheMisses.Inc()
	}

	d, err := s.computeDashboard(ctx, today)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, today, d)
	return d, nil
}

func (s *Service) computeDashboard(ctx context.Context, today time.Time) (*Dashboard, error) {
	allContracts, err := s.contracts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	unexpired, err := s.contracts.ListUnexpired(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list unexpired contracts")
	}
	details, err := s.memberships.ListActiveDetails(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active memberships")
	}

	monitor := expirationMonitor(details, today)

	radar, err := s.tenureRadar(ctx, details, today)
	if err != nil {
		return nil, err
	}

	qualification := qualificationPanel(details, today)
	overloaded := overloadedAgents(details)

	uncovered, err := s.uncoveredContracts(ctx, unexpired, details)
	if err != nil {
		return nil, err
	}

	servingAgents := make(map[domain.AgentID]bool)
	for _, d := range details {
		servingAgents[d.Membership.AgentID] = true
	}

	return &Dashboard{
		GeneratedFor:       today,
		Expirations:        monitor,
		TenureRadar:        radar,
		Qualification:      qualification,
		OverloadedAgents:   overloaded,
		UncoveredContracts: uncovered,
		Totals: Totals{
			Contracts:          len(allContracts),
			UnexpiredContracts: len(unexpired),
			ActiveMemberships:  len(details),
			ServingAgents:      len(servingAgents),
		},
	}, nil
}

// ExpirationEntries classifies every active designation with a scheduled
// end by how soon it lapses, soonest first. Open-ended designations are not
// deadlines and stay off the list. The dashboard shows the head of this
// list; the CSV export takes it whole.
func (s *Service) ExpirationEntries(ctx context.Context) ([]ExpirationEntry, error) {
	today := requestcontext.Today(ctx)
	details, err := s.memberships.ListActiveDetails(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active memberships")
	}
	return expirationEntries(details, today), nil
}

func expirationEntries(details []*store.MembershipDetail, today time.Time) []ExpirationEntry {
	entries := make([]ExpirationEntry, 0, len(details))
	for _, d := range details {
		if d.Membership.ScheduledEnd == nil {
			continue
		}
		days := domain.DaysBetween(today, *d.Membership.ScheduledEnd)
		entries = append(entries, ExpirationEntry{
			MembershipID:     d.Membership.ID,
			AgentWarName:     d.AgentWarName,
			RankAbbreviation: d.RankAbbreviation,
			RoleTitle:        d.RoleTitle,
			ContractNumber:   d.ContractNumber,
			CompanyName:      d.CompanyName,
			ScheduledEnd:     *d.Membership.ScheduledEnd,
			DaysRemaining:    days,
			Tier:             risk.ClassifyDeadline(days),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DaysRemaining != entries[j].DaysRemaining {
			return entries[i].DaysRemaining < entries[j].DaysRemaining
		}
		return entries[i].AgentWarName < entries[j].AgentWarName
	})
	return entries
}

func expirationMonitor(details []*store.MembershipDetail, today time.Time) ExpirationMonitor {
	entries := expirationEntries(details, today)

	m := ExpirationMonitor{Total: len(entries)}
	for _, e := range entries {
		switch e.Tier {
		case risk.DeadlineCritical:
			m.Critical++
		case risk.DeadlineWarning:
			m.Warning++
		}
	}
	if len(entries) > expirationMonitorSize {
		entries = entries[:expirationMonitorSize]
	}
	m.Soonest = entries
	return m
}

func (s *Service) tenureRadar(ctx context.Context, details []*store.MembershipDetail, today time.Time) ([]TenureEntry, error) {
	entries := make([]TenureEntry, 0, len(details))
	for _, d := range details {
		res, err := tenure.Resolve(ctx, s.memberships, &d.Membership, today)
		if err != nil {
			return nil, err
		}
		entries = append(entries, TenureEntry{
			MembershipID:     d.Membership.ID,
			AgentWarName:     d.AgentWarName,
			RankAbbreviation: d.RankAbbreviation,
			RoleTitle:        d.RoleTitle,
			ContractNumber:   d.ContractNumber,
			Origin:           res.Origin,
			TotalDays:        res.TotalDays,
			Formatted:        res.Formatted(),
			Tier:             risk.ClassifyTenure(res.TotalDays),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalDays != entries[j].TotalDays {
			return entries[i].TotalDays > entries[j].TotalDays
		}
		return entries[i].AgentWarName < entries[j].AgentWarName
	})
	if len(entries) > tenureRadarSize {
		entries = entries[:tenureRadarSize]
	}
	return entries, nil
}

// QualificationEntries classifies every agent serving actively today.
func (s *Service) QualificationEntries(ctx context.Context) ([]QualificationEntry, error) {
	today := requestcontext.Today(ctx)
	details, err := s.memberships.ListActiveDetails(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active memberships")
	}
	return qualificationEntries(details, today), nil
}

func qualificationEntries(details []*store.MembershipDetail, today time.Time) []QualificationEntry {
	seen := make(map[domain.AgentID]bool)
	entries := make([]QualificationEntry, 0)
	for _, d := range details {
		agentID := d.Membership.AgentID
		if seen[agentID] {
			continue
		}
		seen[agentID] = true

		a := roster.Agent{LastCourseDate: d.AgentCourseDate}
		entries = append(entries, QualificationEntry{
			AgentID:      agentID,
			WarName:      d.AgentWarName,
			Registration: d.AgentRegistration,
			Status:       a.Qualification(today),
			CourseDate:   d.AgentCourseDate,
			ExpiresOn:    a.QualificationExpiresOn(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].WarName < entries[j].WarName })
	return entries
}

func qualificationPanel(details []*store.MembershipDetail, today time.Time) QualificationPanel {
	p := QualificationPanel{Irregular: []QualificationEntry{}}
	for _, e := range qualificationEntries(details, today) {
		switch e.Status {
		case roster.QualificationCurrent:
			p.Current++
		case roster.QualificationExpired:
			p.Expired++
		case roster.QualificationNoCourse:
			p.NoCourse++
		}
		if e.Status.Irregular() {
			p.Irregular = append(p.Irregular, e)
		}
	}
	return p
}

func overloadedAgents(details []*store.MembershipDetail) []OverloadedAgent {
	counts := make(map[domain.AgentID]*OverloadedAgent)
	for _, d := range details {
		agentID := d.Membership.AgentID
		if a, ok := counts[agentID]; ok {
			a.ActiveCount++
			continue
		}
		counts[agentID] = &OverloadedAgent{AgentID: agentID, WarName: d.AgentWarName, ActiveCount: 1}
	}

	out := make([]OverloadedAgent, 0)
	for _, a := range counts {
		if a.ActiveCount >= overloadThreshold {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ActiveCount != out[j].ActiveCount {
			return out[i].ActiveCount > out[j].ActiveCount
		}
		return out[i].WarName < out[j].WarName
	})
	if len(out) > overloadedAgentsSize {
		out = out[:overloadedAgentsSize]
	}
	return out
}

// uncoveredContracts flags unexpired contracts without a serving member on
// an active inspection committee, with the most specific reason it can
// determine. A staffed receiving committee does not count: receiving signs
// off deliveries, it does not watch execution.
func (s *Service) uncoveredContracts(ctx context.Context, unexpired []*oversight.Contract, details []*store.MembershipDetail) ([]UncoveredContract, error) {
	covered := make(map[domain.ContractID]bool)
	for _, d := range details {
		if d.CommitteeActive && d.CommitteeKind == domain.CommitteeKindInspection {
			covered[d.ContractID] = true
		}
	}

	out := make([]UncoveredContract, 0)
	for _, c := range unexpired {
		if covered[c.ID] {
			continue
		}
		committees, err := s.committees.ListByContract(ctx, c.ID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contract committees")
		}
		reason := "no inspection committee"
		for _, k := range committees {
			if k.Kind != domain.CommitteeKindInspection {
				continue
			}
			reason = "no active inspection committee"
			if k.Active {
				reason = "active inspection committee has no serving members"
				break
			}
		}
		out = append(out, UncoveredContract{
			ContractID: c.ID,
			Number:     c.Number,
			ValidUntil: c.ValidUntil,
			Reason:     reason,
		})
	}
	return out, nil
}

// AuditDetails returns the rows the audit export walks: active memberships
// on active committees of contracts still in force today. Lapsed contracts
// and deactivated committees are history, not audit scope.
func (s *Service) AuditDetails(ctx context.Context) ([]*store.MembershipDetail, error) {
	today := requestcontext.Today(ctx)
	details, err := s.memberships.ListActiveDetails(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active memberships")
	}
	out := make([]*store.MembershipDetail, 0, len(details))
	for _, d := range details {
		if !d.CommitteeActive || d.ContractValidUntil.Before(today) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// Uncovered exposes the uncovered-contract rows for the audit export.
func (s *Service) Uncovered(ctx context.Context) ([]UncoveredContract, error) {
	today := requestcontext.Today(ctx)
	unexpired, err := s.contracts.ListUnexpired(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list unexpired contracts")
	}
	details, err := s.memberships.ListActiveDetails(ctx, today)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list active memberships")
	}
	return s.uncoveredContracts(ctx, unexpired, details)
}

// PeriodEntry is one membership whose designation span overlaps the
// requested window.
type PeriodEntry struct {
	MembershipID     domain.MembershipID `json:"membership_id"`
	ContractNumber   string              `json:"contract_number"`
	CompanyName      string              `json:"company_name"`
	AgentWarName     string              `json:"agent_war_name"`
	RankAbbreviation string              `json:"rank_abbreviation"`
	RoleTitle        string              `json:"role_title"`
	StartDate        time.Time           `json:"start_date"`
	ScheduledEnd     *time.Time          `json:"scheduled_end,omitempty"`
	TerminatedOn     *time.Time          `json:"terminated_on,omitempty"`
	ActiveAtEnd      bool                `json:"active_at_end"`
}

// PeriodReport lists every designation that overlapped [From, To].
type PeriodReport struct {
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	Entries        []PeriodEntry `json:"entries"`
	DistinctAgents int           `json:"distinct_agents"`
}

// Period reports all memberships overlapping the window. To must not
// precede From.
func (s *Service) Period(ctx context.Context, from, to time.Time) (*PeriodReport, error) {
	from = domain.Truncate(from)
	to = domain.Truncate(to)
	if to.Before(from) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "period end cannot precede its start")
	}

	details, err := s.memberships.ListOverlapping(ctx, from, to)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list period memberships")
	}

	agents := make(map[domain.AgentID]bool)
	entries := make([]PeriodEntry, 0, len(details))
	for _, d := range details {
		agents[d.Membership.AgentID] = true
		entries = append(entries, PeriodEntry{
			MembershipID:     d.Membership.ID,
			ContractNumber:   d.ContractNumber,
			CompanyName:      d.CompanyName,
			AgentWarName:     d.AgentWarName,
			RankAbbreviation: d.RankAbbreviation,
			RoleTitle:        d.RoleTitle,
			StartDate:        d.Membership.StartDate,
			ScheduledEnd:     d.Membership.ScheduledEnd,
			TerminatedOn:     d.Membership.TerminatedOn,
			ActiveAtEnd:      d.Membership.IsActive(to),
		})
	}
	return &PeriodReport{
		From:           from,
		To:             to,
		Entries:        entries,
		DistinctAgents: len(agents),
	}, nil
}
