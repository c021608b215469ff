package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	oversight "fiscaldesk/internal/oversight/models"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/pkg/domain"
	"fiscaldesk/pkg/platform/sentinel"
)

// memoryState is the shared backing for all in-memory stores. One mutex
// guards everything; referential-protection checks need cross-aggregate
// visibility anyway.
type memoryState struct {
	mu          sync.RWMutex
	ranks       map[domain.RankID]*roster.Rank
	agents      map[domain.AgentID]*roster.Agent
	companies   map[domain.CompanyID]*roster.Company
	roles       map[domain.RoleID]*roster.Role
	contracts   map[domain.ContractID]*oversight.Contract
	committees  map[domain.CommitteeID]*oversight.Committee
	memberships map[domain.MembershipID]*oversight.Membership
}

func newMemoryState() *memoryState {
	return &memoryState{
		ranks:       make(map[domain.RankID]*roster.Rank),
		agents:      make(map[domain.AgentID]*roster.Agent),
		companies:   make(map[domain.CompanyID]*roster.Company),
		roles:       make(map[domain.RoleID]*roster.Role),
		contracts:   make(map[domain.ContractID]*oversight.Contract),
		committees:  make(map[domain.CommitteeID]*oversight.Committee),
		memberships: make(map[domain.MembershipID]*oversight.Membership),
	}
}

// ----------------------------------------------------------------------------
// Ranks
// ----------------------------------------------------------------------------

// RankMemory implements RankStore over shared in-memory state.
type RankMemory struct{ st *memoryState }

func (s *RankMemory) Create(_ context.Context, r *roster.Rank) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.ranks {
		if strings.EqualFold(existing.Abbreviation, r.Abbreviation) {
			return fmt.Errorf("rank abbreviation %q: %w", r.Abbreviation, sentinel.ErrConflict)
		}
	}
	cp := *r
	s.st.ranks[r.ID] = &cp
	return nil
}

func (s *RankMemory) Update(_ context.Context, r *roster.Rank) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.ranks[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for rid, existing := range s.st.ranks {
		if rid != r.ID && strings.EqualFold(existing.Abbreviation, r.Abbreviation) {
			return fmt.Errorf("rank abbreviation %q: %w", r.Abbreviation, sentinel.ErrConflict)
		}
	}
	cp := *r
	s.st.ranks[r.ID] = &cp
	return nil
}

func (s *RankMemory) FindByID(_ context.Context, id domain.RankID) (*roster.Rank, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	r, ok := s.st.ranks[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *RankMemory) List(_ context.Context) ([]*roster.Rank, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*roster.Rank, 0, len(s.st.ranks))
	for _, r := range s.st.ranks {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SeniorityOrder != out[j].SeniorityOrder {
			return out[i].SeniorityOrder < out[j].SeniorityOrder
		}
		return out[i].Abbreviation < out[j].Abbreviation
	})
	return out, nil
}

func (s *RankMemory) Delete(_ context.Context, id domain.RankID) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.ranks[id]; !ok {
		return sentinel.ErrNotFound
	}
	holders := 0
	for _, a := range s.st.agents {
		if a.RankID == id {
			holders++
		}
	}
	if holders > 0 {
		return fmt.Errorf("%d agent(s) hold this rank: %w", holders, sentinel.ErrReferenced)
	}
	snapshots := 0
	for _, m := range s.st.memberships {
		if m.RankID != nil && *m.RankID == id {
			snapshots++
		}
	}
	if snapshots > 0 {
		return fmt.Errorf("%d membership snapshot(s) reference this rank: %w", snapshots, sentinel.ErrReferenced)
	}
	delete(s.st.ranks, id)
	return nil
}

// ----------------------------------------------------------------------------
// Agents
// ----------------------------------------------------------------------------

// AgentMemory implements AgentStore over shared in-memory state.
type AgentMemory struct{ st *memoryState }

func (s *AgentMemory) Create(_ context.Context, a *roster.Agent) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.agents {
		if existing.Registration == a.Registration {
			return fmt.Errorf("agent registration %q: %w", a.Registration, sentinel.ErrConflict)
		}
	}
	cp := *a
	s.st.agents[a.ID] = &cp
	return nil
}

func (s *AgentMemory) Update(_ context.Context, a *roster.Agent) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.agents[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for aid, existing := range s.st.agents {
		if aid != a.ID && existing.Registration == a.Registration {
			return fmt.Errorf("agent registration %q: %w", a.Registration, sentinel.ErrConflict)
		}
	}
	cp := *a
	s.st.agents[a.ID] = &cp
	return nil
}

func (s *AgentMemory) FindByID(_ context.Context, id domain.AgentID) (*roster.Agent, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	a, ok := s.st.agents[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *AgentMemory) List(_ context.Context) ([]*roster.Agent, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*roster.Agent, 0, len(s.st.agents))
	for _, a := range s.st.agents {
		cp := *a
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].WarName < out[j].WarName })
	return out, nil
}

func (s *AgentMemory) Delete(_ context.Context, id domain.AgentID) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.agents[id]; !ok {
		return sentinel.ErrNotFound
	}
	refs := 0
	for _, m := range s.st.memberships {
		if m.AgentID == id {
			refs++
		}
	}
	if refs > 0 {
		return fmt.Errorf("%d membership(s) reference this agent: %w", refs, sentinel.ErrReferenced)
	}
	delete(s.st.agents, id)
	return nil
}

// ----------------------------------------------------------------------------
// Companies
// ----------------------------------------------------------------------------

// CompanyMemory implements CompanyStore over shared in-memory state.
type CompanyMemory struct{ st *memoryState }

func (s *CompanyMemory) Create(_ context.Context, c *roster.Company) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.companies {
		if existing.TaxID == c.TaxID {
			return fmt.Errorf("company tax ID %q: %w", c.TaxID, sentinel.ErrConflict)
		}
	}
	cp := *c
	s.st.companies[c.ID] = &cp
	return nil
}

func (s *CompanyMemory) Update(_ context.Context, c *roster.Company) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.companies[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for cid, existing := range s.st.companies {
		if cid != c.ID && existing.TaxID == c.TaxID {
			return fmt.Errorf("company tax ID %q: %w", c.TaxID, sentinel.ErrConflict)
		}
	}
	cp := *c
	s.st.companies[c.ID] = &cp
	return nil
}

func (s *CompanyMemory) FindByID(_ context.Context, id domain.CompanyID) (*roster.Company, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	c, ok := s.st.companies[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *CompanyMemory) List(_ context.Context) ([]*roster.Company, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*roster.Company, 0, len(s.st.companies))
	for _, c := range s.st.companies {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LegalName < out[j].LegalName })
	return out, nil
}

func (s *CompanyMemory) Delete(_ context.Context, id domain.CompanyID) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.companies[id]; !ok {
		return sentinel.ErrNotFound
	}
	refs := 0
	for _, c := range s.st.contracts {
		if c.CompanyID == id {
			refs++
		}
	}
	if refs > 0 {
		return fmt.Errorf("%d contract(s) reference this company: %w", refs, sentinel.ErrReferenced)
	}
	delete(s.st.companies, id)
	return nil
}

// ----------------------------------------------------------------------------
// Roles
// ----------------------------------------------------------------------------

// RoleMemory implements RoleStore over shared in-memory state.
type RoleMemory struct{ st *memoryState }

func (s *RoleMemory) Create(_ context.Context, r *roster.Role) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.roles {
		if strings.EqualFold(existing.Title, r.Title) {
			return fmt.Errorf("role title %q: %w", r.Title, sentinel.ErrConflict)
		}
	}
	cp := *r
	s.st.roles[r.ID] = &cp
	return nil
}

func (s *RoleMemory) Update(_ context.Context, r *roster.Role) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.roles[r.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for rid, existing := range s.st.roles {
		if rid != r.ID && strings.EqualFold(existing.Title, r.Title) {
			return fmt.Errorf("role title %q: %w", r.Title, sentinel.ErrConflict)
		}
	}
	cp := *r
	s.st.roles[r.ID] = &cp
	return nil
}

func (s *RoleMemory) FindByID(_ context.Context, id domain.RoleID) (*roster.Role, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	r, ok := s.st.roles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *RoleMemory) List(_ context.Context) ([]*roster.Role, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*roster.Role, 0, len(s.st.roles))
	for _, r := range s.st.roles {
		cp := *r
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HierarchyOrder != out[j].HierarchyOrder {
			return out[i].HierarchyOrder < out[j].HierarchyOrder
		}
		return out[i].Title < out[j].Title
	})
	return out, nil
}

func (s *RoleMemory) Delete(_ context.Context, id domain.RoleID) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.roles[id]; !ok {
		return sentinel.ErrNotFound
	}
	refs := 0
	for _, m := range s.st.memberships {
		if m.RoleID == id {
			refs++
		}
	}
	if refs > 0 {
		return fmt.Errorf("%d membership(s) reference this role: %w", refs, sentinel.ErrReferenced)
	}
	delete(s.st.roles, id)
	return nil
}

// ----------------------------------------------------------------------------
// Contracts
// ----------------------------------------------------------------------------

// ContractMemory implements ContractStore over shared in-memory state.
type ContractMemory struct{ st *memoryState }

func (s *ContractMemory) Create(_ context.Context, c *oversight.Contract) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	for _, existing := range s.st.contracts {
		if existing.Number == c.Number {
			return fmt.Errorf("contract number %q: %w", c.Number, sentinel.ErrConflict)
		}
	}
	cp := *c
	s.st.contracts[c.ID] = &cp
	return nil
}

func (s *ContractMemory) Update(_ context.Context, c *oversight.Contract) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.contracts[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	for cid, existing := range s.st.contracts {
		if cid != c.ID && existing.Number == c.Number {
			return fmt.Errorf("contract number %q: %w", c.Number, sentinel.ErrConflict)
		}
	}
	cp := *c
	s.st.contracts[c.ID] = &cp
	return nil
}

func (s *ContractMemory) FindByID(_ context.Context, id domain.ContractID) (*oversight.Contract, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	c, ok := s.st.contracts[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *ContractMemory) List(_ context.Context) ([]*oversight.Contract, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*oversight.Contract, 0, len(s.st.contracts))
	for _, c := range s.st.contracts {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	return out, nil
}

func (s *ContractMemory) ListUnexpired(_ context.Context, today time.Time) ([]*oversight.Contract, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	d := domain.Truncate(today)
	out := make([]*oversight.Contract, 0)
	for _, c := range s.st.contracts {
		if !c.ValidUntil.Before(d) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ValidUntil.Before(out[j].ValidUntil) })
	return out, nil
}

// ----------------------------------------------------------------------------
// Committees
// ----------------------------------------------------------------------------

// CommitteeMemory implements CommitteeStore over shared in-memory state.
type CommitteeMemory struct{ st *memoryState }

func (s *CommitteeMemory) Create(_ context.Context, c *oversight.Committee) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cp := *c
	s.st.committees[c.ID] = &cp
	return nil
}

func (s *CommitteeMemory) Update(_ context.Context, c *oversight.Committee) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.committees[c.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *c
	s.st.committees[c.ID] = &cp
	return nil
}

func (s *CommitteeMemory) FindByID(_ context.Context, id domain.CommitteeID) (*oversight.Committee, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	c, ok := s.st.committees[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *CommitteeMemory) ListByContract(_ context.Context, contractID domain.ContractID) ([]*oversight.Committee, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*oversight.Committee, 0)
	for _, c := range s.st.committees {
		if c.ContractID == contractID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

func (s *CommitteeMemory) FindByContractAndKind(_ context.Context, contractID domain.ContractID, kind domain.CommitteeKind) (*oversight.Committee, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	for _, c := range s.st.committees {
		if c.ContractID == contractID && c.Kind == kind {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *CommitteeMemory) ListExpiredActive(_ context.Context, today time.Time) ([]*oversight.Committee, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	d := domain.Truncate(today)
	out := make([]*oversight.Committee, 0)
	for _, c := range s.st.committees {
		if c.Active && c.EndDate != nil && c.EndDate.Before(d) {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EndDate.Before(*out[j].EndDate) })
	return out, nil
}

// ----------------------------------------------------------------------------
// Memberships
// ----------------------------------------------------------------------------

// MembershipMemory implements MembershipStore over shared in-memory state.
type MembershipMemory struct{ st *memoryState }

func (s *MembershipMemory) Create(_ context.Context, m *oversight.Membership) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	cp := *m
	s.st.memberships[m.ID] = &cp
	return nil
}

func (s *MembershipMemory) Update(_ context.Context, m *oversight.Membership) error {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	if _, ok := s.st.memberships[m.ID]; !ok {
		return sentinel.ErrNotFound
	}
	cp := *m
	s.st.memberships[m.ID] = &cp
	return nil
}

func (s *MembershipMemory) FindByID(_ context.Context, id domain.MembershipID) (*oversight.Membership, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	m, ok := s.st.memberships[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *MembershipMemory) ListByCommittee(_ context.Context, committeeID domain.CommitteeID) ([]*oversight.Membership, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*oversight.Membership, 0)
	for _, m := range s.st.memberships {
		if m.CommitteeID == committeeID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := s.displayOrder(out[i]), s.displayOrder(out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out, nil
}

// displayOrder resolves the listing position: an explicit DisplayOrder
// override wins, otherwise the role's hierarchy order applies.
// Caller must hold the state lock.
func (s *MembershipMemory) displayOrder(m *oversight.Membership) int {
	if m.DisplayOrder != nil {
		return *m.DisplayOrder
	}
	if r, ok := s.st.roles[m.RoleID]; ok {
		return r.HierarchyOrder
	}
	return 0
}

func (s *MembershipMemory) CountByCommittee(_ context.Context, committeeID domain.CommitteeID) (int, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	n := 0
	for _, m := range s.st.memberships {
		if m.CommitteeID == committeeID {
			n++
		}
	}
	return n, nil
}

func (s *MembershipMemory) ListActiveDetails(_ context.Context, today time.Time) ([]*MembershipDetail, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	out := make([]*MembershipDetail, 0)
	for _, m := range s.st.memberships {
		if !m.IsActive(today) {
			continue
		}
		out = append(out, s.detail(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContractNumber != out[j].ContractNumber {
			return out[i].ContractNumber < out[j].ContractNumber
		}
		return out[i].Membership.StartDate.Before(out[j].Membership.StartDate)
	})
	return out, nil
}

func (s *MembershipMemory) ListOverlapping(_ context.Context, from, to time.Time) ([]*MembershipDetail, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	fromD, toD := domain.Truncate(from), domain.Truncate(to)
	out := make([]*MembershipDetail, 0)
	for _, m := range s.st.memberships {
		if m.StartDate.After(toD) {
			continue
		}
		if m.ScheduledEnd != nil && m.ScheduledEnd.Before(fromD) {
			continue
		}
		if m.TerminatedOn != nil && m.TerminatedOn.Before(fromD) {
			continue
		}
		out = append(out, s.detail(m))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ContractNumber != out[j].ContractNumber {
			return out[i].ContractNumber < out[j].ContractNumber
		}
		return out[i].Membership.StartDate.Before(out[j].Membership.StartDate)
	})
	return out, nil
}

func (s *MembershipMemory) FindPredecessor(_ context.Context, committeeID domain.CommitteeID, agentID domain.AgentID, roleID domain.RoleID, endingOn time.Time) (*oversight.Membership, error) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	d := domain.Truncate(endingOn)
	for _, m := range s.st.memberships {
		if m.CommitteeID != committeeID || m.AgentID != agentID || m.RoleID != roleID {
			continue
		}
		if (m.ScheduledEnd != nil && domain.SameDate(*m.ScheduledEnd, d)) ||
			(m.TerminatedOn != nil && domain.SameDate(*m.TerminatedOn, d)) {
			cp := *m
			return &cp, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// detail joins one membership with its reference records. Missing
// references render as empty strings rather than failing the report.
// Caller must hold the state lock.
func (s *MembershipMemory) detail(m *oversight.Membership) *MembershipDetail {
	d := &MembershipDetail{Membership: *m}

	if a, ok := s.st.agents[m.AgentID]; ok {
		d.AgentFullName = a.FullName
		d.AgentWarName = a.WarName
		d.AgentRegistration = a.Registration
		if a.LastCourseDate != nil {
			cd := *a.LastCourseDate
			d.AgentCourseDate = &cd
		}
	}
	if m.RankID != nil {
		if r, ok := s.st.ranks[*m.RankID]; ok {
			d.RankAbbreviation = r.Abbreviation
		}
	}
	if r, ok := s.st.roles[m.RoleID]; ok {
		d.RoleTitle = r.Title
		d.RoleHierarchyOrder = r.HierarchyOrder
	}
	if c, ok := s.st.committees[m.CommitteeID]; ok {
		d.CommitteeKind = c.Kind
		d.CommitteeActive = c.Active
		if ct, ok := s.st.contracts[c.ContractID]; ok {
			d.ContractID = ct.ID
			d.ContractNumber = ct.Number
			d.ContractValidUntil = ct.ValidUntil
			if co, ok := s.st.companies[ct.CompanyID]; ok {
				d.CompanyName = co.LegalName
			}
		}
	}
	return d
}
