// Package store provides persistence for the oversight domain: a Storage
// facade of per-aggregate interfaces with in-memory and PostgreSQL
// implementations. The in-memory form backs unit tests and local runs; both
// implementations satisfy the same contracts, including the composable
// active-membership filter and referential-protection on deletes.
//
// Stores return pkg/platform/sentinel errors for infrastructure facts
// (not found, conflict, referenced); services translate those into coded
// domain errors.
package store

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	oversight "fiscaldesk/internal/oversight/models"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/pkg/domain"
)

// RankStore persists organizational grades.
type RankStore interface {
	Create(ctx context.Context, r *roster.Rank) error
	Update(ctx context.Context, r *roster.Rank) error
	FindByID(ctx context.Context, id domain.RankID) (*roster.Rank, error)
	// List returns ranks ordered by seniority (senior first).
	List(ctx context.Context) ([]*roster.Rank, error)
	// Delete fails with sentinel.ErrReferenced while any agent holds the
	// rank or any membership snapshot references it.
	Delete(ctx context.Context, id domain.RankID) error
}

// AgentStore persists committee-eligible personnel.
type AgentStore interface {
	Create(ctx context.Context, a *roster.Agent) error
	Update(ctx context.Context, a *roster.Agent) error
	FindByID(ctx context.Context, id domain.AgentID) (*roster.Agent, error)
	// List returns agents ordered by war name.
	List(ctx context.Context) ([]*roster.Agent, error)
	// Delete fails with sentinel.ErrReferenced while any membership
	// references the agent.
	Delete(ctx context.Context, id domain.AgentID) error
}

// CompanyStore persists contracted vendors.
type CompanyStore interface {
	Create(ctx context.Context, c *roster.Company) error
	Update(ctx context.Context, c *roster.Company) error
	FindByID(ctx context.Context, id domain.CompanyID) (*roster.Company, error)
	List(ctx context.Context) ([]*roster.Company, error)
	// Delete fails with sentinel.ErrReferenced while any contract
	// references the company.
	Delete(ctx context.Context, id domain.CompanyID) error
}

// RoleStore persists designation types.
type RoleStore interface {
	Create(ctx context.Context, r *roster.Role) error
	Update(ctx context.Context, r *roster.Role) error
	FindByID(ctx context.Context, id domain.RoleID) (*roster.Role, error)
	// List returns roles ordered by hierarchy (then title).
	List(ctx context.Context) ([]*roster.Role, error)
	// Delete fails with sentinel.ErrReferenced while any membership
	// references the role.
	Delete(ctx context.Context, id domain.RoleID) error
}

// ContractStore persists procurement contracts.
type ContractStore interface {
	Create(ctx context.Context, c *oversight.Contract) error
	Update(ctx context.Context, c *oversight.Contract) error
	FindByID(ctx context.Context, id domain.ContractID) (*oversight.Contract, error)
	List(ctx context.Context) ([]*oversight.Contract, error)
	// ListUnexpired returns contracts whose validity end is on or after
	// today, ordered by validity end (soonest first).
	ListUnexpired(ctx context.Context, today time.Time) ([]*oversight.Contract, error)
}

// CommitteeStore persists oversight bodies.
type CommitteeStore interface {
	Create(ctx context.Context, c *oversight.Committee) error
	Update(ctx context.Context, c *oversight.Committee) error
	FindByID(ctx context.Context, id domain.CommitteeID) (*oversight.Committee, error)
	ListByContract(ctx context.Context, contractID domain.ContractID) ([]*oversight.Committee, error)
	// FindByContractAndKind backs the get-or-create rule keeping at most
	// one committee of each kind per contract.
	FindByContractAndKind(ctx context.Context, contractID domain.ContractID, kind domain.CommitteeKind) (*oversight.Committee, error)
	// ListExpiredActive returns committees still flagged active whose end
	// date is strictly before today, the deactivation sweep's input set.
	ListExpiredActive(ctx context.Context, today time.Time) ([]*oversight.Committee, error)
}

// MembershipStore persists designations and answers the temporal queries
// the reports and the tenure resolver need.
type MembershipStore interface {
	Create(ctx context.Context, m *oversight.Membership) error
	Update(ctx context.Context, m *oversight.Membership) error
	FindByID(ctx context.Context, id domain.MembershipID) (*oversight.Membership, error)
	// ListByCommittee returns all memberships (active or not) of one
	// committee, ordered by role hierarchy with DisplayOrder overrides.
	ListByCommittee(ctx context.Context, committeeID domain.CommitteeID) ([]*oversight.Membership, error)
	CountByCommittee(ctx context.Context, committeeID domain.CommitteeID) (int, error)
	// ListActiveDetails returns every membership satisfying the active
	// predicate on today, joined with its agent, role, committee, contract,
	// and company. This is the bulk form of the active predicate.
	ListActiveDetails(ctx context.Context, today time.Time) ([]*MembershipDetail, error)
	// ListOverlapping returns memberships whose designation span overlaps
	// [from, to], for the period report.
	ListOverlapping(ctx context.Context, from, to time.Time) ([]*MembershipDetail, error)
	// FindPredecessor returns the membership on the same triple whose
	// scheduled end or termination date equals endingOn, for the tenure
	// chain walk.
	FindPredecessor(ctx context.Context, committeeID domain.CommitteeID, agentID domain.AgentID, roleID domain.RoleID, endingOn time.Time) (*oversight.Membership, error)
}

// MembershipDetail is one membership joined with the records reports need.
// Reporting enriches these rows; it never re-queries per row.
type MembershipDetail struct {
	Membership oversight.Membership

	AgentFullName     string
	AgentWarName      string
	AgentRegistration string
	AgentCourseDate   *time.Time

	// RankAbbreviation is the snapshotted designation-time grade.
	RankAbbreviation string

	RoleTitle          string
	RoleHierarchyOrder int

	CommitteeKind   domain.CommitteeKind
	CommitteeActive bool

	ContractID         domain.ContractID
	ContractNumber     string
	ContractValidUntil time.Time
	CompanyName        string
}

// Storage bundles every aggregate store behind one facade.
type Storage struct {
	Ranks       RankStore
	Agents      AgentStore
	Companies   CompanyStore
	Roles       RoleStore
	Contracts   ContractStore
	Committees  CommitteeStore
	Memberships MembershipStore
}

// NewPostgres wires sqlx-backed stores over one connection pool.
func NewPostgres(db *sqlx.DB) *Storage {
	return &Storage{
		Ranks:       &RankPostgres{db: db},
		Agents:      &AgentPostgres{db: db},
		Companies:   &CompanyPostgres{db: db},
		Roles:       &RolePostgres{db: db},
		Contracts:   &ContractPostgres{db: db},
		Committees:  &CommitteePostgres{db: db},
		Memberships: &MembershipPostgres{db: db},
	}
}

// NewMemory wires the in-memory stores over one shared state, so
// referential protection can see across aggregates.
func NewMemory() *Storage {
	st := newMemoryState()
	return &Storage{
		Ranks:       &RankMemory{st},
		Agents:      &AgentMemory{st},
		Companies:   &CompanyMemory{st},
		Roles:       &RoleMemory{st},
		Contracts:   &ContractMemory{st},
		Committees:  &CommitteeMemory{st},
		Memberships: &MembershipMemory{st},
	}
}
