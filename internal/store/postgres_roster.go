package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/pkg/domain"
)

// Row types mirror the tables; models stay free of db tags. Typed IDs do not
// implement sql.Scanner, so rows carry raw uuid.UUID and convert at the edge.

type rankRow struct {
	ID             uuid.UUID `db:"id"`
	Abbreviation   string    `db:"abbreviation"`
	Description    string    `db:"description"`
	SeniorityOrder int       `db:"seniority_order"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r rankRow) toModel() *roster.Rank {
	return &roster.Rank{
		ID:             domain.RankID(r.ID),
		Abbreviation:   r.Abbreviation,
		Description:    r.Description,
		SeniorityOrder: r.SeniorityOrder,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// RankPostgres implements RankStore over PostgreSQL.
type RankPostgres struct {
	db *sqlx.DB
}

func (s *RankPostgres) Create(ctx context.Context, r *roster.Rank) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ranks (id, abbreviation, description, seniority_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(r.ID), r.Abbreviation, r.Description, r.SeniorityOrder, r.CreatedAt, r.UpdatedAt,
	)
	return translatePQ(err, "insert rank")
}

func (s *RankPostgres) Update(ctx context.Context, r *roster.Rank) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE ranks
		SET abbreviation = $2, description = $3, seniority_order = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(r.ID), r.Abbreviation, r.Description, r.SeniorityOrder, r.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update rank")
	}
	return requireRow(res, "update rank")
}

func (s *RankPostgres) FindByID(ctx context.Context, id domain.RankID) (*roster.Rank, error) {
	var row rankRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM ranks WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find rank")
	}
	return row.toModel(), nil
}

func (s *RankPostgres) List(ctx context.Context) ([]*roster.Rank, error) {
	var rows []rankRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM ranks ORDER BY seniority_order, abbreviation`)
	if err != nil {
		return nil, translatePQ(err, "list ranks")
	}
	out := make([]*roster.Rank, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

// Delete relies on ON DELETE RESTRICT: agents.rank_id and
// memberships.rank_id keep referenced ranks alive.
func (s *RankPostgres) Delete(ctx context.Context, id domain.RankID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ranks WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return translatePQ(err, "delete rank")
	}
	return requireRow(res, "delete rank")
}

type agentRow struct {
	ID             uuid.UUID  `db:"id"`
	FullName       string     `db:"full_name"`
	WarName        string     `db:"war_name"`
	RankID         uuid.UUID  `db:"rank_id"`
	Registration   string     `db:"registration"`
	NationalID     string     `db:"national_id"`
	LastCourseDate *time.Time `db:"last_course_date"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r agentRow) toModel() *roster.Agent {
	return &roster.Agent{
		ID:             domain.AgentID(r.ID),
		FullName:       r.FullName,
		WarName:        r.WarName,
		RankID:         domain.RankID(r.RankID),
		Registration:   r.Registration,
		NationalID:     r.NationalID,
		LastCourseDate: r.LastCourseDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// AgentPostgres implements AgentStore over PostgreSQL.
type AgentPostgres struct {
	db *sqlx.DB
}

func (s *AgentPostgres) Create(ctx context.Context, a *roster.Agent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agents (id, full_name, war_name, rank_id, registration, national_id, last_course_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(a.ID), a.FullName, a.WarName, uuid.UUID(a.RankID), a.Registration,
		a.NationalID, a.LastCourseDate, a.CreatedAt, a.UpdatedAt,
	)
	return translatePQ(err, "insert agent")
}

func (s *AgentPostgres) Update(ctx context.Context, a *roster.Agent) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE agents
		SET full_name = $2, war_name = $3, rank_id = $4, registration = $5,
		    national_id = $6, last_course_date = $7, updated_at = $8
		WHERE id = $1`,
		uuid.UUID(a.ID), a.FullName, a.WarName, uuid.UUID(a.RankID), a.Registration,
		a.NationalID, a.LastCourseDate, a.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update agent")
	}
	return requireRow(res, "update agent")
}

func (s *AgentPostgres) FindByID(ctx context.Context, id domain.AgentID) (*roster.Agent, error) {
	var row agentRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM agents WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find agent")
	}
	return row.toModel(), nil
}

func (s *AgentPostgres) List(ctx context.Context) ([]*roster.Agent, error) {
	var rows []agentRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM agents ORDER BY war_name`)
	if err != nil {
		return nil, translatePQ(err, "list agents")
	}
	out := make([]*roster.Agent, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *AgentPostgres) Delete(ctx context.Context, id domain.AgentID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return translatePQ(err, "delete agent")
	}
	return requireRow(res, "delete agent")
}

type companyRow struct {
	ID        uuid.UUID `db:"id"`
	LegalName string    `db:"legal_name"`
	TaxID     string    `db:"tax_id"`
	Contact   string    `db:"contact"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r companyRow) toModel() *roster.Company {
	return &roster.Company{
		ID:        domain.CompanyID(r.ID),
		LegalName: r.LegalName,
		TaxID:     r.TaxID,
		Contact:   r.Contact,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// CompanyPostgres implements CompanyStore over PostgreSQL.
type CompanyPostgres struct {
	db *sqlx.DB
}

func (s *CompanyPostgres) Create(ctx context.Context, c *roster.Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO companies (id, legal_name, tax_id, contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.UUID(c.ID), c.LegalName, c.TaxID, c.Contact, c.CreatedAt, c.UpdatedAt,
	)
	return translatePQ(err, "insert company")
}

func (s *CompanyPostgres) Update(ctx context.Context, c *roster.Company) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE companies
		SET legal_name = $2, tax_id = $3, contact = $4, updated_at = $5
		WHERE id = $1`,
		uuid.UUID(c.ID), c.LegalName, c.TaxID, c.Contact, c.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update company")
	}
	return requireRow(res, "update company")
}

func (s *CompanyPostgres) FindByID(ctx context.Context, id domain.CompanyID) (*roster.Company, error) {
	var row companyRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM companies WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find company")
	}
	return row.toModel(), nil
}

func (s *CompanyPostgres) List(ctx context.Context) ([]*roster.Company, error) {
	var rows []companyRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM companies ORDER BY legal_name`)
	if err != nil {
		return nil, translatePQ(err, "list companies")
	}
	out := make([]*roster.Company, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *CompanyPostgres) Delete(ctx context.Context, id domain.CompanyID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM companies WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return translatePQ(err, "delete company")
	}
	return requireRow(res, "delete company")
}

type roleRow struct {
	ID             uuid.UUID `db:"id"`
	Title          string    `db:"title"`
	Abbreviation   string    `db:"abbreviation"`
	HierarchyOrder int       `db:"hierarchy_order"`
	Active         bool      `db:"active"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (r roleRow) toModel() *roster.Role {
	return &roster.Role{
		ID:             domain.RoleID(r.ID),
		Title:          r.Title,
		Abbreviation:   r.Abbreviation,
		HierarchyOrder: r.HierarchyOrder,
		Active:         r.Active,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// RolePostgres implements RoleStore over PostgreSQL.
type RolePostgres struct {
	db *sqlx.DB
}

func (s *RolePostgres) Create(ctx context.Context, r *roster.Role) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roles (id, title, abbreviation, hierarchy_order, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		uuid.UUID(r.ID), r.Title, r.Abbreviation, r.HierarchyOrder, r.Active, r.CreatedAt, r.UpdatedAt,
	)
	return translatePQ(err, "insert role")
}

func (s *RolePostgres) Update(ctx context.Context, r *roster.Role) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE roles
		SET title = $2, abbreviation = $3, hierarchy_order = $4, active = $5, updated_at = $6
		WHERE id = $1`,
		uuid.UUID(r.ID), r.Title, r.Abbreviation, r.HierarchyOrder, r.Active, r.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update role")
	}
	return requireRow(res, "update role")
}

func (s *RolePostgres) FindByID(ctx context.Context, id domain.RoleID) (*roster.Role, error) {
	var row roleRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM roles WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find role")
	}
	return row.toModel(), nil
}

func (s *RolePostgres) List(ctx context.Context) ([]*roster.Role, error) {
	var rows []roleRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM roles ORDER BY hierarchy_order, title`)
	if err != nil {
		return nil, translatePQ(err, "list roles")
	}
	out := make([]*roster.Role, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *RolePostgres) Delete(ctx context.Context, id domain.RoleID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM roles WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return translatePQ(err, "delete role")
	}
	return requireRow(res, "delete role")
}
