package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	oversight "fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
)

type contractRow struct {
	ID          uuid.UUID `db:"id"`
	Number      string    `db:"number"`
	Type        string    `db:"type"`
	Description string    `db:"description"`
	CompanyID   uuid.UUID `db:"company_id"`
	ValidFrom   time.Time `db:"valid_from"`
	ValidUntil  time.Time `db:"valid_until"`
	TotalValue  float64   `db:"total_value"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r contractRow) toModel() *oversight.Contract {
	return &oversight.Contract{
		ID:          domain.ContractID(r.ID),
		Number:      r.Number,
		Type:        domain.ContractType(r.Type),
		Description: r.Description,
		CompanyID:   domain.CompanyID(r.CompanyID),
		ValidFrom:   r.ValidFrom,
		ValidUntil:  r.ValidUntil,
		TotalValue:  r.TotalValue,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// ContractPostgres implements ContractStore over PostgreSQL.
type ContractPostgres struct {
	db *sqlx.DB
}

func (s *ContractPostgres) Create(ctx context.Context, c *oversight.Contract) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contracts (id, number, type, description, company_id, valid_from, valid_until, total_value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(c.ID), c.Number, string(c.Type), c.Description, uuid.UUID(c.CompanyID),
		c.ValidFrom, c.ValidUntil, c.TotalValue, c.CreatedAt, c.UpdatedAt,
	)
	return translatePQ(err, "insert contract")
}

func (s *ContractPostgres) Update(ctx context.Context, c *oversight.Contract) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE contracts
		SET number = $2, type = $3, description = $4, company_id = $5,
		    valid_from = $6, valid_until = $7, total_value = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Number, string(c.Type), c.Description, uuid.UUID(c.CompanyID),
		c.ValidFrom, c.ValidUntil, c.TotalValue, c.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update contract")
	}
	return requireRow(res, "update contract")
}

func (s *ContractPostgres) FindByID(ctx context.Context, id domain.ContractID) (*oversight.Contract, error) {
	var row contractRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM contracts WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find contract")
	}
	return row.toModel(), nil
}

func (s *ContractPostgres) List(ctx context.Context) ([]*oversight.Contract, error) {
	var rows []contractRow
	err := s.db.SelectContext(ctx, &rows, `SELECT * FROM contracts ORDER BY number`)
	if err != nil {
		return nil, translatePQ(err, "list contracts")
	}
	out := make([]*oversight.Contract, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *ContractPostgres) ListUnexpired(ctx context.Context, today time.Time) ([]*oversight.Contract, error) {
	var rows []contractRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM contracts WHERE valid_until >= $1 ORDER BY valid_until`,
		domain.Truncate(today),
	)
	if err != nil {
		return nil, translatePQ(err, "list unexpired contracts")
	}
	out := make([]*oversight.Contract, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

type committeeRow struct {
	ID             uuid.UUID  `db:"id"`
	ContractID     uuid.UUID  `db:"contract_id"`
	Kind           string     `db:"kind"`
	Active         bool       `db:"active"`
	OrderNumber    string     `db:"order_number"`
	OrderDate      *time.Time `db:"order_date"`
	BulletinNumber string     `db:"bulletin_number"`
	BulletinDate   *time.Time `db:"bulletin_date"`
	StartDate      *time.Time `db:"start_date"`
	EndDate        *time.Time `db:"end_date"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

func (r committeeRow) toModel() *oversight.Committee {
	return &oversight.Committee{
		ID:             domain.CommitteeID(r.ID),
		ContractID:     domain.ContractID(r.ContractID),
		Kind:           domain.CommitteeKind(r.Kind),
		Active:         r.Active,
		OrderNumber:    r.OrderNumber,
		OrderDate:      r.OrderDate,
		BulletinNumber: r.BulletinNumber,
		BulletinDate:   r.BulletinDate,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// CommitteePostgres implements CommitteeStore over PostgreSQL.
type CommitteePostgres struct {
	db *sqlx.DB
}

func (s *CommitteePostgres) Create(ctx context.Context, c *oversight.Committee) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO committees (id, contract_id, kind, active, order_number, order_date,
			bulletin_number, bulletin_date, start_date, end_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(c.ID), uuid.UUID(c.ContractID), string(c.Kind), c.Active,
		c.OrderNumber, c.OrderDate, c.BulletinNumber, c.BulletinDate,
		c.StartDate, c.EndDate, c.CreatedAt, c.UpdatedAt,
	)
	return translatePQ(err, "insert committee")
}

func (s *CommitteePostgres) Update(ctx context.Context, c *oversight.Committee) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE committees
		SET active = $2, order_number = $3, order_date = $4, bulletin_number = $5,
		    bulletin_date = $6, start_date = $7, end_date = $8, updated_at = $9
		WHERE id = $1`,
		uuid.UUID(c.ID), c.Active, c.OrderNumber, c.OrderDate, c.BulletinNumber,
		c.BulletinDate, c.StartDate, c.EndDate, c.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update committee")
	}
	return requireRow(res, "update committee")
}

func (s *CommitteePostgres) FindByID(ctx context.Context, id domain.CommitteeID) (*oversight.Committee, error) {
	var row committeeRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM committees WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find committee")
	}
	return row.toModel(), nil
}

func (s *CommitteePostgres) ListByContract(ctx context.Context, contractID domain.ContractID) ([]*oversight.Committee, error) {
	var rows []committeeRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM committees WHERE contract_id = $1 ORDER BY kind`,
		uuid.UUID(contractID),
	)
	if err != nil {
		return nil, translatePQ(err, "list committees by contract")
	}
	out := make([]*oversight.Committee, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *CommitteePostgres) FindByContractAndKind(ctx context.Context, contractID domain.ContractID, kind domain.CommitteeKind) (*oversight.Committee, error) {
	var row committeeRow
	err := s.db.GetContext(ctx, &row,
		`SELECT * FROM committees WHERE contract_id = $1 AND kind = $2`,
		uuid.UUID(contractID), string(kind),
	)
	if err != nil {
		return nil, translatePQ(err, "find committee by contract and kind")
	}
	return row.toModel(), nil
}

func (s *CommitteePostgres) ListExpiredActive(ctx context.Context, today time.Time) ([]*oversight.Committee, error) {
	var rows []committeeRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT * FROM committees
		WHERE active AND end_date IS NOT NULL AND end_date < $1
		ORDER BY end_date`,
		domain.Truncate(today),
	)
	if err != nil {
		return nil, translatePQ(err, "list expired active committees")
	}
	out := make([]*oversight.Committee, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

type membershipRow struct {
	ID                uuid.UUID  `db:"id"`
	CommitteeID       uuid.UUID  `db:"committee_id"`
	AgentID           uuid.UUID  `db:"agent_id"`
	RoleID            uuid.UUID  `db:"role_id"`
	RankID            *uuid.UUID `db:"rank_id"`
	StartDate         time.Time  `db:"start_date"`
	ScheduledEnd      *time.Time `db:"scheduled_end"`
	TerminatedOn      *time.Time `db:"terminated_on"`
	TerminationReason string     `db:"termination_reason"`
	TerminationDoc    string     `db:"termination_doc"`
	OrderNumber       string     `db:"order_number"`
	OrderDate         *time.Time `db:"order_date"`
	BulletinNumber    string     `db:"bulletin_number"`
	BulletinDate      *time.Time `db:"bulletin_date"`
	Note              string     `db:"note"`
	DisplayOrder      *int       `db:"display_order"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func (r membershipRow) toModel() *oversight.Membership {
	m := &oversight.Membership{
		ID:                domain.MembershipID(r.ID),
		CommitteeID:       domain.CommitteeID(r.CommitteeID),
		AgentID:           domain.AgentID(r.AgentID),
		RoleID:            domain.RoleID(r.RoleID),
		StartDate:         r.StartDate,
		ScheduledEnd:      r.ScheduledEnd,
		TerminatedOn:      r.TerminatedOn,
		TerminationReason: r.TerminationReason,
		TerminationDoc:    r.TerminationDoc,
		OrderNumber:       r.OrderNumber,
		OrderDate:         r.OrderDate,
		BulletinNumber:    r.BulletinNumber,
		BulletinDate:      r.BulletinDate,
		Note:              r.Note,
		DisplayOrder:      r.DisplayOrder,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.RankID != nil {
		rank := domain.RankID(*r.RankID)
		m.RankID = &rank
	}
	return m
}

// membershipDetailRow adds the joined reference columns. Rank, role, and
// company columns are selected via LEFT JOIN so a missing snapshot never
// drops the row.
type membershipDetailRow struct {
	membershipRow

	AgentFullName     string     `db:"agent_full_name"`
	AgentWarName      string     `db:"agent_war_name"`
	AgentRegistration string     `db:"agent_registration"`
	AgentCourseDate   *time.Time `db:"agent_course_date"`

	RankAbbreviation *string `db:"rank_abbreviation"`

	RoleTitle          string `db:"role_title"`
	RoleHierarchyOrder int    `db:"role_hierarchy_order"`

	CommitteeKind   string `db:"committee_kind"`
	CommitteeActive bool   `db:"committee_active"`

	ContractID         uuid.UUID `db:"contract_id"`
	ContractNumber     string    `db:"contract_number"`
	ContractValidUntil time.Time `db:"contract_valid_until"`
	CompanyName        string    `db:"company_name"`
}

func (r membershipDetailRow) toDetail() *MembershipDetail {
	d := &MembershipDetail{
		Membership:         *r.membershipRow.toModel(),
		AgentFullName:      r.AgentFullName,
		AgentWarName:       r.AgentWarName,
		AgentRegistration:  r.AgentRegistration,
		AgentCourseDate:    r.AgentCourseDate,
		RoleTitle:          r.RoleTitle,
		RoleHierarchyOrder: r.RoleHierarchyOrder,
		CommitteeKind:      domain.CommitteeKind(r.CommitteeKind),
		CommitteeActive:    r.CommitteeActive,
		ContractID:         domain.ContractID(r.ContractID),
		ContractNumber:     r.ContractNumber,
		ContractValidUntil: r.ContractValidUntil,
		CompanyName:        r.CompanyName,
	}
	if r.RankAbbreviation != nil {
		d.RankAbbreviation = *r.RankAbbreviation
	}
	return d
}

// detailColumns is the shared SELECT list for joined membership queries.
// Membership columns come first so membershipRow scans them by name.
const detailColumns = `
	m.id, m.committee_id, m.agent_id, m.role_id, m.rank_id,
	m.start_date, m.scheduled_end, m.terminated_on, m.termination_reason, m.termination_doc,
	m.order_number, m.order_date, m.bulletin_number, m.bulletin_date,
	m.note, m.display_order, m.created_at, m.updated_at,
	a.full_name AS agent_full_name,
	a.war_name AS agent_war_name,
	a.registration AS agent_registration,
	a.last_course_date AS agent_course_date,
	rk.abbreviation AS rank_abbreviation,
	r.title AS role_title,
	r.hierarchy_order AS role_hierarchy_order,
	c.kind AS committee_kind,
	c.active AS committee_active,
	ct.id AS contract_id,
	ct.number AS contract_number,
	ct.valid_until AS contract_valid_until,
	co.legal_name AS company_name`

const detailJoins = `
	FROM memberships m
	JOIN agents a ON a.id = m.agent_id
	JOIN roles r ON r.id = m.role_id
	JOIN committees c ON c.id = m.committee_id
	JOIN contracts ct ON ct.id = c.contract_id
	JOIN companies co ON co.id = ct.company_id
	LEFT JOIN ranks rk ON rk.id = m.rank_id`

// MembershipPostgres implements MembershipStore over PostgreSQL.
type MembershipPostgres struct {
	db *sqlx.DB
}

func (s *MembershipPostgres) Create(ctx context.Context, m *oversight.Membership) error {
	var rankID *uuid.UUID
	if m.RankID != nil {
		id := uuid.UUID(*m.RankID)
		rankID = &id
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO memberships (id, committee_id, agent_id, role_id, rank_id,
			start_date, scheduled_end, terminated_on, termination_reason, termination_doc,
			order_number, order_date, bulletin_number, bulletin_date, note, display_order,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		uuid.UUID(m.ID), uuid.UUID(m.CommitteeID), uuid.UUID(m.AgentID), uuid.UUID(m.RoleID), rankID,
		m.StartDate, m.ScheduledEnd, m.TerminatedOn, m.TerminationReason, m.TerminationDoc,
		m.OrderNumber, m.OrderDate, m.BulletinNumber, m.BulletinDate, m.Note, m.DisplayOrder,
		m.CreatedAt, m.UpdatedAt,
	)
	return translatePQ(err, "insert membership")
}

func (s *MembershipPostgres) Update(ctx context.Context, m *oversight.Membership) error {
	var rankID *uuid.UUID
	if m.RankID != nil {
		id := uuid.UUID(*m.RankID)
		rankID = &id
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE memberships
		SET rank_id = $2, start_date = $3, scheduled_end = $4, terminated_on = $5,
		    termination_reason = $6, termination_doc = $7, order_number = $8, order_date = $9,
		    bulletin_number = $10, bulletin_date = $11, note = $12, display_order = $13,
		    updated_at = $14
		WHERE id = $1`,
		uuid.UUID(m.ID), rankID, m.StartDate, m.ScheduledEnd, m.TerminatedOn,
		m.TerminationReason, m.TerminationDoc, m.OrderNumber, m.OrderDate,
		m.BulletinNumber, m.BulletinDate, m.Note, m.DisplayOrder, m.UpdatedAt,
	)
	if err != nil {
		return translatePQ(err, "update membership")
	}
	return requireRow(res, "update membership")
}

func (s *MembershipPostgres) FindByID(ctx context.Context, id domain.MembershipID) (*oversight.Membership, error) {
	var row membershipRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM memberships WHERE id = $1`, uuid.UUID(id))
	if err != nil {
		return nil, translatePQ(err, "find membership")
	}
	return row.toModel(), nil
}

func (s *MembershipPostgres) ListByCommittee(ctx context.Context, committeeID domain.CommitteeID) ([]*oversight.Membership, error) {
	var rows []membershipRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT m.* FROM memberships m
		JOIN roles r ON r.id = m.role_id
		WHERE m.committee_id = $1
		ORDER BY COALESCE(m.display_order, r.hierarchy_order), m.start_date DESC`,
		uuid.UUID(committeeID),
	)
	if err != nil {
		return nil, translatePQ(err, "list memberships by committee")
	}
	out := make([]*oversight.Membership, len(rows))
	for i, r := range rows {
		out[i] = r.toModel()
	}
	return out, nil
}

func (s *MembershipPostgres) CountByCommittee(ctx context.Context, committeeID domain.CommitteeID) (int, error) {
	var n int
	err := s.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM memberships WHERE committee_id = $1`,
		uuid.UUID(committeeID),
	)
	if err != nil {
		return 0, translatePQ(err, "count memberships")
	}
	return n, nil
}

func (s *MembershipPostgres) ListActiveDetails(ctx context.Context, today time.Time) ([]*MembershipDetail, error) {
	query := `SELECT` + detailColumns + detailJoins + `
	WHERE ` + oversight.ActiveFilterSQL("m", 1) + `
	ORDER BY ct.number, m.start_date`

	var rows []membershipDetailRow
	err := s.db.SelectContext(ctx, &rows, query, oversight.ActiveFilterArgs(today)...)
	if err != nil {
		return nil, translatePQ(err, "list active membership details")
	}
	out := make([]*MembershipDetail, len(rows))
	for i, r := range rows {
		out[i] = r.toDetail()
	}
	return out, nil
}

func (s *MembershipPostgres) ListOverlapping(ctx context.Context, from, to time.Time) ([]*MembershipDetail, error) {
	query := `SELECT` + detailColumns + detailJoins + `
	WHERE m.start_date <= $2
	  AND (m.scheduled_end IS NULL OR m.scheduled_end >= $1)
	  AND (m.terminated_on IS NULL OR m.terminated_on >= $1)
	ORDER BY ct.number, m.start_date`

	var rows []membershipDetailRow
	err := s.db.SelectContext(ctx, &rows, query, domain.Truncate(from), domain.Truncate(to))
	if err != nil {
		return nil, translatePQ(err, "list overlapping membership details")
	}
	out := make([]*MembershipDetail, len(rows))
	for i, r := range rows {
		out[i] = r.toDetail()
	}
	return out, nil
}

func (s *MembershipPostgres) FindPredecessor(ctx context.Context, committeeID domain.CommitteeID, agentID domain.AgentID, roleID domain.RoleID, endingOn time.Time) (*oversight.Membership, error) {
	var row membershipRow
	err := s.db.GetContext(ctx, &row, `
		SELECT * FROM memberships
		WHERE committee_id = $1 AND agent_id = $2 AND role_id = $3
		  AND (scheduled_end = $4 OR terminated_on = $4)
		ORDER BY start_date DESC
		LIMIT 1`,
		uuid.UUID(committeeID), uuid.UUID(agentID), uuid.UUID(roleID), domain.Truncate(endingOn),
	)
	if err != nil {
		return nil, translatePQ(err, "find predecessor membership")
	}
	return row.toModel(), nil
}
