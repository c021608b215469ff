package store

import (
	"context"
	"fmt"
	"time"

	oversight "fiscaldesk/internal/oversight/models"
	roster "fiscaldesk/internal/roster/models"
	"fiscaldesk/pkg/domain"
)

// Seed populates a storage with a small demonstration dataset: a rank
// ladder, a handful of agents at different qualification standings, two
// companies, two contracts with committees, and memberships covering the
// states the dashboard reports on (serving, scheduled to end soon,
// terminated, renewed back-to-back).
//
// Idempotence is not attempted; run against an empty database only.
func Seed(ctx context.Context, st *Storage, today time.Time) error {
	now := domain.Truncate(today)

	ranks := []*roster.Rank{
		{ID: domain.NewRankID(), Abbreviation: "COL", Description: "Colonel", SeniorityOrder: 1, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRankID(), Abbreviation: "MAJ", Description: "Major", SeniorityOrder: 2, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRankID(), Abbreviation: "CPT", Description: "Captain", SeniorityOrder: 3, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRankID(), Abbreviation: "LT", Description: "Lieutenant", SeniorityOrder: 4, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRankID(), Abbreviation: "SGT", Description: "Sergeant", SeniorityOrder: 5, CreatedAt: now, UpdatedAt: now},
	}
	for _, r := range ranks {
		if err := st.Ranks.Create(ctx, r); err != nil {
			return fmt.Errorf("seed rank %s: %w", r.Abbreviation, err)
		}
	}

	roles := []*roster.Role{
		{ID: domain.NewRoleID(), Title: "President", Abbreviation: "PRES", HierarchyOrder: 1, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRoleID(), Title: "Inspector", Abbreviation: "INSP", HierarchyOrder: 2, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRoleID(), Title: "Alternate Inspector", Abbreviation: "ALT", HierarchyOrder: 3, Active: true, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewRoleID(), Title: "Member", Abbreviation: "MBR", HierarchyOrder: 4, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	for _, r := range roles {
		if err := st.Roles.Create(ctx, r); err != nil {
			return fmt.Errorf("seed role %s: %w", r.Title, err)
		}
	}

	recentCourse := domain.AddDays(now, -120)
	staleCourse := domain.AddDays(now, -400)
	agents := []*roster.Agent{
		{ID: domain.NewAgentID(), FullName: "Arthur Silva Andrade", WarName: "Andrade", RankID: ranks[1].ID, Registration: "100001", LastCourseDate: &recentCourse, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewAgentID(), FullName: "Beatriz Costa Lima", WarName: "Costa Lima", RankID: ranks[2].ID, Registration: "100002", LastCourseDate: &staleCourse, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewAgentID(), FullName: "Carlos Eduardo Ferreira", WarName: "Ferreira", RankID: ranks[3].ID, Registration: "100003", CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewAgentID(), FullName: "Daniela Moreira Santos", WarName: "Moreira", RankID: ranks[3].ID, Registration: "100004", LastCourseDate: &recentCourse, CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewAgentID(), FullName: "Eduardo Pires Rocha", WarName: "Rocha", RankID: ranks[4].ID, Registration: "100005", LastCourseDate: &recentCourse, CreatedAt: now, UpdatedAt: now},
	}
	for _, a := range agents {
		if err := st.Agents.Create(ctx, a); err != nil {
			return fmt.Errorf("seed agent %s: %w", a.WarName, err)
		}
	}

	companies := []*roster.Company{
		{ID: domain.NewCompanyID(), LegalName: "Alvorada Food Services Ltd", TaxID: "12.345.678/0001-01", Contact: "contact@alvorada.example", CreatedAt: now, UpdatedAt: now},
		{ID: domain.NewCompanyID(), LegalName: "Horizonte Facilities SA", TaxID: "98.765.432/0001-02", Contact: "ops@horizonte.example", CreatedAt: now, UpdatedAt: now},
	}
	for _, c := range companies {
		if err := st.Companies.Create(ctx, c); err != nil {
			return fmt.Errorf("seed company %s: %w", c.LegalName, err)
		}
	}

	// Contract 1 expires soon; its inspection committee is active and fully
	// staffed, including one back-to-back renewal for the tenure report.
	c1 := &oversight.Contract{
		ID: domain.NewContractID(), Number: "CT-2024/001", Type: domain.ContractTypeExpense,
		Description: "Meal preparation and catering", CompanyID: companies[0].ID,
		ValidFrom: domain.AddDays(now, -580), ValidUntil: domain.AddDays(now, 12),
		TotalValue: 1250000.00, CreatedAt: now, UpdatedAt: now,
	}
	// Contract 2 runs long and has an inspection committee with no members,
	// left inactive, for the uncovered-contracts panel.
	c2 := &oversight.Contract{
		ID: domain.NewContractID(), Number: "CT-2024/002", Type: domain.ContractTypeExpense,
		Description: "Building maintenance", CompanyID: companies[1].ID,
		ValidFrom: domain.AddDays(now, -90), ValidUntil: domain.AddDays(now, 300),
		TotalValue: 480000.00, CreatedAt: now, UpdatedAt: now,
	}
	for _, c := range []*oversight.Contract{c1, c2} {
		if err := st.Contracts.Create(ctx, c); err != nil {
			return fmt.Errorf("seed contract %s: %w", c.Number, err)
		}
	}

	start1 := domain.AddDays(now, -580)
	end1 := domain.AddDays(now, 12)
	k1 := &oversight.Committee{
		ID: domain.NewCommitteeID(), ContractID: c1.ID, Kind: domain.CommitteeKindInspection,
		Active: true, OrderNumber: "ORD-17/2023", OrderDate: &start1,
		BulletinNumber: "BUL-44/2023", BulletinDate: &start1,
		StartDate: &start1, EndDate: &end1, CreatedAt: now, UpdatedAt: now,
	}
	k2 := oversight.NewCommitteeShell(c2.ID, domain.CommitteeKindInspection, now)
	for _, k := range []*oversight.Committee{k1, k2} {
		if err := st.Committees.Create(ctx, k); err != nil {
			return fmt.Errorf("seed committee for contract: %w", err)
		}
	}

	// Ferreira served a first term that ended mid-way and was renewed the
	// next day; the tenure resolver should chain the two.
	firstTermEnd := domain.AddDays(now, -200)
	renewalStart := domain.AddDays(now, -199)
	memberships := []*oversight.Membership{
		{
			ID: domain.NewMembershipID(), CommitteeID: k1.ID, AgentID: agents[0].ID,
			RoleID: roles[0].ID, RankID: &ranks[1].ID,
			StartDate: start1, ScheduledEnd: &end1,
			OrderNumber: k1.OrderNumber, OrderDate: k1.OrderDate,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: domain.NewMembershipID(), CommitteeID: k1.ID, AgentID: agents[1].ID,
			RoleID: roles[1].ID, RankID: &ranks[2].ID,
			StartDate: start1, ScheduledEnd: &end1,
			OrderNumber: k1.OrderNumber, OrderDate: k1.OrderDate,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: domain.NewMembershipID(), CommitteeID: k1.ID, AgentID: agents[2].ID,
			RoleID: roles[2].ID, RankID: &ranks[3].ID,
			StartDate: start1, ScheduledEnd: &firstTermEnd,
			CreatedAt: now, UpdatedAt: now,
		},
		{
			ID: domain.NewMembershipID(), CommitteeID: k1.ID, AgentID: agents[2].ID,
			RoleID: roles[2].ID, RankID: &ranks[3].ID,
			StartDate: renewalStart, ScheduledEnd: &end1,
			CreatedAt: now, UpdatedAt: now,
		},
	}
	// Moreira was dismissed early; kept for the audit trail.
	dismissed := domain.AddDays(now, -30)
	memberships = append(memberships, &oversight.Membership{
		ID: domain.NewMembershipID(), CommitteeID: k1.ID, AgentID: agents[3].ID,
		RoleID: roles[3].ID, RankID: &ranks[3].ID,
		StartDate: start1, ScheduledEnd: &end1,
		TerminatedOn: &dismissed, TerminationReason: "transferred to another unit",
		TerminationDoc: "ORD-03/2025",
		CreatedAt:      now, UpdatedAt: now,
	})

	for _, m := range memberships {
		if err := st.Memberships.Create(ctx, m); err != nil {
			return fmt.Errorf("seed membership: %w", err)
		}
	}
	return nil
}
