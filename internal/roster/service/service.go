// Package service orchestrates the personnel reference data: ranks, agents,
// companies, and roles. Mutations validate model invariants first and
// translate store sentinels into coded domain errors; deletes surface
// referential protection as a referential-integrity violation naming the
// dependent records.
package service

import (
	"context"
	"errors"
	"log/slog"

	"fiscaldesk/internal/roster/models"
	"fiscaldesk/internal/store"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
	"fiscaldesk/pkg/requestcontext"
)

// Service manages the four reference aggregates behind one facade; they
// share identical orchestration and differ only in model and store.
type Service struct {
	ranks     store.RankStore
	agents    store.AgentStore
	companies store.CompanyStore
	roles     store.RoleStore
	logger    *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(st *store.Storage, opts ...Option) *Service {
	s := &Service{
		ranks:     st.Ranks,
		agents:    st.Agents,
		companies: st.Companies,
		roles:     st.Roles,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// translateMutation maps store sentinels from creates and updates.
func translateMutation(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, entity+" conflicts with an existing record")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save "+entity)
	}
}

// translateDelete maps store sentinels from deletes. Referential protection
// keeps the underlying message, which names the dependent records.
func translateDelete(err error, entity string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrReferenced):
		return dErrors.Wrap(err, dErrors.CodeReferentialIntegrity, entity+" is referenced by dependent records")
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, entity+" not found")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete "+entity)
	}
}

func (s *Service) CreateRank(ctx context.Context, r *models.Rank) error {
	now := requestcontext.Now(ctx)
	r.ID = domain.NewRankID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := r.Validate(); err != nil {
		return err
	}
	if err := translateMutation(s.ranks.Create(ctx, r), "rank"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "rank created", "rank_id", r.ID, "abbreviation", r.Abbreviation)
	return nil
}

func (s *Service) UpdateRank(ctx context.Context, r *models.Rank) error {
	r.UpdatedAt = requestcontext.Now(ctx)
	if err := r.Validate(); err != nil {
		return err
	}
	return translateMutation(s.ranks.Update(ctx, r), "rank")
}

func (s *Service) GetRank(ctx context.Context, id domain.RankID) (*models.Rank, error) {
	r, err := s.ranks.FindByID(ctx, id)
	if err != nil {
		return nil, translateMutation(err, "rank")
	}
	return r, nil
}

func (s *Service) ListRanks(ctx context.Context) ([]*models.Rank, error) {
	out, err := s.ranks.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list ranks")
	}
	return out, nil
}

func (s *Service) DeleteRank(ctx context.Context, id domain.RankID) error {
	return translateDelete(s.ranks.Delete(ctx, id), "rank")
}

func (s *Service) CreateAgent(ctx context.Context, a *models.Agent) error {
	now := requestcontext.Now(ctx)
	a.ID = domain.NewAgentID()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := s.ranks.FindByID(ctx, a.RankID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "agent references an unknown rank")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check agent rank")
	}
	if err := translateMutation(s.agents.Create(ctx, a), "agent"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "agent created", "agent_id", a.ID, "registration", a.Registration)
	return nil
}

func (s *Service) UpdateAgent(ctx context.Context, a *models.Agent) error {
	a.UpdatedAt = requestcontext.Now(ctx)
	if err := a.Validate(); err != nil {
		return err
	}
	if _, err := s.ranks.FindByID(ctx, a.RankID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "agent references an unknown rank")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check agent rank")
	}
	return translateMutation(s.agents.Update(ctx, a), "agent")
}

func (s *Service) GetAgent(ctx context.Context, id domain.AgentID) (*models.Agent, error) {
	a, err := s.agents.FindByID(ctx, id)
	if err != nil {
		return nil, translateMutation(err, "agent")
	}
	return a, nil
}

func (s *Service) ListAgents(ctx context.Context) ([]*models.Agent, error) {
	out, err := s.agents.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list agents")
	}
	return out, nil
}

func (s *Service) DeleteAgent(ctx context.Context, id domain.AgentID) error {
	return translateDelete(s.agents.Delete(ctx, id), "agent")
}

func (s *Service) CreateCompany(ctx context.Context, c *models.Company) error {
	now := requestcontext.Now(ctx)
	c.ID = domain.NewCompanyID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := c.Validate(); err != nil {
		return err
	}
	if err := translateMutation(s.companies.Create(ctx, c), "company"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "company created", "company_id", c.ID)
	return nil
}

func (s *Service) UpdateCompany(ctx context.Context, c *models.Company) error {
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := c.Validate(); err != nil {
		return err
	}
	return translateMutation(s.companies.Update(ctx, c), "company")
}

func (s *Service) GetCompany(ctx context.Context, id domain.CompanyID) (*models.Company, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, translateMutation(err, "company")
	}
	return c, nil
}

func (s *Service) ListCompanies(ctx context.Context) ([]*models.Company, error) {
	out, err := s.companies.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list companies")
	}
	return out, nil
}

func (s *Service) DeleteCompany(ctx context.Context, id domain.CompanyID) error {
	return translateDelete(s.companies.Delete(ctx, id), "company")
}

func (s *Service) CreateRole(ctx context.Context, r *models.Role) error {
	now := requestcontext.Now(ctx)
	r.ID = domain.NewRoleID()
	r.CreatedAt = now
	r.UpdatedAt = now
	if err := r.Validate(); err != nil {
		return err
	}
	if err := translateMutation(s.roles.Create(ctx, r), "role"); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "role created", "role_id", r.ID, "title", r.Title)
	return nil
}

func (s *Service) UpdateRole(ctx context.Context, r *models.Role) error {
	r.UpdatedAt = requestcontext.Now(ctx)
	if err := r.Validate(); err != nil {
		return err
	}
	return translateMutation(s.roles.Update(ctx, r), "role")
}

func (s *Service) GetRole(ctx context.Context, id domain.RoleID) (*models.Role, error) {
	r, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return nil, translateMutation(err, "role")
	}
	return r, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*models.Role, error) {
	out, err := s.roles.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list roles")
	}
	return out, nil
}

func (s *Service) DeleteRole(ctx context.Context, id domain.RoleID) error {
	return translateDelete(s.roles.Delete(ctx, id), "role")
}
