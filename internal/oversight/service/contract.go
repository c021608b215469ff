package service

import (
	"context"
	"errors"

	"fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
	"fiscaldesk/pkg/requestcontext"
)

// CreateContract registers a contract and, as a side effect, its inspection
// committee shell (inactive, no dates) so every contract has a body to
// populate. The receiving committee is only created on demand.
func (s *Service) CreateContract(ctx context.Context, c *models.Contract) error {
	now := requestcontext.Now(ctx)
	c.ID = domain.NewContractID()
	c.ValidFrom = domain.Truncate(c.ValidFrom)
	c.ValidUntil = domain.Truncate(c.ValidUntil)
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := c.Validate(); err != nil {
		return err
	}

	if _, err := s.companies.FindByID(ctx, c.CompanyID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "contract references an unknown company")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check contract company")
	}

	if err := translateSave(s.contracts.Create(ctx, c), "contract"); err != nil {
		return err
	}

	shell := models.NewCommitteeShell(c.ID, domain.CommitteeKindInspection, now)
	if err := s.committees.Create(ctx, shell); err != nil {
		// The contract is already in; surface the failure rather than
		// silently leaving it without a committee.
		return dErrors.Wrap(err, dErrors.CodeInternal, "contract saved but inspection committee creation failed")
	}

	s.logger.InfoContext(ctx, "contract created",
		"contract_id", c.ID, "number", c.Number, "inspection_committee_id", shell.ID)
	if s.metrics != nil {
		s.metrics.ContractsCreated.Inc()
	}
	return nil
}

// UpdateContract saves contract edits. The committee shells are untouched;
// committee dates never follow later contract changes.
func (s *Service) UpdateContract(ctx context.Context, c *models.Contract) error {
	c.ValidFrom = domain.Truncate(c.ValidFrom)
	c.ValidUntil = domain.Truncate(c.ValidUntil)
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := c.Validate(); err != nil {
		return err
	}
	if _, err := s.companies.FindByID(ctx, c.CompanyID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeReferentialIntegrity, "contract references an unknown company")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check contract company")
	}
	return translateSave(s.contracts.Update(ctx, c), "contract")
}

func (s *Service) GetContract(ctx context.Context, id domain.ContractID) (*models.Contract, error) {
	c, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contract")
	}
	return c, nil
}

func (s *Service) ListContracts(ctx context.Context) ([]*models.Contract, error) {
	out, err := s.contracts.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	return out, nil
}
