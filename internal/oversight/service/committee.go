package service

import (
	"context"
	"errors"
	"time"

	"fiscaldesk/internal/oversight/models"
	"fiscaldesk/pkg/domain"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
	"fiscaldesk/pkg/requestcontext"
)

// GetOrCreateCommittee returns the contract's committee of the given kind,
// creating an inactive shell when none exists. This is what keeps a contract
// at one committee per kind without a hard uniqueness constraint.
func (s *Service) GetOrCreateCommittee(ctx context.Context, contractID domain.ContractID, kind domain.CommitteeKind) (*models.Committee, error) {
	if !kind.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "committee kind must be 'inspection' or 'receiving'")
	}
	if _, err := s.contracts.FindByID(ctx, contractID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load contract")
	}

	existing, err := s.committees.FindByContractAndKind(ctx, contractID, kind)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up committee")
	}

	shell := models.NewCommitteeShell(contractID, kind, requestcontext.Now(ctx))
	if err := s.committees.Create(ctx, shell); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create committee")
	}
	s.logger.InfoContext(ctx, "committee created",
		"committee_id", shell.ID, "contract_id", contractID, "kind", kind)
	return shell, nil
}

// UpdateCommittee saves committee edits, enforcing the activation guard: a
// committee with zero memberships may not be activated. When the guard
// trips, the corrected record (active off, other edits kept) is persisted
// and the violation is surfaced, so storage never holds the inconsistent
// state the caller asked for.
func (s *Service) UpdateCommittee(ctx context.Context, c *models.Committee) error {
	c.UpdatedAt = requestcontext.Now(ctx)
	if err := c.Validate(); err != nil {
		return err
	}

	if c.Active {
		n, err := s.memberships.CountByCommittee(ctx, c.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count committee memberships")
		}
		if n == 0 {
			c.Active = false
			if err := translateSave(s.committees.Update(ctx, c), "committee"); err != nil {
				return err
			}
			s.logger.WarnContext(ctx, "committee activation rejected, no members",
				"committee_id", c.ID)
			return dErrors.New(dErrors.CodeBusinessRuleViolation,
				"a committee without members cannot be activated")
		}
	}
	return translateSave(s.committees.Update(ctx, c), "committee")
}

func (s *Service) GetCommittee(ctx context.Context, id domain.CommitteeID) (*models.Committee, error) {
	c, err := s.committees.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "committee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load committee")
	}
	return c, nil
}

func (s *Service) ListCommitteesByContract(ctx context.Context, contractID domain.ContractID) ([]*models.Committee, error) {
	out, err := s.committees.ListByContract(ctx, contractID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list committees")
	}
	return out, nil
}

// SweepExpiredCommittees deactivates every committee still flagged active
// whose end date is strictly before today. Idempotent: a second run on the
// same day finds nothing to flip. Returns the number deactivated.
func (s *Service) SweepExpiredCommittees(ctx context.Context, today time.Time) (int, error) {
	expired, err := s.committees.ListExpiredActive(ctx, today)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list expired committees")
	}

	now := requestcontext.Now(ctx)
	swept := 0
	for _, c := range expired {
		c.Active = false
		c.UpdatedAt = now
		if err := s.committees.Update(ctx, c); err != nil {
			// Keep going; the next run picks up whatever failed here.
			s.logger.ErrorContext(ctx, "failed to deactivate expired committee",
				"committee_id", c.ID, "error", err)
			continue
		}
		swept++
		s.logger.InfoContext(ctx, "committee deactivated by sweep",
			"committee_id", c.ID, "end_date", c.EndDate)
		if s.metrics != nil {
			s.metrics.CommitteesDeactivated.Inc()
		}
	}
	if s.metrics != nil {
		s.metrics.SweepRuns.Inc()
	}
	s.logger.InfoContext(ctx, "deactivation sweep finished",
		"examined", len(expired), "deactivated", swept, "reference_date", today)
	return swept, nil
}
