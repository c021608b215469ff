// Package service orchestrates contracts, committees, and memberships:
// contract registration with its automatic inspection-committee shell, the
// get-or-create rule for committee kinds, the no-members activation guard,
// membership designation defaults, and the scheduled deactivation sweep.
package service

import (
	"errors"
	"log/slog"

	"fiscaldesk/internal/platform/metrics"
	"fiscaldesk/internal/store"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/sentinel"
)

// Service coordinates the oversight aggregates. Reference stores are needed
// read-only for referential checks and the rank snapshot.
type Service struct {
	contracts   store.ContractStore
	committees  store.CommitteeStore
	memberships store.MembershipStore
	agents      store.AgentStore
	roles       store.RoleStore
	companies   store.CompanyStore
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service over a storage facade.
func New(st *store.Storage, opts ...Option) *Service {
	s := &Service{
		contracts:   st.Contracts,
		committees:  st.Committees,
		memberships: st.Memberships,
		agents:      st.Agents,
		roles:       st.Roles,
		companies:   st.Companies,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// translateSave maps store sentinels from creates and updates.
func translateSave(err error, entity string) error {
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
