// Package handler exposes the personnel reference data over HTTP. Handlers
// stay thin: parse, delegate to the roster service, translate the result.
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fiscaldesk/internal/roster/models"
	"fiscaldesk/internal/roster/service"
	"fiscaldesk/pkg/domain"
	"fiscaldesk/pkg/platform/httputil"
)

// Handler wires reference-data endpoints to the roster service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs a roster handler.
func New(service *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts the reference CRUD. Reads are open to any authenticated
// caller; mutations go through the admin guard.
func (h *Handler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/ranks", h.ListRanks)
	r.Get("/ranks/{rankID}", h.GetRank)
	r.With(admin).Post("/ranks", h.CreateRank)
	r.With(admin).Put("/ranks/{rankID}", h.UpdateRank)
	r.With(admin).Delete("/ranks/{rankID}", h.DeleteRank)

	r.Get("/agents", h.ListAgents)
	r.Get("/agents/{agentID}", h.GetAgent)
	r.With(admin).Post("/agents", h.CreateAgent)
	r.With(admin).Put("/agents/{agentID}", h.UpdateAgent)
	r.With(admin).Delete("/agents/{agentID}", h.DeleteAgent)

	r.Get("/companies", h.ListCompanies)
	r.Get("/companies/{companyID}", h.GetCompany)
	r.With(admin).Post("/companies", h.CreateCompany)
	r.With(admin).Put("/companies/{companyID}", h.UpdateCompany)
	r.With(admin).Delete("/companies/{companyID}", h.DeleteCompany)

	r.Get("/roles", h.ListRoles)
	r.Get("/roles/{roleID}", h.GetRole)
	r.With(admin).Post("/roles", h.CreateRole)
	r.With(admin).Put("/roles/{roleID}", h.UpdateRole)
	r.With(admin).Delete("/roles/{roleID}", h.DeleteRole)
}

func (h *Handler) ListRanks(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListRanks(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRank(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRankID(chi.URLParam(r, "rankID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rank, err := h.service.GetRank(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rank)
}

func (h *Handler) CreateRank(w http.ResponseWriter, r *http.Request) {
	rank, ok := httputil.Decode[models.Rank](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateRank(r.Context(), &rank); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, rank)
}

func (h *Handler) UpdateRank(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRankID(chi.URLParam(r, "rankID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	rank, err := h.service.GetRank(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !httputil.DecodeInto(w, r, h.logger, rank) {
		return
	}
	rank.ID = id
	if err := h.service.UpdateRank(r.Context(), rank); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, rank)
}

func (h *Handler) DeleteRank(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRankID(chi.URLParam(r, "rankID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteRank(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListAgents(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAgentID(chi.URLParam(r, "agentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	agent, err := h.service.GetAgent(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, agent)
}

func (h *Handler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	agent, ok := httputil.Decode[models.Agent](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateAgent(r.Context(), &agent); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, agent)
}

func (h *Handler) UpdateAgent(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAgentID(chi.URLParam(r, "agentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	agent, err := h.service.GetAgent(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !httputil.DecodeInto(w, r, h.logger, agent) {
		return
	}
	agent.ID = id
	if err := h.service.UpdateAgent(r.Context(), agent); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, agent)
}

func (h *Handler) DeleteAgent(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseAgentID(chi.URLParam(r, "agentID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteAgent(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListCompanies(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListCompanies(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

func (h *Handler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	company, ok := httputil.Decode[models.Company](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateCompany(r.Context(), &company); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, company)
}

func (h *Handler) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	company, err := h.service.GetCompany(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !httputil.DecodeInto(w, r, h.logger, company) {
		return
	}
	company.ID = id
	if err := h.service.UpdateCompany(r.Context(), company); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, company)
}

func (h *Handler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCompanyID(chi.URLParam(r, "companyID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteCompany(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListRoles(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListRoles(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) CreateRole(w http.ResponseWriter, r *http.Request) {
	role, ok := httputil.Decode[models.Role](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateRole(r.Context(), &role); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	role, err := h.service.GetRole(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !httputil.DecodeInto(w, r, h.logger, role) {
		return
	}
	role.ID = id
	if err := h.service.UpdateRole(r.Context(), role); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, role)
}

func (h *Handler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseRoleID(chi.URLParam(r, "roleID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
