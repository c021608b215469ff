// Package handler exposes contracts, committees, and memberships over HTTP.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fiscaldesk/internal/oversight/models"
	"fiscaldesk/internal/oversight/service"
	"fiscaldesk/pkg/domain"
	"fiscaldesk/pkg/platform/httputil"
	"fiscaldesk/pkg/requestcontext"
)

// Handler wires oversight endpoints to the oversight service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
}

// New constructs an oversight handler.
func New(service *service.Service, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger}
}

// Register mounts contract, committee, and membership endpoints. Reads are
// open to any authenticated caller; mutations go through the admin guard.
func (h *Handler) Register(r chi.Router, admin func(http.Handler) http.Handler) {
	r.Get("/contracts", h.ListContracts)
	r.Get("/contracts/{contractID}", h.GetContract)
	r.Get("/contracts/{contractID}/committees", h.ListContractCommittees)
	r.With(admin).Post("/contracts", h.CreateContract)
	r.With(admin).Put("/contracts/{contractID}", h.UpdateContract)

	r.Get("/committees/{committeeID}", h.GetCommittee)
	r.Get("/committees/{committeeID}/members", h.ListCommitteeMembers)
	r.With(admin).Post("/committees", h.GetOrCreateCommittee)
	r.With(admin).Put("/committees/{committeeID}", h.UpdateCommittee)
	r.With(admin).Post("/committees/{committeeID}/members/prefill", h.PrefillMembership)
	r.With(admin).Post("/committees/sweep-expired", h.SweepExpired)

	r.Get("/members/{membershipID}", h.GetMembership)
	r.With(admin).Post("/members", h.CreateMembership)
	r.With(admin).Put("/members/{membershipID}", h.UpdateMembership)
	r.With(admin).Post("/members/{membershipID}/terminate", h.TerminateMembership)
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.ListContracts(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseContractID(chi.URLParam(r, "contractID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetContract(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	c, ok := httputil.Decode[models.Contract](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateContract(r.Context(), &c); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateContract(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseContractID(chi.URLParam(r, "contractID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetContract(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	createdAt := c.CreatedAt
	if !httputil.DecodeInto(w, r, h.logger, c) {
		return
	}
	c.ID = id
	c.CreatedAt = createdAt
	if err := h.service.UpdateContract(r.Context(), c); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListContractCommittees(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseContractID(chi.URLParam(r, "contractID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.service.ListCommitteesByContract(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

type committeeRequest struct {
	ContractID domain.ContractID    `json:"contract_id"`
	Kind       domain.CommitteeKind `json:"kind"`
}

// GetOrCreateCommittee resolves a contract's committee of the requested
// kind, creating the inactive shell when it does not exist yet. Idempotent,
// so it answers 200 either way.
func (h *Handler) GetOrCreateCommittee(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.Decode[committeeRequest](w, r, h.logger)
	if !ok {
		return
	}
	c, err := h.service.GetOrCreateCommittee(r.Context(), req.ContractID, req.Kind)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) GetCommittee(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCommitteeID(chi.URLParam(r, "committeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetCommittee(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCommittee(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCommitteeID(chi.URLParam(r, "committeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.service.GetCommittee(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	// The committee's identity and owning contract never change over HTTP.
	contractID, kind, createdAt := c.ContractID, c.Kind, c.CreatedAt
	if !httputil.DecodeInto(w, r, h.logger, c) {
		return
	}
	c.ID = id
	c.ContractID = contractID
	c.Kind = kind
	c.CreatedAt = createdAt
	if err := h.service.UpdateCommittee(r.Context(), c); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) ListCommitteeMembers(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCommitteeID(chi.URLParam(r, "committeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out, err := h.service.ListMembershipsByCommittee(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// PrefillMembership answers a draft designation carrying the committee's
// paperwork and validity window. Nothing is persisted.
func (h *Handler) PrefillMembership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCommitteeID(chi.URLParam(r, "committeeID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	draft, err := h.service.PrefillMembership(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) SweepExpired(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	swept, err := h.service.SweepExpiredCommittees(ctx, requestcontext.Today(ctx))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"deactivated": swept})
}

func (h *Handler) CreateMembership(w http.ResponseWriter, r *http.Request) {
	m, ok := httputil.Decode[models.Membership](w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.CreateMembership(r.Context(), &m); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) GetMembership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseMembershipID(chi.URLParam(r, "membershipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.GetMembership(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

// UpdateMembership merges edits onto the stored designation. Sending
// "scheduled_end": null clears the end deliberately; omitting the field
// leaves it alone.
func (h *Handler) UpdateMembership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseMembershipID(chi.URLParam(r, "membershipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	m, err := h.service.GetMembership(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !httputil.DecodeInto(w, r, h.logger, m) {
		return
	}
	m.ID = id
	if err := h.service.UpdateMembership(r.Context(), m); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}

type terminateRequest struct {
	TerminatedOn time.Time `json:"terminated_on"`
	Reason       string    `json:"reason"`
	Document     string    `json:"document"`
}

func (h *Handler) TerminateMembership(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseMembershipID(chi.URLParam(r, "membershipID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[terminateRequest](w, r, h.logger)
	if !ok {
		return
	}
	m, err := h.service.TerminateMembership(r.Context(), id, req.TerminatedOn, req.Reason, req.Document)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, m)
}
