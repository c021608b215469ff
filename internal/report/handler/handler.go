// Package handler exposes the dashboard, the period report, and the CSV
// exports. Export handlers pull enriched rows from the report service and
// hand them to the export writers; no predicate logic lives here.
package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"fiscaldesk/internal/platform/metrics"
	"fiscaldesk/internal/report/export"
	"fiscaldesk/internal/report/service"
	dErrors "fiscaldesk/pkg/domain-errors"
	"fiscaldesk/pkg/platform/httputil"
	"fiscaldesk/pkg/requestcontext"
)

const dateLayout = "2006-01-02"

// Handler wires report endpoints to the report service.
type Handler struct {
	service *service.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// New constructs a report handler. Metrics may be nil.
func New(service *service.Service, logger *slog.Logger, metrics *metrics.Metrics) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{service: service, logger: logger, metrics: metrics}
}

// Register mounts the report endpoints; all of them are reads, open to any
// authenticated caller.
func (h *Handler) Register(r chi.Router) {
	r.Get("/reports/dashboard", h.Dashboard)
	r.Get("/reports/period", h.Period)
	r.Get("/exports/expirations.csv", h.ExportExpirations)
	r.Get("/exports/audit.csv", h.ExportAudit)
	r.Get("/exports/qualification.csv", h.ExportQualification)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Dashboard(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, d)
}

func (h *Handler) Period(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "'from' must be a YYYY-MM-DD date"))
		return
	}
	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "'to' must be a YYYY-MM-DD date"))
		return
	}
	report, err := h.service.Period(r.Context(), from, to)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ExportExpirations(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ExpirationEntries(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeCSV(w, r, "expirations", func() error {
		return export.Expirations(w, entries)
	})
}

func (h *Handler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	details, err := h.service.AuditDetails(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	uncovered, err := h.service.Uncovered(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeCSV(w, r, "audit", func() error {
		return export.AuditRoster(w, details, uncovered)
	})
}

func (h *Handler) ExportQualification(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.QualificationEntries(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeCSV(w, r, "qualification", func() error {
		return export.Qualification(w, entries)
	})
}

// writeCSV sets the download headers and runs the writer. Once the writer
// starts the status line is out, so a late failure can only be logged.
func (h *Handler) writeCSV(w http.ResponseWriter, r *http.Request, report string, write func() error) {
	ctx := r.Context()
	filename := fmt.Sprintf("%s-%s.csv", report, requestcontext.Today(ctx).Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := write(); err != nil {
		h.logger.ErrorContext(ctx, "csv export failed",
			"report", report, "request_id", requestcontext.RequestID(ctx), "error", err)
		return
	}
	if h.metrics != nil {
		h.metrics.ExportsGenerated.WithLabelValues(report).Inc()
	}
	h.logger.InfoContext(ctx, "csv export generated",
		"report", report, "request_id", requestcontext.RequestID(ctx))
}
