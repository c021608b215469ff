// Package httptransport assembles the HTTP surface: middleware pipeline,
// feature handlers, and the operational endpoints.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	oversighthandler "fiscaldesk/internal/oversight/handler"
	oversightservice "fiscaldesk/internal/oversight/service"
	"fiscaldesk/internal/platform/metrics"
	"fiscaldesk/internal/platform/middleware"
	reporthandler "fiscaldesk/internal/report/handler"
	reportservice "fiscaldesk/internal/report/service"
	rosterhandler "fiscaldesk/internal/roster/handler"
	rosterservice "fiscaldesk/internal/roster/service"
	"fiscaldesk/pkg/platform/httputil"
)

// Deps carries everything the router needs. Gatherer may be nil, in which
// case the default Prometheus registry backs /metrics.
type Deps struct {
	Logger    *slog.Logger
	Tokens    middleware.TokenValidator
	Roster    *rosterservice.Service
	Oversight *oversightservice.Service
	Reports   *reportservice.Service
	Metrics   *metrics.Metrics
	Gatherer  prometheus.Gatherer
}

// NewRouter builds the full HTTP handler tree.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gatherer := d.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth(d.Tokens, logger))
		admin := middleware.RequireAdmin(logger)

		rosterhandler.New(d.Roster, logger).Register(api, admin)
		oversighthandler.New(d.Oversight, logger).Register(api, admin)
		reporthandler.New(d.Reports, logger, d.Metrics).Register(api)
	})

	return r
}
