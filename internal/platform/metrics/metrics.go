// Package metrics holds the Prometheus instruments the services emit.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ContractsCreated      prometheus.Counter
	MembershipsCreated    prometheus.Counter
	MembershipsTerminated prometheus.Counter
	CommitteesDeactivated prometheus.Counter
	SweepRuns             prometheus.Counter
	DashboardCacheHits    prometheus.Counter
	DashboardCacheMisses  prometheus.Counter
	ExportsGenerated      *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer. Passing a
// fresh prometheus.NewRegistry keeps parallel test instances from colliding.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ContractsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_contracts_created_total",
			Help: "Total number of contracts registered",
		}),
		MembershipsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_memberships_created_total",
			Help: "Total number of committee memberships registered",
		}),
		MembershipsTerminated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_memberships_terminated_total",
			Help: "Total number of memberships terminated early",
		}),
		CommitteesDeactivated: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_committees_deactivated_total",
			Help: "Total number of committees deactivated by the expiry sweep",
		}),
		SweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_sweep_runs_total",
			Help: "Total number of deactivation sweep executions",
		}),
		DashboardCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_dashboard_cache_hits_total",
			Help: "Dashboard snapshots served from cache",
		}),
		DashboardCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "fiscaldesk_dashboard_cache_misses_total",
			Help: "Dashboard snapshots recomputed from storage",
		}),
		ExportsGenerated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fiscaldesk_exports_generated_total",
			Help: "CSV exports generated, by report",
		}, []string{"report"}),
	}
}
