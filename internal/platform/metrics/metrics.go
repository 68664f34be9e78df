package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the planner's prometheus collectors.
type Metrics struct {
	PlansTotal            *prometheus.CounterVec
	LegsPlanned           prometheus.Counter
	LegsFailed            prometheus.Counter
	StraightLineFallbacks prometheus.Counter
	SearchInvocations     prometheus.Counter
	SearchDuration        prometheus.Histogram
	PlanDuration          prometheus.Histogram
	UpstreamErrors        *prometheus.CounterVec
}

// NewMetrics registers the collectors on reg. A nil reg registers them on a
// private registry, which keeps tests and multiple planners independent.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		PlansTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plans_total",
			Help:      "The total number of planning calls by reason code",
		}, []string{"reason"}),
		LegsPlanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "legs_planned_total",
			Help:      "The total number of flight legs planned",
		}),
		LegsFailed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "legs_failed_total",
			Help:      "The total number of legs whose search did not complete",
		}),
		StraightLineFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "straight_line_fallbacks_total",
			Help:      "The total number of legs replaced by a straight line",
		}),
		SearchInvocations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_invocations_total",
			Help:      "The total number of path searches started",
		}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time taken by a single bounded path search",
			Buckets:   prometheus.DefBuckets,
		}),
		PlanDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plan_duration_seconds",
			Help:      "Time taken by a full delivery planning call",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 14),
		}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_errors_total",
			Help:      "The total number of failed reference data fetches",
		}, []string{"resource"}),
	}
}
