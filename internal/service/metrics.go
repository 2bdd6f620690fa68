package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for tool generation and
// invocation. Pass to components that need to record metrics.
type Metrics struct {
	ToolsGenerated     prometheus.Gauge
	PolicyDecisions    *prometheus.CounterVec
	Invocations        *prometheus.CounterVec
	InvocationDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		ToolsGenerated: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Namespace: "caregate",
				Name:      "tools_generated",
				Help:      "Number of tools registered in the last generation pass",
			},
		),
		PolicyDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "caregate",
				Name:      "policy_decisions_total",
				Help:      "Whitelist decisions during generation",
			},
			[]string{"result"}, // result=allow/deny
		),
		Invocations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "caregate",
				Name:      "invocations_total",
				Help:      "Total tool invocations",
			},
			[]string{"tool", "status"}, // status=ok/error
		),
		InvocationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "caregate",
				Name:      "invocation_duration_seconds",
				Help:      "Tool invocation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tool"},
		),
	}
}
