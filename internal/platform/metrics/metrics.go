package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	WorkflowTransitions *prometheus.CounterVec
	WorkflowDenied      *prometheus.CounterVec

	ConsentDecisions *prometheus.CounterVec

	ApprovalsRecorded *prometheus.CounterVec
	ApprovalsBlocked  *prometheus.CounterVec

	ReadinessRuns     prometheus.Counter
	ReadinessLatency  prometheus.Histogram
	ReadinessBlockers prometheus.Gauge

	AuditEventsEmitted prometheus.Counter
	EndpointLatency    *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		WorkflowTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nbms_workflow_transitions_total",
			Help: "Total number of successful workflow transitions by action",
		}, []string{"action"}),
		WorkflowDenied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nbms_workflow_denied_total",
			Help: "Total number of denied workflow transitions by reason",
		}, []string{"reason"}),
		ConsentDecisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nbms_consent_decisions_total",
			Help: "Total number of consent decisions recorded by status",
		}, []string{"status"}),
		ApprovalsRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nbms_instance_approvals_total",
			Help: "Total number of instance export approvals recorded by decision",
		}, []string{"decision"}),
		ApprovalsBlocked: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nbms_instance_approvals_blocked_total",
			Help: "Total number of refused export approval attempts by reason",
		}, []string{"reason"}),
		ReadinessRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nbms_readiness_runs_total",
			Help: "Total number of readiness computations",
		}),
		ReadinessLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "nbms_readiness_latency_seconds",
			Help:    "Latency of readiness computations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ReadinessBlockers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "nbms_readiness_blocking_gaps",
			Help: "Blocking gap count from the most recent readiness computation",
		}),
		AuditEventsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nbms_audit_events_total",
			Help: "Total number of audit events emitted",
		}),
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nbms_endpoint_latency_seconds",
			Help:    "Latency of endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
}
