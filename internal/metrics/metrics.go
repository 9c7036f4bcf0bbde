// Package metrics holds the Prometheus collectors for the settlement workflow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "casesettle"

// Recorder owns a private registry. A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	transitions     *prometheus.CounterVec
	escalations     *prometheus.CounterVec
	mismatches      prometheus.Counter
	repairs         prometheus.Counter
	rpcDuration     *prometheus.HistogramVec
	publishFailures prometheus.Counter
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_transitions_total",
			Help:      "Settlement ledger transitions by action and status.",
		}, []string{"action", "from", "to"}),
		escalations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "escalations_opened_total",
			Help:      "Escalation queue items opened, by source.",
		}, []string{"source"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmation_amount_mismatches_total",
			Help:      "Confirmations whose amount differs from the settlement's final amount.",
		}),
		repairs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reconcile_repairs_total",
			Help:      "Escalated settlements given a missing escalation item by reconciliation.",
		}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure and result code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		publishFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_feed_publish_failures_total",
			Help:      "Change events that could not be published.",
		}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.transitions,
		r.escalations,
		r.mismatches,
		r.repairs,
		r.rpcDuration,
		r.publishFailures,
	)
	return r
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Recorder) Transition(action, from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(action, from, to).Inc()
}

func (r *Recorder) EscalationOpened(source string) {
	if r == nil {
		return
	}
	r.escalations.WithLabelValues(source).Inc()
}

// EscalationOpenedN counts n items opened by source in one step.
func (r *Recorder) EscalationOpenedN(source string, n int) {
	if r == nil || n <= 0 {
		return
	}
	r.escalations.WithLabelValues(source).Add(float64(n))
}

func (r *Recorder) ConfirmationMismatch() {
	if r == nil {
		return
	}
	r.mismatches.Inc()
}

func (r *Recorder) ReconcileRepaired(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.repairs.Add(float64(n))
}

func (r *Recorder) PublishFailed() {
	if r == nil {
		return
	}
	r.publishFailures.Inc()
}

func (r *Recorder) ObserveRPC(procedure, code string, d time.Duration) {
	if r == nil {
		return
	}
	r.rpcDuration.WithLabelValues(procedure, code).Observe(d.Seconds())
}
