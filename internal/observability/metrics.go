package observability

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for model fallback runs.
type Metrics struct {
	registry      *prometheus.Registry
	ModelUsage    *prometheus.CounterVec
	ModelFailures *prometheus.CounterVec
	Invocations   *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
}

// NewMetrics constructs a metrics registry with fallback collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	modelUsage := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readmeart_model_usage_total",
		Help: "Successful model calls by role",
	}, []string{"role", "model"})

	modelFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readmeart_model_failures_total",
		Help: "Failed model calls by role, model and failure kind",
	}, []string{"role", "model", "kind"})

	invocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "readmeart_invocations_total",
		Help: "Fallback invocations by role and outcome",
	}, []string{"role", "outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "readmeart_invocation_duration_seconds",
		Help:    "Fallback invocation duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"role"})

	reg.MustRegister(modelUsage, modelFailures, invocations, durs)

	return &Metrics{
		registry:      reg,
		ModelUsage:    modelUsage,
		ModelFailures: modelFailures,
		Invocations:   invocations,
		Duration:      durs,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordModelUsage increments usage counter for a role/model selection.
func (m *Metrics) RecordModelUsage(role, model string) {
	if m == nil {
		return
	}
	m.ModelUsage.WithLabelValues(orUnknown(role), orUnknown(model)).Inc()
}

// RecordModelFailure increments failure counter for a role/model/kind.
func (m *Metrics) RecordModelFailure(role, model, kind string) {
	if m == nil {
		return
	}
	m.ModelFailures.WithLabelValues(orUnknown(role), orUnknown(model), orUnknown(kind)).Inc()
}

// RecordInvocation records the outcome and duration of one fallback run.
func (m *Metrics) RecordInvocation(role, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	role = orUnknown(role)
	m.Invocations.WithLabelValues(role, orUnknown(outcome)).Inc()
	m.Duration.WithLabelValues(role).Observe(elapsed.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
// A CLI run is too short-lived to be scraped.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
