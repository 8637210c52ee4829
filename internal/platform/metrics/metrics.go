package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the exeat lifecycle. All methods are
// nil-safe so tests can pass a nil *Metrics without stubbing.
type Metrics struct {
	ExeatsCreated prometheus.Counter

	// Approval decisions by stage ("parent", "dean") and outcome
	// ("approved", "denied", "rejected_transition").
	Decisions *prometheus.CounterVec

	// Gate scans by declared type and result.
	Scans *prometheus.CounterVec

	ScanLatency prometheus.Histogram

	// Overdue sweep runs and per-run latency.
	SweepRuns     prometheus.Counter
	SweepOverdue  prometheus.Counter
	SweepDuration prometheus.Histogram

	// Penalties created by cause. Idempotent no-ops are not counted.
	Penalties *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ExeatsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unipass_exeats_created_total",
			Help: "Total exeat requests created",
		}),
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unipass_exeat_decisions_total",
			Help: "Approval decisions by stage and outcome",
		}, []string{"stage", "outcome"}),
		Scans: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unipass_gate_scans_total",
			Help: "Gate scans by declared activity type and result",
		}, []string{"type", "result"}),
		ScanLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "unipass_gate_scan_duration_seconds",
			Help:    "Duration of gate scan verification",
			Buckets: []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		SweepRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unipass_overdue_sweep_runs_total",
			Help: "Total overdue sweep passes",
		}),
		SweepOverdue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "unipass_overdue_sweep_flipped_total",
			Help: "Exeats transitioned to overdue by the sweep",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "unipass_overdue_sweep_duration_seconds",
			Help:    "Duration of one overdue sweep pass",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Penalties: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "unipass_penalties_created_total",
			Help: "Penalties created by cause",
		}, []string{"cause"}),
	}
}

func (m *Metrics) IncExeatsCreated() {
	if m != nil {
		m.ExeatsCreated.Inc()
	}
}

func (m *Metrics) IncDecision(stage, outcome string) {
	if m != nil {
		m.Decisions.WithLabelValues(stage, outcome).Inc()
	}
}

func (m *Metrics) IncScan(activityType, result string) {
	if m != nil {
		m.Scans.WithLabelValues(activityType, result).Inc()
	}
}

func (m *Metrics) ObserveScanLatency(d time.Duration) {
	if m != nil {
		m.ScanLatency.Observe(d.Seconds())
	}
}

func (m *Metrics) IncSweepRun() {
	if m != nil {
		m.SweepRuns.Inc()
	}
}

func (m *Metrics) AddSweepOverdue(n int) {
	if m != nil {
		m.SweepOverdue.Add(float64(n))
	}
}

func (m *Metrics) ObserveSweepDuration(d time.Duration) {
	if m != nil {
		m.SweepDuration.Observe(d.Seconds())
	}
}

func (m *Metrics) IncPenalty(cause string) {
	if m != nil {
		m.Penalties.WithLabelValues(cause).Inc()
	}
}
