package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the signal engine.
type Metrics struct {
	CyclesTotal      *prometheus.CounterVec // labels: status=ok|failed|skipped
	CycleDuration    prometheus.Histogram
	SignalsGenerated prometheus.Counter
	GateRejections   *prometheus.CounterVec // labels: rule
	FetchFailures    prometheus.Counter
	StrategyPauses   prometheus.Counter
}

// New registers and returns all Prometheus metrics.
func New() *Metrics {
	m := &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalwired_cycles_total",
			Help: "Total generation cycles by terminal status",
		}, []string{"status"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "signalwired_cycle_duration_seconds",
			Help:    "Wall-clock duration of a full generation cycle",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
		}),
		SignalsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_signals_generated_total",
			Help: "Total signals accepted by the risk gate and persisted",
		}),
		GateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalwired_gate_rejections_total",
			Help: "Total candidates rejected by the risk gate, per rule",
		}, []string{"rule"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_fetch_failures_total",
			Help: "Total per-asset market data fetch failures",
		}),
		StrategyPauses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_strategy_pauses_total",
			Help: "Total strategy circuit breaker trips",
		}),
	}

	prometheus.MustRegister(
		m.CyclesTotal,
		m.CycleDuration,
		m.SignalsGenerated,
		m.GateRejections,
		m.FetchFailures,
		m.StrategyPauses,
	)

	return m
}

// NewUnregistered returns metrics backed by a private registry, for tests.
func NewUnregistered() *Metrics {
	return &Metrics{
		CyclesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalwired_cycles_total",
		}, []string{"status"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name: "signalwired_cycle_duration_seconds",
		}),
		SignalsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_signals_generated_total",
		}),
		GateRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signalwired_gate_rejections_total",
		}, []string{"rule"}),
		FetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_fetch_failures_total",
		}),
		StrategyPauses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "signalwired_strategy_pauses_total",
		}),
	}
}
