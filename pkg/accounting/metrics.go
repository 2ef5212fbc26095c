package accounting

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus collectors for the accounting core.
//
// Collectors are registered against an explicit Registerer so tests and
// embedders control the registry. Labels carry accountant names only,
// never per-individual data.
type Metrics struct {
	spends           *prometheus.CounterVec
	rejections       *prometheus.CounterVec
	epsilonSpent     *prometheus.GaugeVec
	deltaSpent       *prometheus.GaugeVec
	epsilonRemaining *prometheus.GaugeVec
	ledgerRecords    *prometheus.GaugeVec
	opDuration       *prometheus.HistogramVec
}

// NewMetrics creates Prometheus collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		spends: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callisto_accounting_spends_total",
				Help: "Total number of spend attempts by result",
			},
			[]string{"accountant", "result"},
		),

		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callisto_accounting_rejections_total",
				Help: "Total number of spends rejected over budget",
			},
			[]string{"accountant"},
		),

		epsilonSpent: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "callisto_accounting_epsilon_spent",
				Help: "Composed epsilon spent against the budget",
			},
			[]string{"accountant"},
		),

		deltaSpent: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "callisto_accounting_delta_spent",
				Help: "Composed delta spent against the budget",
			},
			[]string{"accountant"},
		),

		epsilonRemaining: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "callisto_accounting_epsilon_remaining",
				Help: "Per-query epsilon affordable for one further query",
			},
			[]string{"accountant"},
		),

		ledgerRecords: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "callisto_accounting_ledger_records",
				Help: "Number of committed spend records",
			},
			[]string{"accountant"},
		),

		opDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callisto_accounting_operation_duration_seconds",
				Help:    "Duration of accounting operations in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
			[]string{"operation"},
		),
	}
}

// RecordSpend records a spend attempt and its outcome.
func (m *Metrics) RecordSpend(accountant string, committed bool) {
	result := "committed"
	if !committed {
		result = "rejected"
		m.rejections.WithLabelValues(accountant).Inc()
	}
	m.spends.WithLabelValues(accountant, result).Inc()
}

// UpdateUsage updates the spent/remaining gauges for an accountant.
func (m *Metrics) UpdateUsage(accountant string, total Cost, remainingEpsilon float64, records int) {
	m.epsilonSpent.WithLabelValues(accountant).Set(total.Epsilon)
	m.deltaSpent.WithLabelValues(accountant).Set(total.Delta)
	m.epsilonRemaining.WithLabelValues(accountant).Set(remainingEpsilon)
	m.ledgerRecords.WithLabelValues(accountant).Set(float64(records))
}

// ObserveDuration records the duration of an accounting operation.
func (m *Metrics) ObserveDuration(operation string, seconds float64) {
	m.opDuration.WithLabelValues(operation).Observe(seconds)
}
