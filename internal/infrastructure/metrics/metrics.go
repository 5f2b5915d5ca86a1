package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PoolMetrics carries all Prometheus collectors for the escrow pool.
type PoolMetrics struct {
	// Ledger entries
	TransactionsTotal       prometheus.CounterVec
	TransactionAmountTotal  prometheus.CounterVec
	FrozenAmountGauge       prometheus.GaugeVec
	LedgerContentionTotal   prometheus.CounterVec
	LedgerIntegrityFailures prometheus.CounterVec

	// Disputes
	DisputesOpenedTotal   prometheus.CounterVec
	DisputesResolvedTotal prometheus.CounterVec
	ActiveDisputesGauge   prometheus.Gauge

	// Gateway calls
	GatewayErrorsTotal  prometheus.CounterVec
	GatewayCallDuration prometheus.HistogramVec

	// Platform revenue
	PlatformFeeTotal prometheus.CounterVec
}

func NewPoolMetrics() *PoolMetrics {
	return &PoolMetrics{
		TransactionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_transactions_total",
				Help: "Total number of ledger entries recorded",
			},
			[]string{"type", "status", "currency"},
		),

		TransactionAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_transaction_amount_total",
				Help: "Total amount of ledger entries in currency units",
			},
			[]string{"type", "currency"},
		),

		FrozenAmountGauge: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pool_frozen_amount",
				Help: "Currently frozen amount in currency units",
			},
			[]string{"currency"},
		),

		LedgerContentionTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_ledger_contention_total",
				Help: "Number of writes that gave up after lock retries",
			},
			[]string{"operation"},
		),

		LedgerIntegrityFailures: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_ledger_integrity_failures_total",
				Help: "Number of running-balance mismatches detected",
			},
			[]string{"contract_id"},
		),

		DisputesOpenedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_disputes_opened_total",
				Help: "Total number of disputes filed",
			},
			[]string{"currency"},
		),

		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_disputes_resolved_total",
				Help: "Total number of disputes resolved by resolution type",
			},
			[]string{"resolution_type"},
		),

		ActiveDisputesGauge: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "pool_active_disputes",
				Help: "Current number of open or under-review disputes",
			},
		),

		GatewayErrorsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_gateway_errors_total",
				Help: "Payment gateway call failures",
			},
			[]string{"operation"},
		),

		GatewayCallDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pool_gateway_call_duration_seconds",
				Help:    "Payment gateway call latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
			[]string{"operation"},
		),

		PlatformFeeTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pool_platform_fee_total",
				Help: "Total platform fees collected in currency units",
			},
			[]string{"currency"},
		),
	}
}

func (m *PoolMetrics) RecordTransaction(txType, status, currency string, amount float64) {
	m.TransactionsTotal.WithLabelValues(txType, status, currency).Inc()
	m.TransactionAmountTotal.WithLabelValues(txType, currency).Add(amount)
}

func (m *PoolMetrics) RecordLedgerContention(operation string) {
	m.LedgerContentionTotal.WithLabelValues(operation).Inc()
}

func (m *PoolMetrics) RecordIntegrityFailure(contractID string) {
	m.LedgerIntegrityFailures.WithLabelValues(contractID).Inc()
}

func (m *PoolMetrics) RecordDisputeOpened(currency string) {
	m.DisputesOpenedTotal.WithLabelValues(currency).Inc()
	m.ActiveDisputesGauge.Inc()
}

func (m *PoolMetrics) RecordDisputeResolved(resolutionType string) {
	m.DisputesResolvedTotal.WithLabelValues(resolutionType).Inc()
	m.ActiveDisputesGauge.Dec()
}

func (m *PoolMetrics) RecordGatewayCall(operation string, durationSeconds float64, err error) {
	m.GatewayCallDuration.WithLabelValues(operation).Observe(durationSeconds)
	if err != nil {
		m.GatewayErrorsTotal.WithLabelValues(operation).Inc()
	}
}

func (m *PoolMetrics) RecordPlatformFee(currency string, amount float64) {
	m.PlatformFeeTotal.WithLabelValues(currency).Add(amount)
}

func (m *PoolMetrics) SetFrozenAmount(currency string, amount float64) {
	m.FrozenAmountGauge.WithLabelValues(currency).Set(amount)
}
