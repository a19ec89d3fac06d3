package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine metrics exposed on /metrics.
var (
	PaymentsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_engine_payments_created_total",
		Help: "The total number of payments accepted by the engine",
	})

	PaymentOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_engine_payment_outcomes_total",
		Help: "Terminal payment outcomes by status and failure stage",
	}, []string{"status", "stage"})

	ExecutionAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_engine_execution_attempts_total",
		Help: "Settlement attempts by result",
	}, []string{"result"})

	AttemptDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "payment_engine_attempt_duration_seconds",
		Help:    "Duration of individual settlement attempts",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	ActivePayments = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "payment_engine_active_payments",
		Help: "Payments currently tracked by the registry",
	})

	RetriesExecuted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_engine_retries_executed_total",
		Help: "Automatic in-loop retries performed",
	})

	ManualRetries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_engine_manual_retries_total",
		Help: "User-initiated retries by result",
	}, []string{"result"})
)
