// Package telemetry holds business-level Prometheus metrics.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics counts what the storefront actually sells, as opposed to
// the HTTP-level metrics in the middleware package.
type BusinessMetrics struct {
	// Orders
	OrdersSubmitted   *prometheus.CounterVec
	OrderValue        prometheus.Histogram
	SubmissionsFailed *prometheus.CounterVec
	OrderTransitions  *prometheus.CounterVec

	// Background sweeps
	DanglingOrdersCanceled prometheus.Counter
	SweepFailures          prometheus.Counter
}

// NewBusinessMetrics creates and registers all business metrics.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "porto"
	}

	subsystem := "business"

	return &BusinessMetrics{
		OrdersSubmitted: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "orders_submitted_total",
				Help:      "Orders accepted, by payment method",
			},
			[]string{"payment_method"},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value_cents",
				Help:      "Order totals in cents",
				Buckets:   []float64{500, 1000, 2500, 5000, 10000, 25000, 50000, 100000},
			},
		),
		SubmissionsFailed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_submissions_failed_total",
				Help:      "Order submissions rejected, by reason",
			},
			[]string{"reason"},
		),
		OrderTransitions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_transitions_total",
				Help:      "Operator status transitions, by edge",
			},
			[]string{"from", "to"},
		),
		DanglingOrdersCanceled: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "dangling_orders_canceled_total",
				Help:      "Empty pending orders canceled by the cleanup sweep",
			},
		),
		SweepFailures: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sweep_failures_total",
				Help:      "Cleanup sweep runs that returned an error",
			},
		),
	}
}

// OrderSubmitted records an accepted order.
func (m *BusinessMetrics) OrderSubmitted(paymentMethod string, totalCents int64) {
	m.OrdersSubmitted.WithLabelValues(paymentMethod).Inc()
	m.OrderValue.Observe(float64(totalCents))
}

// OrderSubmissionFailed records a rejected submission.
func (m *BusinessMetrics) OrderSubmissionFailed(reason string) {
	m.SubmissionsFailed.WithLabelValues(reason).Inc()
}

// OrderTransition records one operator status change.
func (m *BusinessMetrics) OrderTransition(from, to string) {
	m.OrderTransitions.WithLabelValues(from, to).Inc()
}

// DanglingOrdersCanceledInc records orders removed by the cleanup sweep.
func (m *BusinessMetrics) DanglingOrdersCanceledInc(count int64) {
	m.DanglingOrdersCanceled.Add(float64(count))
}

// SweepFailureInc records a failed sweep run.
func (m *BusinessMetrics) SweepFailureInc() {
	m.SweepFailures.Inc()
}
