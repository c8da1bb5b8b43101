package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CheckoutMetrics records commit outcomes for the order engine.
type CheckoutMetrics struct {
	duration  *prometheus.HistogramVec
	committed prometheus.Counter
	failed    *prometheus.CounterVec
}

// NewCheckoutMetrics registers the checkout metrics on the provided registerer.
func NewCheckoutMetrics(reg prometheus.Registerer) *CheckoutMetrics {
	if reg == nil {
		return &CheckoutMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "checkout_commit_duration_seconds",
		Help:    "Duration of order commit transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	committed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "checkout_orders_committed_total",
		Help: "Orders committed successfully.",
	})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_commits_failed_total",
		Help: "Order commits rolled back, by failure reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, committed, failed)
	return &CheckoutMetrics{
		duration:  duration,
		committed: committed,
		failed:    failed,
	}
}

// ObserveCommit records the duration of one commit attempt.
func (c *CheckoutMetrics) ObserveCommit(outcome string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(outcome)).Observe(duration.Seconds())
}

// IncCommitted increments the committed-orders counter.
func (c *CheckoutMetrics) IncCommitted() {
	if c == nil || c.committed == nil {
		return
	}
	c.committed.Inc()
}

// IncFailed increments the failure counter for the given reason.
func (c *CheckoutMetrics) IncFailed(reason string) {
	if c == nil || c.failed == nil {
		return
	}
	c.failed.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
