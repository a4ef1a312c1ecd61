/*
Package metrics defines the Prometheus collectors of the order service.

Every collector lives on a Metrics value registered against a caller supplied registerer,
so tests can use a private registry. A nil *Metrics is valid and records nothing.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels
const (
	OutcomeFound      = "found"
	OutcomeUnknown    = "unknown"
	OutcomeFailed     = "failed"
	OutcomeRejected   = "rejected"
	OutcomeSlow       = "slow"
	OutcomePublished  = "published"
	OutcomeProcessed  = "processed"
	OutcomeIgnored    = "ignored"
	OutcomeDeadLetter = "dead_lettered"
	OutcomeMalformed  = "malformed"
	OutcomeLoggedOnly = "logged"
)

type Metrics struct {
	Requests         *prometheus.CounterVec
	LatencyMS        *prometheus.HistogramVec
	BreakerState     *prometheus.GaugeVec
	DirectoryLookups *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	PaymentEvents    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "method", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open.",
		}, []string{"breaker"}),
		DirectoryLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "user_directory_lookups_total",
			Help:      "User directory lookups by outcome.",
		}, []string{"outcome"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_created_notifications_total",
			Help:      "Order created notifications by outcome.",
		}, []string{"outcome"}),
		PaymentEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_events_total",
			Help:      "Consumed payment events by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Requests, m.LatencyMS, m.BreakerState, m.DirectoryLookups, m.Notifications, m.PaymentEvents)
	return m
}

func (m *Metrics) ObserveRequest(handler, method, status string, ms float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(handler, method, status).Inc()
	m.LatencyMS.WithLabelValues(handler).Observe(ms)
}

func (m *Metrics) SetBreakerState(name string, state float64) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(state)
}

func (m *Metrics) DirectoryLookup(outcome string) {
	if m == nil {
		return
	}
	m.DirectoryLookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) Notification(outcome string) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PaymentEvent(outcome string) {
	if m == nil {
		return
	}
	m.PaymentEvents.WithLabelValues(outcome).Inc()
}

// Handler exposes the collectors gathered by g
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
