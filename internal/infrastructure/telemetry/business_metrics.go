package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "invoicer"

// BusinessMetrics holds the Prometheus collectors for invoicing activity.
// It owns its registry so tests can create as many as they like.
type BusinessMetrics struct {
	registry *prometheus.Registry

	invoicesCreated    *prometheus.CounterVec
	invoicedAmount     prometheus.Counter
	identifierAttempts *prometheus.CounterVec
	identifierExhaust  *prometheus.CounterVec
	exports            *prometheus.CounterVec
	exportDuration     *prometheus.HistogramVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewBusinessMetrics creates and registers all collectors
func NewBusinessMetrics() *BusinessMetrics {
	reg := prometheus.NewRegistry()
	m := &BusinessMetrics{
		registry: reg,
		invoicesCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_created_total",
			Help:      "Invoices created, by settlement status at creation.",
		}, []string{"status"}),
		invoicedAmount: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoiced_amount_total",
			Help:      "Sum of grand totals of created invoices.",
		}),
		identifierAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifier_attempts_total",
			Help:      "Identifier candidates checked, by kind and outcome.",
		}, []string{"kind", "outcome"}),
		identifierExhaust: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifier_exhausted_total",
			Help:      "Identifier generations that ran out of attempts.",
		}, []string{"kind"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_exports_total",
			Help:      "Invoice document renders, by renderer and outcome.",
		}, []string{"renderer", "outcome"}),
		exportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_export_duration_seconds",
			Help:      "Time spent rendering invoice documents.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"renderer"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.invoicesCreated,
		m.invoicedAmount,
		m.identifierAttempts,
		m.identifierExhaust,
		m.exports,
		m.exportDuration,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format
func (m *BusinessMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *BusinessMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// InvoiceCreated counts a new invoice and adds its grand total
func (m *BusinessMetrics) InvoiceCreated(status string, total decimal.Decimal) {
	m.invoicesCreated.WithLabelValues(status).Inc()
	if total.IsPositive() {
		m.invoicedAmount.Add(total.InexactFloat64())
	}
}

// InvoiceExported records a render attempt
func (m *BusinessMetrics) InvoiceExported(renderer string, elapsed time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.exports.WithLabelValues(renderer, outcome).Inc()
	m.exportDuration.WithLabelValues(renderer).Observe(elapsed.Seconds())
}

// Attempt implements numbering.Observer
func (m *BusinessMetrics) Attempt(kind string, collided bool) {
	outcome := "free"
	if collided {
		outcome = "collision"
	}
	m.identifierAttempts.WithLabelValues(kind, outcome).Inc()
}

// Exhausted implements numbering.Observer
func (m *BusinessMetrics) Exhausted(kind string) {
	m.identifierExhaust.WithLabelValues(kind).Inc()
}

// ObserveHTTP records one served request
func (m *BusinessMetrics) ObserveHTTP(method, route string, code int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
