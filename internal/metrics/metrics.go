// Package metrics exposes Prometheus collectors for the HTTP server and the
// report worker.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "finanzas"

// RouteUnmatched labels requests no route pattern matched.
const RouteUnmatched = "unmatched"

// Collector groups the application metrics.
type Collector struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	reportsGenerated *prometheus.CounterVec
	reportDuration   prometheus.Histogram
	rateLimited      prometheus.Counter
}

// New creates a collector whose metrics are prefixed with namespace.
func New(namespace string) *Collector {
	return &Collector{
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		reportsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reports_generated_total",
				Help:      "Total number of monthly report generations by result",
			},
			[]string{"result"},
		),
		reportDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "report_generation_duration_seconds",
				Help:      "Monthly report generation duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_rate_limited_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.httpRequests,
		c.httpDuration,
		c.reportsGenerated,
		c.reportDuration,
		c.rateLimited,
	}
}

// Register registers all metrics with the given registry.
func (c *Collector) Register(registry prometheus.Registerer) error {
	for _, collector := range c.collectors() {
		if err := registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range c.collectors() {
		collector.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range c.collectors() {
		collector.Collect(ch)
	}
}

// NewRegistry returns a registry holding c plus the Go runtime and process
// collectors.
func NewRegistry(c *Collector) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	if err := registry.Register(collectors.NewGoCollector()); err != nil {
		return nil, err
	}
	if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, err
	}
	if err := c.Register(registry); err != nil {
		return nil, err
	}
	return registry, nil
}

// Handler serves the registry in the Prometheus exposition format.
func Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request. An empty route is labelled
// RouteUnmatched.
func (c *Collector) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = RouteUnmatched
	}
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRateLimited counts a rejected request.
func (c *Collector) RecordRateLimited() {
	c.rateLimited.Inc()
}

// RecordReport records a report generation attempt.
func (c *Collector) RecordReport(success bool, duration time.Duration) {
	result := "success"
	if !success {
		result = "error"
	}
	c.reportsGenerated.WithLabelValues(result).Inc()
	c.reportDuration.Observe(duration.Seconds())
}
