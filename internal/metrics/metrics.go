// Package metrics provides Prometheus metrics for the dashboard server
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fpl-go-dashboard/internal/models"
)

const (
	// Backend calls range from a few ms (cached) to tens of seconds (ILP solve)
	bucketStart10ms = 0.01
	bucketFactor2   = 2.0
	bucketCount12   = 12
)

// DashboardMetrics contains the dashboard's Prometheus metrics
type DashboardMetrics struct {
	registry *prometheus.Registry

	backendRequestsTotal   *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec

	feedReadsTotal *prometheus.CounterVec

	pageLoadsTotal   *prometheus.CounterVec
	pageLoadDuration *prometheus.HistogramVec
}

// New creates a registry with the Go and process collectors plus the
// dashboard metrics.
func New() (*DashboardMetrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewDashboardMetrics(registry)
}

// NewDashboardMetrics creates and registers the dashboard metrics
func NewDashboardMetrics(registry *prometheus.Registry) (*DashboardMetrics, error) {
	m := &DashboardMetrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *DashboardMetrics) initMetrics() {
	m.backendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpl_backend_requests_total",
			Help: "Total number of calls to the prediction backend",
		},
		[]string{"endpoint", "outcome"}, // outcome: ok, api_error, network_error, canceled, decode_error
	)

	m.backendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fpl_backend_request_duration_seconds",
			Help:    "Time taken by calls to the prediction backend",
			Buckets: prometheus.ExponentialBuckets(bucketStart10ms, bucketFactor2, bucketCount12),
		},
		[]string{"endpoint"},
	)

	m.feedReadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpl_feed_reads_total",
			Help: "Total number of sidebar feed reads by serving source",
		},
		[]string{"feed", "source"}, // source: live, snapshot, static
	)

	m.pageLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fpl_page_loads_total",
			Help: "Total number of page loads by final status",
		},
		[]string{"page", "status"}, // status: success, error, superseded
	)

	m.pageLoadDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fpl_page_load_duration_seconds",
			Help:    "Time taken by page loads",
			Buckets: prometheus.ExponentialBuckets(bucketStart10ms, bucketFactor2, bucketCount12),
		},
		[]string{"page"},
	)
}

// Describe implements the Collector interface
func (m *DashboardMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.backendRequestsTotal.Describe(ch)
	m.backendRequestDuration.Describe(ch)
	m.feedReadsTotal.Describe(ch)
	m.pageLoadsTotal.Describe(ch)
	m.pageLoadDuration.Describe(ch)
}

// Collect implements the Collector interface
func (m *DashboardMetrics) Collect(ch chan<- prometheus.Metric) {
	m.backendRequestsTotal.Collect(ch)
	m.backendRequestDuration.Collect(ch)
	m.feedReadsTotal.Collect(ch)
	m.pageLoadsTotal.Collect(ch)
	m.pageLoadDuration.Collect(ch)
}

// ObserveRequest records one backend call
func (m *DashboardMetrics) ObserveRequest(endpoint, outcome string, elapsed time.Duration) {
	m.backendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	m.backendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// ObserveFeed records which source served a feed read
func (m *DashboardMetrics) ObserveFeed(feed string, source models.FeedSource) {
	m.feedReadsTotal.WithLabelValues(feed, string(source)).Inc()
}

// ObservePageLoad records one page load
func (m *DashboardMetrics) ObservePageLoad(page, status string, elapsed time.Duration) {
	m.pageLoadsTotal.WithLabelValues(page, status).Inc()
	m.pageLoadDuration.WithLabelValues(page).Observe(elapsed.Seconds())
}

// Registry returns the underlying registry
func (m *DashboardMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *DashboardMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
