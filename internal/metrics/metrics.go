// Package metrics collects Prometheus metrics of
// requests to remote collections and of the HTTP server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domonda/go-datatable/restclient"
)

const namespace = "datatable"

var _ restclient.Observer = new(Collector)

// Collector owns a Prometheus registry with the datatable metrics.
type Collector struct {
	registry *prometheus.Registry

	APIRequestsTotal    *prometheus.CounterVec
	APIRequestDuration  *prometheus.HistogramVec
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	Notifications       *prometheus.CounterVec
}

// NewCollector returns a Collector with its own registry
// that also contains the Go runtime and process collectors.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		APIRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Total number of requests to remote collections",
		}, []string{"op", "status"}),
		APIRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Duration of requests to remote collections in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Total number of end user notifications",
		}, []string{"table", "level"}),
	}
	reg.MustRegister(
		c.APIRequestsTotal,
		c.APIRequestDuration,
		c.HTTPRequestsTotal,
		c.HTTPRequestDuration,
		c.Notifications,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry of the collector.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveRequest implements restclient.Observer.
// Requests without response are counted with status "error".
func (c *Collector) ObserveRequest(op string, statusCode int, duration time.Duration, err error) {
	status := "error"
	if statusCode != 0 {
		status = strconv.Itoa(statusCode)
	}
	c.APIRequestsTotal.WithLabelValues(op, status).Inc()
	c.APIRequestDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordHTTPRequest records a request handled by the server.
func (c *Collector) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	c.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	c.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordNotification counts a notification shown to the end user.
func (c *Collector) RecordNotification(table, level string) {
	c.Notifications.WithLabelValues(table, level).Inc()
}

// Handler returns an HTTP handler that serves the metrics.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
