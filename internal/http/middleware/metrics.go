// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Labels are
// kept bounded:
//
//   - method:   HTTP method verb (GET/POST/…)
//   - path:     the registered Gin route (e.g. /v1/survey); unmatched
//     requests are grouped under "unmatched" so probes for random URLs
//     cannot grow the series count
//   - status:   numeric status code as a string (e.g. "201", "422")
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedPath is the path label for requests that hit no route.
const unmatchedPath = "unmatched"

type httpCollectors struct {
	reqs     *prometheus.CounterVec
	lat      *prometheus.HistogramVec
	inflight prometheus.Gauge
	size     *prometheus.HistogramVec
}

func newHTTPCollectors() *httpCollectors {
	return &httpCollectors{
		reqs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "path", "status"},
		),
		// status is left off the histogram to keep its cardinality low.
		lat: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_inflight",
				Help: "Current number of in-flight HTTP requests.",
			},
		),
		// Survey responses are tiny; buckets stop at 64KiB.
		size: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "Size of HTTP responses in bytes.",
				Buckets: prometheus.ExponentialBuckets(64, 4, 6),
			},
			[]string{"method", "path"},
		),
	}
}

func (m *httpCollectors) register(reg prometheus.Registerer) {
	reg.MustRegister(m.reqs, m.lat, m.inflight, m.size)
}

var defaultHTTP = newHTTPCollectors()

func init() {
	defaultHTTP.register(prometheus.DefaultRegisterer)
}

// Metrics returns a Gin middleware that instruments requests with the
// collectors registered on the default Prometheus registry.
//
//	r := gin.New()
//	r.Use(middleware.Metrics())
//	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
func Metrics() gin.HandlerFunc {
	return defaultHTTP.handler()
}

// MetricsWith registers a fresh set of HTTP collectors on reg and returns a
// middleware feeding them. Registering twice on the same registry panics.
func MetricsWith(reg prometheus.Registerer) gin.HandlerFunc {
	m := newHTTPCollectors()
	m.register(reg)
	return m.handler()
}

func (m *httpCollectors) handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		m.inflight.Inc()
		defer m.inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		method := c.Request.Method

		m.reqs.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.lat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		// Size is -1 when nothing was written.
		if size := c.Writer.Size(); size >= 0 {
			m.size.WithLabelValues(method, path).Observe(float64(size))
		}
	}
}
