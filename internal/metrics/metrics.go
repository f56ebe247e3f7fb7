// Package metrics exposes prometheus collectors for the HTTP surface and
// for side-effect failures that are swallowed by design (activity log,
// notification delivery, audit stream). Swallowed failures must still be
// visible to operators.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestCounter counts all HTTP requests with labels
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDurationHistogram records request duration in seconds
	RequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// SideEffectFailures counts best-effort side effects that failed and
	// were swallowed. Components: activity_log, audit_stream,
	// notification_store, notification_push.
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "side_effect_failures_total",
			Help: "Best-effort side effects that failed without failing the request",
		},
		[]string{"component"},
	)

	// WebsocketConnections tracks currently open notification channels.
	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_websocket_connections",
			Help: "Currently open notification websocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestCounter,
		RequestDurationHistogram,
		SideEffectFailures,
		WebsocketConnections,
	)
}

// Middleware records request count and duration per route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		RequestCounter.WithLabelValues(c.Request.Method, path, status).Inc()
		RequestDurationHistogram.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
	}
}
