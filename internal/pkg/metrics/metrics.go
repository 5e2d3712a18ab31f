// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTP metrics
var (
	// HTTPRequestsTotal counts total HTTP requests by method, route and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// Business metrics
var (
	// NewsItems tracks the number of announcements in the collection after the last load or save
	NewsItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "news_items",
			Help: "Number of announcements in the collection",
		},
	)

	// NewsWritesTotal counts collection mutations by operation and result
	NewsWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_writes_total",
			Help: "Total number of announcement writes",
		},
		[]string{"operation", "result"},
	)

	// TokenVerificationsTotal counts identity token verifications by result
	TokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_verifications_total",
			Help: "Total number of identity token verifications",
		},
		[]string{"result"},
	)

	// TokenVerificationDuration measures the introspection round trip
	TokenVerificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "token_verification_duration_seconds",
			Help:    "Time taken to verify an identity token",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 8),
		},
	)

	// ScriptRequestsTotal counts script backend actions by result
	ScriptRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "script_requests_total",
			Help: "Total number of script backend requests",
		},
		[]string{"action", "result"},
	)
)

// RecordWrite increments NewsWritesTotal.
func RecordWrite(operation string, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	NewsWritesTotal.WithLabelValues(operation, result).Inc()
}

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method

		HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
