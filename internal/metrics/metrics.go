// Package metrics defines the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "attendance",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	AttendanceEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "ledger_events_total",
		Help:      "Attendance ledger mutations by type.",
	}, []string{"type"})

	PinValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "pin_validations_total",
		Help:      "PIN validation attempts by result.",
	}, []string{"result"})

	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "attendance",
		Name:      "admin_logins_total",
		Help:      "Administrator login attempts by result.",
	}, []string{"result"})

	LiveClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "attendance",
		Name:      "live_clients",
		Help:      "Connected live feed websocket clients.",
	})
)

// Middleware records count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(route, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
