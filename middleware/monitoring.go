package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path"},
	)

	listExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "list_exports_total",
			Help: "Total number of list exports by list type and format",
		},
		[]string{"list_type", "format"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(listExportsTotal)
}

func RecordListExport(listType, format string) {
	listExportsTotal.WithLabelValues(listType, format).Inc()
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		httpRequestsTotal.WithLabelValues(c.Method(), c.Path(), fmt.Sprintf("%d", statusCode)).Inc()
		httpRequestDuration.WithLabelValues(c.Path()).Observe(duration)

		return err
	}
}
