// ABOUTME: Prometheus instruments for the HTTP API.
// ABOUTME: Registered once per process and exposed on /metrics.
package api

import (
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for the API.
type Metrics struct {
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   *prometheus.HistogramVec
	InsightsGenerated prometheus.Counter
	ChatMessages      prometheus.Counter
	MetricsRecorded   *prometheus.CounterVec
	RateLimited       prometheus.Counter
}

// NewMetrics returns the process-wide API metrics, registering them on first use.
//
// Metrics:
//   - healthai_http_requests_total{method,route,status}
//   - healthai_http_request_duration_seconds{method,route}
//   - healthai_insights_generated_total
//   - healthai_chat_messages_total
//   - healthai_metrics_recorded_total{type}
//   - healthai_rate_limited_total
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "healthai_http_requests_total",
					Help: "Total HTTP requests by method, route and status",
				},
				[]string{"method", "route", "status"},
			),
			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "healthai_http_request_duration_seconds",
					Help:    "HTTP request duration in seconds",
					Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
				},
				[]string{"method", "route"},
			),
			InsightsGenerated: promauto.NewCounter(prometheus.CounterOpts{
				Name: "healthai_insights_generated_total",
				Help: "Total insights generated",
			}),
			ChatMessages: promauto.NewCounter(prometheus.CounterOpts{
				Name: "healthai_chat_messages_total",
				Help: "Total assistant chat messages answered",
			}),
			MetricsRecorded: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "healthai_metrics_recorded_total",
					Help: "Total health metrics recorded by type",
				},
				[]string{"type"},
			),
			RateLimited: promauto.NewCounter(prometheus.CounterOpts{
				Name: "healthai_rate_limited_total",
				Help: "Total requests rejected by the rate limiter",
			}),
		}
	})
	return globalMetrics
}

// Middleware records request counts and latency.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}
