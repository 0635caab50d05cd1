package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"webstarter/pkg/apperrors"
)

type Metrics struct {
	registry *prometheus.Registry

	ErrorsTotal     *prometheus.CounterVec
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry, so tests can create
// as many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webstarter_errors_total",
			Help: "Errors converted for clients, by kind and status",
		}, []string{"kind", "status", "operational"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "webstarter_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "webstarter_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ErrorHook - подключается к apperrors.Converter.
func (m *Metrics) ErrorHook() apperrors.Hook {
	return func(_ context.Context, _ error, converted *apperrors.AppError) {
		m.ErrorsTotal.WithLabelValues(
			string(converted.Kind),
			strconv.Itoa(converted.StatusCode),
			strconv.FormatBool(converted.Operational),
		).Inc()
	}
}

// Middleware records request count and latency. Unmatched routes share
// one label value.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.RequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler - /metrics.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
