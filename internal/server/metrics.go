package server

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsBuilder records request latency and counts per route.
type MetricsBuilder struct {
	summaryVec *prometheus.SummaryVec
	counterVec *prometheus.CounterVec
}

var (
	metricsOnce   sync.Once
	sharedMetrics *MetricsBuilder
)

// defaultMetrics registers the collectors once per process.
func defaultMetrics() *MetricsBuilder {
	metricsOnce.Do(func() { sharedMetrics = NewMetricsBuilder(prometheus.DefaultRegisterer) })
	return sharedMetrics
}

// NewMetricsBuilder registers the HTTP collectors with reg.
func NewMetricsBuilder(reg prometheus.Registerer) *MetricsBuilder {
	factory := promauto.With(reg)
	return &MetricsBuilder{
		summaryVec: factory.NewSummaryVec(
			prometheus.SummaryOpts{
				Namespace: "glyphwrite",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Objectives: map[float64]float64{
					0.5:  0.05,
					0.9:  0.01,
					0.99: 0.001,
				},
			},
			[]string{"method", "path", "status_code"},
		),
		counterVec: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "glyphwrite",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
	}
}

// Build returns the middleware.
func (b *MetricsBuilder) Build() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(ctx.Writer.Status())
		b.summaryVec.WithLabelValues(ctx.Request.Method, path, status).Observe(time.Since(start).Seconds())
		b.counterVec.WithLabelValues(ctx.Request.Method, path, status).Inc()
	}
}
