package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector manages Prometheus metrics for the service.
type Collector struct {
	registry *prometheus.Registry

	// Delivery worker metrics
	PassesTotal    prometheus.Counter
	PassDuration   prometheus.Histogram
	PostsProcessed *prometheus.CounterVec
	PostsSkipped   prometheus.Counter

	// HTTP metrics
	httpRequestsTotal *prometheus.CounterVec
}

// NewCollector creates and registers the service metrics.
func NewCollector() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.PassesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialhub_worker_passes_total",
		Help: "Total number of delivery worker passes",
	})

	c.PassDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "socialhub_worker_pass_duration_seconds",
		Help:    "Delivery worker pass duration in seconds",
		Buckets: prometheus.DefBuckets,
	})

	c.PostsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialhub_posts_processed_total",
			Help: "Scheduled posts processed by the delivery worker",
		},
		[]string{"provider", "outcome"},
	)

	c.PostsSkipped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "socialhub_posts_skipped_total",
		Help: "Due posts skipped because another pass held the claim",
	})

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "socialhub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	c.registry.MustRegister(
		c.PassesTotal,
		c.PassDuration,
		c.PostsProcessed,
		c.PostsSkipped,
		c.httpRequestsTotal,
	)
	return c
}

// Middleware counts HTTP requests per route and status.
func (c *Collector) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		path := ctx.FullPath()
		if path == "" {
			path = "unmatched"
		}
		c.httpRequestsTotal.WithLabelValues(
			ctx.Request.Method,
			path,
			statusLabel(ctx.Writer.Status()),
		).Inc()
	}
}

// Handler exposes the registry for scraping.
func (c *Collector) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
	return func(ctx *gin.Context) {
		h.ServeHTTP(ctx.Writer, ctx.Request)
	}
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
