package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "leadhub_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	analyticsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadhub_analytics_requests_total",
		Help: "Analytics results served, by the source that produced them",
	}, []string{"source"})

	analyticsFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leadhub_analytics_fallbacks_total",
		Help: "Times the aggregation pipeline failed and raw leads were aggregated instead",
	})

	leadStatusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadhub_lead_status_changes_total",
		Help: "Lead status transitions",
	}, []string{"from", "to"})

	cacheWarmRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leadhub_cache_warm_runs_total",
		Help: "Analytics cache warm-up runs",
	}, []string{"result"})
)

func RecordAnalytics(source string) {
	analyticsRequests.WithLabelValues(source).Inc()
}

func RecordAnalyticsFallback() {
	analyticsFallbacks.Inc()
}

func RecordStatusChange(from, to string) {
	leadStatusChanges.WithLabelValues(from, to).Inc()
}

func RecordCacheWarm(ok bool) {
	result := "success"
	if !ok {
		result = "error"
	}
	cacheWarmRuns.WithLabelValues(result).Inc()
}

// Middleware records request latency per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
