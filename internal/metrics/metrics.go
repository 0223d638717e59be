// Package metrics registers the prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mamadbah2/signcare/internal/domain/models"
)

const unmatchedRoute = "unmatched"

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signcare_http_requests_total",
			Help: "Total HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "signcare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	defaultedClassTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signcare_film_class_defaulted_total",
			Help: "Expiry computations that fell back to the default duration, by kind of film class (empty or unknown).",
		},
		[]string{"class"},
	)

	productsByStatus = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "signcare_products",
			Help: "Products by alert status as of the last digest.",
		},
		[]string{"status"},
	)

	digestRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "signcare_digest_runs_total",
			Help: "Scheduled digest runs by result.",
		},
		[]string{"result"},
	)
)

// GinMiddleware records request count and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// Route templates keep label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = unmatchedRoute
		}
		status := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordDefaultedClass counts an unknown film class. It matches expiry.DefaultHook.
// The raw class is upstream data and stays out of the label; the engine logs it.
func RecordDefaultedClass(class models.FilmClass) {
	label := "unknown"
	if strings.TrimSpace(string(class)) == "" {
		label = "empty"
	}
	defaultedClassTotal.WithLabelValues(label).Inc()
}

// SetProductCounts publishes the per-status product gauges from a summary.
func SetProductCounts(summary models.ExpirySummary) {
	productsByStatus.WithLabelValues(string(models.AlertOK)).Set(float64(summary.OKCount))
	productsByStatus.WithLabelValues(string(models.AlertWarning)).Set(float64(summary.WarningCount))
	productsByStatus.WithLabelValues(string(models.AlertCritical)).Set(float64(summary.CriticalCount))
	productsByStatus.WithLabelValues(string(models.AlertExpired)).Set(float64(summary.ExpiredCount))
}

// RecordDigestRun counts a scheduled digest run.
func RecordDigestRun(err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	digestRunsTotal.WithLabelValues(result).Inc()
}
