package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 业务指标
	TestsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_tests_submitted_total",
			Help: "Number of scored test submissions",
		},
		[]string{"exam_type"},
	)

	PapersPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edulearn_papers_published_total",
			Help: "Number of generated papers published",
		},
	)

	PublishPartialFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "edulearn_publish_partial_failures_total",
			Help: "Publications where the paper was created but the draft could not be marked",
		},
	)

	AuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edulearn_auth_failures_total",
			Help: "Rejected identity resolutions by reason",
		},
		[]string{"reason"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			TestsSubmitted,
			PapersPublished,
			PublishPartialFailures,
			AuthFailures,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
