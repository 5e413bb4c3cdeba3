package middleware

import (
	"strconv"
	"time"

	"github.com/gatherly/backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware collects HTTP metrics for Prometheus
func MetricsMiddleware() gin.HandlerFunc {
	m := metrics.Get()

	return func(c *gin.Context) {
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		startTime := time.Now()

		c.Next()

		duration := time.Since(startTime).Seconds()
		// Numeric status code as string so Grafana queries like
		// status=~"5.." match 5xx errors
		statusStr := strconv.Itoa(c.Writer.Status())

		m.HTTPRequestsTotal.WithLabelValues(method, path, statusStr).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)
	}
}

// RecordFeedRequest records one feed request outcome
func RecordFeedRequest(feed string, itemCount int, duration time.Duration, err error) {
	m := metrics.Get()
	status := "success"
	if err != nil {
		status = "error"
	}
	m.FeedRequestsTotal.WithLabelValues(feed, status).Inc()
	m.FeedDuration.WithLabelValues(feed).Observe(duration.Seconds())
	if err == nil {
		m.FeedItemsReturned.WithLabelValues(feed).Observe(float64(itemCount))
	}
}
