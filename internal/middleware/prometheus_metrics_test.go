package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gatherly/backend/internal/logger"
	"github.com/gatherly/backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMain(m *testing.M) {
	logger.InitializeForTests()
	metrics.Initialize()
	os.Exit(m.Run())
}

func setupMetricsRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(MetricsMiddleware())
	router.GET("/ok", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/missing", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})
	router.GET("/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
	return router
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.Initialize()
	m.HTTPRequestsTotal.Reset()

	router := setupMetricsRouter()
	for _, path := range []string{"/ok", "/ok", "/missing", "/boom"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", path, nil))
	}

	// Status codes are recorded as numeric strings so dashboards can
	// match classes with queries like status=~"5..".
	assert.Equal(t, float64(2), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/missing", "404")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/boom", "500")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/ok", "OK")))
}

func TestRecordFeedRequest(t *testing.T) {
	m := metrics.Initialize()
	m.FeedRequestsTotal.Reset()

	RecordFeedRequest("personal", 12, 40*time.Millisecond, nil)
	RecordFeedRequest("personal", 0, 5*time.Millisecond, assert.AnError)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues("personal", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.FeedRequestsTotal.WithLabelValues("personal", "error")))
}
