package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/internal/testutil"
)

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/missing", func(c *gin.Context) { c.String(http.StatusNotFound, "missing") })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRequestLogger_LevelsByStatus(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newEngine(RequestLogger(logger))

	serve(r, "/ok")
	assert.True(t, logger.HasMessage("info", "request served"))

	serve(r, "/missing")
	assert.True(t, logger.HasMessage("warn", "request rejected"))
}

func TestRecovery_ConvertsPanicTo500(t *testing.T) {
	logger := testutil.NewMockLogger()
	r := newEngine(Recovery(logger))

	rec := serve(r, "/boom")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.True(t, logger.HasMessage("error", "handler panicked"))
}

func TestMetrics_CountsRequests(t *testing.T) {
	m := prometheus.NewMetrics("dockprep_mw_test")
	r := newEngine(Metrics(m))

	serve(r, "/ok")
	serve(r, "/missing")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := rec.Body.String()
	assert.Contains(t, body, `dockprep_mw_test_http_requests_total{method="GET",path="/ok",status="2xx"} 1`)
	assert.Contains(t, body, `status="4xx"`)
}
