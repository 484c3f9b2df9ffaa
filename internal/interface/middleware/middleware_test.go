package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}

func do(r http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "203.0.113.7:5000"
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	rdb, _ := newRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/users/:id", RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil, quietLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := do(r, http.MethodGet, "/users/a", nil)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/users/b", nil).Code)

	blocked := do(r, http.MethodGet, "/users/c", nil)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", blocked.Header().Get("Retry-After"))
	var body map[string]any
	require.NoError(t, json.Unmarshal(blocked.Body.Bytes(), &body))
	assert.Equal(t, "rate limit exceeded", body["message"])

	// another client has its own bucket
	other := do(r, http.MethodGet, "/users/a", map[string]string{"X-Forwarded-For": "198.51.100.1"})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimit_WindowExpires(t *testing.T) {
	rdb, mr := newRedis(t)
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP("read"), nil, quietLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/x", nil).Code)
	mr.FastForward(61 * time.Second)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rdb, mr := newRedis(t)
	mr.Close()
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP("read"), nil, quietLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
}

func TestRateLimit_AllowPrivateIP(t *testing.T) {
	rdb, _ := newRedis(t)
	r := gin.New()
	r.Use(RealIP())
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP("read"), AllowPrivateIP(), quietLogger()), func(c *gin.Context) { c.Status(http.StatusOK) })

	private := map[string]string{"X-Forwarded-For": "10.1.2.3"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", private).Code)
	}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/x", nil).Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/x", RateLimit(nil, 0, time.Minute, KeyByIP("read"), nil, nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := do(r, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRealIP_Priority(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { got = c.GetString("real_ip") })

	do(r, http.MethodGet, "/", map[string]string{"CF-Connecting-IP": "1.1.1.1", "X-Forwarded-For": "2.2.2.2"})
	assert.Equal(t, "1.1.1.1", got)
	do(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "2.2.2.2, 10.0.0.1"})
	assert.Equal(t, "2.2.2.2", got)
	do(r, http.MethodGet, "/", map[string]string{"X-Real-IP": "3.3.3.3"})
	assert.Equal(t, "3.3.3.3", got)
	do(r, http.MethodGet, "/", map[string]string{"X-Forwarded-For": "garbage"})
	assert.Equal(t, "203.0.113.7", got)
}

func TestRequestID(t *testing.T) {
	var got string
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { got = c.GetString("request_id") })

	w := do(r, http.MethodGet, "/", nil)
	assert.Len(t, got, 36)
	assert.Equal(t, got, w.Header().Get(RequestIDHeader))

	incoming := "6f1c2c1e-8f5e-4b7a-9a57-0d8b5c3f2a10"
	w = do(r, http.MethodGet, "/", map[string]string{RequestIDHeader: incoming})
	assert.Equal(t, incoming, got)
	assert.Equal(t, incoming, w.Header().Get(RequestIDHeader))

	do(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "not-a-uuid"})
	assert.NotEqual(t, "not-a-uuid", got)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg, "registry")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	do(r, http.MethodGet, "/users/1", nil)
	do(r, http.MethodGet, "/users/2", nil)
	do(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "/users/:id", "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), AccessLog(logger))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusConflict) })

	do(r, http.MethodGet, "/users/1", nil)

	var line map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "warning", line["level"])
	assert.Equal(t, "/users/:id", line["route"])
	assert.EqualValues(t, 409, line["status"])
	assert.NotEmpty(t, line["request_id"])
}
