package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func limitedEngine(l *FixedWindowLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RateLimit(l))
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return engine
}

func get(engine *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestFixedWindowLimiter(t *testing.T) {
	l := NewFixedWindowLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _, _ := l.Allow("client")
		assert.True(t, ok)
	}
	ok, remaining, _ := l.Allow("client")
	assert.False(t, ok, "fourth request in the window must be rejected")
	assert.Zero(t, remaining)

	// other keys have their own budget
	ok, _, _ = l.Allow("other")
	assert.True(t, ok)
}

func TestFixedWindowResets(t *testing.T) {
	l := NewFixedWindowLimiter(1, 50*time.Millisecond)

	ok, _, _ := l.Allow("client")
	assert.True(t, ok)
	ok, _, _ = l.Allow("client")
	assert.False(t, ok)

	time.Sleep(60 * time.Millisecond)
	ok, _, _ = l.Allow("client")
	assert.True(t, ok, "budget replenishes at the window boundary")
}

func TestRateLimitMiddleware(t *testing.T) {
	engine := limitedEngine(NewFixedWindowLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := get(engine, "192.0.2.1:1234")
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := get(engine, "192.0.2.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate-limited")
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// a different client IP is an independent partition
	w = get(engine, "192.0.2.9:1234")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPrune(t *testing.T) {
	l := NewFixedWindowLimiter(1, 10*time.Millisecond)
	l.Allow("a")
	l.Allow("b")

	time.Sleep(15 * time.Millisecond)
	l.Prune()

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.Empty(t, l.counts)
}
