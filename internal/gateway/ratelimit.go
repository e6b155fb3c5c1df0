package gateway

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/voltshop/backend/pkg/problem"
)

// FixedWindowLimiter counts requests per partition key within discrete
// windows. Counters are process-local: each gateway replica enforces
// its own budget independently.
type FixedWindowLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	counts map[string]*windowCount
}

type windowCount struct {
	start time.Time
	n     int
}

func NewFixedWindowLimiter(max int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{
		max:    max,
		window: window,
		counts: make(map[string]*windowCount),
	}
}

// Allow records one request for key and reports whether it fits in the
// current window. It also returns the remaining budget and the time the
// window resets.
func (l *FixedWindowLimiter) Allow(key string) (allowed bool, remaining int, reset time.Time) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.counts[key]
	if !ok || now.Sub(wc.start) >= l.window {
		wc = &windowCount{start: now}
		l.counts[key] = wc
	}
	wc.n++

	remaining = l.max - wc.n
	if remaining < 0 {
		remaining = 0
	}
	return wc.n <= l.max, remaining, wc.start.Add(l.window)
}

// Prune drops windows that have already elapsed. Called periodically so
// the key map does not grow without bound.
func (l *FixedWindowLimiter) Prune() {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, wc := range l.counts {
		if now.Sub(wc.start) >= l.window {
			delete(l.counts, key)
		}
	}
}

// partitionKey is the client IP, falling back to the Host header when
// no address can be determined.
func partitionKey(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return c.Request.Host
}

// RateLimit enforces the limiter per client, answering 429 with the
// problem body once the window budget is spent.
func RateLimit(l *FixedWindowLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, remaining, reset := l.Allow(partitionKey(c))

		c.Header("X-RateLimit-Limit", strconv.Itoa(l.max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.Itoa(int(time.Until(reset).Seconds())))

		if !allowed {
			problem.New(http.StatusTooManyRequests, "Too Many Requests").
				WithDetail("rate limit exceeded").
				Write(c)
			return
		}
		c.Next()
	}
}
