package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IPRateLimiter allows at most limit requests per client IP in a sliding window.
type IPRateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
	now      func() time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	return &IPRateLimiter{
		requests: make(map[string][]time.Time),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	// Drop requests outside the window
	requests := rl.requests[ip]
	i := 0
	for ; i < len(requests); i++ {
		if requests[i].After(cutoff) {
			break
		}
	}
	requests = requests[i:]

	if len(requests) >= rl.limit {
		rl.requests[ip] = requests
		return false
	}

	rl.requests[ip] = append(requests, now)
	return true
}

// Sweep forgets clients with no requests inside the window.
func (rl *IPRateLimiter) Sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-rl.window)
	for ip, requests := range rl.requests {
		if len(requests) == 0 || !requests[len(requests)-1].After(cutoff) {
			delete(rl.requests, ip)
		}
	}
}

// RateLimitMiddleware rejects clients over the limit with 429. A nil limiter
// or a non-positive limit disables it.
func RateLimitMiddleware(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil || rl.limit <= 0 {
			c.Next()
			return
		}
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
