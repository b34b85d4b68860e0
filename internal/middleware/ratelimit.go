package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/classroom-backend/internal/response"
)

// RateLimiter implements a per-IP fixed-window token bucket.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     int           // Tokens per interval
	interval time.Duration // Refill interval
	now      func() time.Time
}

type visitor struct {
	tokens   int
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter (e.g., 30 requests per minute).
// A rate of zero or less disables limiting.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     rate,
		interval: interval,
		now:      time.Now,
	}
}

// RunCleanup drops stale visitors until ctx is cancelled.
func (rl *RateLimiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(rl.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.cleanup()
		}
	}
}

// Middleware returns a Gin middleware that rate-limits requests by IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.rate <= 0 {
			c.Next()
			return
		}

		if ok, wait := rl.take(c.ClientIP()); !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// take consumes a token for ip. When none is left it returns how long
// until the next refill.
func (rl *RateLimiter) take(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, exists := rl.visitors[ip]
	if !exists {
		v = &visitor{tokens: rl.rate, lastSeen: now}
		rl.visitors[ip] = v
	}

	// Refill tokens based on elapsed whole intervals.
	elapsed := now.Sub(v.lastSeen)
	if periods := int(elapsed / rl.interval); periods > 0 {
		v.tokens += periods * rl.rate
		if v.tokens > rl.rate {
			v.tokens = rl.rate
		}
		v.lastSeen = v.lastSeen.Add(time.Duration(periods) * rl.interval)
	}

	if v.tokens <= 0 {
		return false, rl.interval - now.Sub(v.lastSeen)
	}
	v.tokens--
	return true, 0
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > 3*rl.interval {
			delete(rl.visitors, ip)
		}
	}
}
