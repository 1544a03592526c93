package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/arenalabs/quizarena-backend/internal/response"
	"github.com/gin-gonic/gin"
)

// staleAfter is how long an idle client's bucket is kept before the
// janitor drops it.
const staleAfter = 3 * time.Minute

// RateLimiter throttles requests per client IP with a token bucket. Used
// on the auth routes, where a contest start means a burst of login
// attempts from shared lab networks.
type RateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     int
	interval time.Duration
}

type bucket struct {
	tokens   int
	refilled time.Time
}

// NewRateLimiter allows rate requests per interval for each client IP.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		interval: interval,
	}

	go func() {
		for range time.Tick(time.Minute) {
			rl.dropStale()
		}
	}()

	return rl
}

// Middleware rejects requests from IPs that exhausted their bucket with
// 429 and the standard error envelope.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok {
		b = &bucket{tokens: rl.rate, refilled: time.Now()}
		rl.buckets[ip] = b
	}

	if intervals := int(time.Since(b.refilled) / rl.interval); intervals > 0 {
		b.tokens += intervals * rl.rate
		if b.tokens > rl.rate {
			b.tokens = rl.rate
		}
		b.refilled = time.Now()
	}

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (rl *RateLimiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, b := range rl.buckets {
		if time.Since(b.refilled) > staleAfter {
			delete(rl.buckets, ip)
		}
	}
}
