package middleware

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"erp-portal/internal/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	headerRateLimitLimit     = "X-RateLimit-Limit"
	headerRateLimitRemaining = "X-RateLimit-Remaining"
	headerRetryAfter         = "Retry-After"

	keyPrefixUser = "user:"
	keyPrefixIP   = "ip:"

	msgRateLimitExceeded = "rate limit exceeded"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter implements token bucket rate limiting per identity. Signed-in
// callers are keyed by user id, everyone else by client IP.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with bursts of
// up to burst requests per key
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = rl.now()
	return entry.limiter
}

// Allow checks if a request should be allowed for the given key
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Sweep forgets keys idle for longer than idle and returns how many were
// dropped
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := rl.now().Add(-idle)

	rl.mu.Lock()
	defer rl.mu.Unlock()
	dropped := 0
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			dropped++
		}
	}
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(idle)
		}
	}
}

// Len is the number of tracked keys
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// Middleware returns an Echo middleware function for rate limiting
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter(identityKey(c))
			header := c.Response().Header()
			header.Set(headerRateLimitLimit, strconv.Itoa(rl.burst))

			if !limiter.Allow() {
				header.Set(headerRateLimitRemaining, "0")
				header.Set(headerRetryAfter, "1")
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": msgRateLimitExceeded,
				})
			}

			header.Set(headerRateLimitRemaining, strconv.Itoa(int(limiter.Tokens())))
			return next(c)
		}
	}
}

func identityKey(c echo.Context) string {
	if userID, ok := c.Get(auth.ContextKeyUserID).(uuid.UUID); ok && userID != uuid.Nil {
		return keyPrefixUser + userID.String()
	}
	return keyPrefixIP + c.RealIP()
}
