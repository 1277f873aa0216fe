package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// RateLimitConfig defines the configuration for rate limiting
type RateLimitConfig struct {
	// Requests is the maximum number of requests allowed within the window
	Requests int
	// Window is the fixed window requests are counted in
	Window time.Duration
	// KeyFunc returns the key requests are counted under (defaults to the client IP)
	KeyFunc func(c echo.Context) string
	// Message is returned in the error body when the limit is exceeded
	Message string
}

type rateLimitWindow struct {
	count     int
	expiresAt time.Time
}

// RateLimiter counts requests per key in fixed windows
type RateLimiter struct {
	config RateLimitConfig
	mu     sync.Mutex
	store  map[string]*rateLimitWindow
	stop   chan struct{}
	once   sync.Once
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop
func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	if config.KeyFunc == nil {
		config.KeyFunc = func(c echo.Context) string {
			return c.RealIP()
		}
	}
	if config.Message == "" {
		config.Message = "Too many requests. Please try again later."
	}

	rl := &RateLimiter{
		config: config,
		store:  make(map[string]*rateLimitWindow),
		stop:   make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// allow records a request under key and reports whether it is within the limit.
// When it is not, the time until the window resets is returned.
func (rl *RateLimiter) allow(key string, now time.Time) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, ok := rl.store[key]
	if !ok || now.After(w.expiresAt) {
		rl.store[key] = &rateLimitWindow{count: 1, expiresAt: now.Add(rl.config.Window)}
		return true, 0
	}
	if w.count >= rl.config.Requests {
		return false, w.expiresAt.Sub(now)
	}
	w.count++
	return true, 0
}

// Middleware returns the rate limiting middleware
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rl.config.KeyFunc(c)
			ok, retryAfter := rl.allow(key, time.Now())
			if !ok {
				log.Warn().Str("component", "ratelimit").Str("key", key).Str("path", c.Path()).Msg("Rate limit exceeded")
				seconds := int(retryAfter.Seconds()) + 1
				c.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": rl.config.Message})
			}
			return next(c)
		}
	}
}

// Stop ends the cleanup loop
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// cleanup removes expired windows every minute
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-rl.stop:
			return
		case now := <-ticker.C:
			rl.mu.Lock()
			for key, w := range rl.store {
				if now.After(w.expiresAt) {
					delete(rl.store, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// TokenRateLimiter limits token requests to 5 per minute per IP
var TokenRateLimiter = NewRateLimiter(RateLimitConfig{
	Requests: 5,
	Window:   time.Minute,
	Message:  "Too many login attempts. Please wait a minute before trying again.",
})
