package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{
		Requests: 10,
		Window:   time.Minute,
	})
	defer rl.Stop()

	assert.NotNil(t, rl)
	assert.Equal(t, 10, rl.config.Requests)
	assert.Equal(t, time.Minute, rl.config.Window)
	assert.NotNil(t, rl.config.KeyFunc)
	assert.Equal(t, "Too many requests. Please try again later.", rl.config.Message)
}

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(RateLimitConfig{Requests: 2, Window: time.Minute})
	defer rl.Stop()

	now := time.Now()
	ok, _ := rl.allow("a", now)
	assert.True(t, ok)
	ok, _ = rl.allow("a", now)
	assert.True(t, ok)

	ok, retry := rl.allow("a", now.Add(10*time.Second))
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	// Other keys are counted separately
	ok, _ = rl.allow("b", now)
	assert.True(t, ok)

	// A new window starts once the old one expires
	ok, _ = rl.allow("a", now.Add(61*time.Second))
	assert.True(t, ok)
}

func TestRateLimiterMiddleware(t *testing.T) {
	e := echo.New()

	t.Run("WithinLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 2,
			Window:   time.Second,
		})
		defer rl.Stop()

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		for i := 0; i < 2; i++ {
			req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			assert.NoError(t, handler(c))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("ExceededLimit", func(t *testing.T) {
		rl := NewRateLimiter(RateLimitConfig{
			Requests: 1,
			Window:   time.Minute,
			Message:  "slow down",
		})
		defer rl.Stop()

		handler := rl.Middleware()(func(c echo.Context) error {
			return c.String(http.StatusOK, "success")
		})

		req := httptest.NewRequest(http.MethodPost, "/api/token", nil)
		rec := httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))

		req = httptest.NewRequest(http.MethodPost, "/api/token", nil)
		rec = httptest.NewRecorder()
		assert.NoError(t, handler(e.NewContext(req, rec)))

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Contains(t, rec.Body.String(), "slow down")
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	})
}
