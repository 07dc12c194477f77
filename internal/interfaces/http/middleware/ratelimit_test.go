package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/agromarket/backend/internal/infrastructure/auth"
	"github.com/agromarket/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newTestLimiter(t *testing.T, limit int, window time.Duration) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(limit, window)
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter(t *testing.T) {
	t.Run("blocks requests exceeding limit", func(t *testing.T) {
		limiter := newTestLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			ok, remaining := limiter.Allow("client")
			assert.True(t, ok, "request %d should be allowed", i+1)
			assert.Equal(t, 2-i, remaining)
		}

		ok, remaining := limiter.Allow("client")
		assert.False(t, ok)
		assert.Zero(t, remaining)
	})

	t.Run("separate limits per client", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)

		ok, _ := limiter.Allow("clientA")
		assert.True(t, ok)
		ok, _ = limiter.Allow("clientA")
		assert.False(t, ok)

		ok, _ = limiter.Allow("clientB")
		assert.True(t, ok)
	})

	t.Run("resets after window", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		ok, _ := limiter.Allow("client")
		assert.True(t, ok)
		ok, _ = limiter.Allow("client")
		assert.False(t, ok)

		now = now.Add(time.Minute)
		ok, _ = limiter.Allow("client")
		assert.True(t, ok)
	})

	t.Run("cleanup drops stale clients", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		limiter.Allow("stale")
		now = now.Add(3 * time.Minute)
		limiter.cleanup()

		limiter.mu.Lock()
		defer limiter.mu.Unlock()
		assert.Empty(t, limiter.clients)
	})

	t.Run("concurrent access is safe", func(t *testing.T) {
		limiter := newTestLimiter(t, 100, time.Minute)
		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if ok, _ := limiter.Allow("concurrent-client"); ok {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("returns 429 envelope when limit exceeded", func(t *testing.T) {
		router := gin.New()
		router.Use(RateLimit(newTestLimiter(t, 2, time.Minute)))
		router.GET("/api/v1/all/", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		var w *httptest.ResponseRecorder
		for i := 0; i < 3; i++ {
			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/all/", nil))
		}

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeRateLimited)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("authenticated callers get their own bucket", func(t *testing.T) {
		limiter := newTestLimiter(t, 1, time.Minute)
		router := gin.New()
		router.Use(func(c *gin.Context) {
			if id := c.GetHeader("X-Test-User"); id != "" {
				c.Set(JWTClaimsKey, &auth.Claims{UserID: id})
				c.Set(JWTUserIDKey, id)
			}
			c.Next()
		})
		router.Use(RateLimit(limiter))
		router.GET("/orders/", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		for _, user := range []string{"u1", "u2", ""} {
			req := httptest.NewRequest(http.MethodGet, "/orders/", nil)
			if user != "" {
				req.Header.Set("X-Test-User", user)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "user %q", user)
		}
	})
}
