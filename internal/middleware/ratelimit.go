package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/ofxpulse/internal/domain/dto"
)

const (
	DefaultRateLimit  = 60
	DefaultRateWindow = time.Minute
)

// client represents a rate-limited client with request count and window start.
type client struct {
	windowStart time.Time
	count       int
}

// limiterStore is an in-memory fixed-window counter keyed by client IP.
// Each RateLimiter owns one store, so routers built in tests do not share state.
type limiterStore struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	now     func() time.Time
}

func (s *limiterStore) allow(ip string) bool {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	cl, ok := s.clients[ip]
	if !ok || now.Sub(cl.windowStart) > s.window {
		cl = &client{windowStart: now}
		s.clients[ip] = cl
	}
	cl.count++

	// drop stale entries opportunistically
	if len(s.clients) > 10_000 {
		for k, v := range s.clients {
			if now.Sub(v.windowStart) > s.window {
				delete(s.clients, k)
			}
		}
	}
	return cl.count <= s.limit
}

// RateLimiter limits the number of requests per client IP.
//
// Behavior:
//   - Allows up to limit requests per window; non-positive values fall back
//     to 60 requests per minute.
//   - If the limit is exceeded, responds 429 with a dto.ErrorResponse.
//
// Usage:
//
//	router.Use(middleware.RateLimiter(120, time.Minute))
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	if window <= 0 {
		window = DefaultRateWindow
	}
	store := &limiterStore{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}

	return func(c *gin.Context) {
		if !store.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse("rate limit exceeded", nil))
			return
		}
		c.Next()
	}
}
