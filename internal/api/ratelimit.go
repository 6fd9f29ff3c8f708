// ABOUTME: Per-client-IP token bucket limiting for expensive endpoints.
// ABOUTME: Idle limiters are dropped hourly to bound memory.
package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	lastCleanup time.Time
}

// NewRateLimiter allows perSecond requests per IP with the given burst.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limit:       rate.Limit(perSecond),
		burst:       burst,
		limiters:    make(map[string]*rate.Limiter),
		lastCleanup: time.Now(),
	}
}

// Allow reports whether ip may make a request now.
func (r *RateLimiter) Allow(ip string) bool {
	return r.get(ip).Allow()
}

func (r *RateLimiter) get(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	if time.Since(r.lastCleanup) > time.Hour {
		r.limiters = make(map[string]*rate.Limiter)
		r.lastCleanup = time.Now()
	}

	limiter, ok := r.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(r.limit, r.burst)
		r.limiters[ip] = limiter
	}
	return limiter
}

// Middleware rejects requests over the limit with 429.
func (r *RateLimiter) Middleware(onReject func()) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !r.Allow(c.RealIP()) {
				if onReject != nil {
					onReject()
				}
				return c.JSON(http.StatusTooManyRequests, errorBody("Too many requests, please slow down"))
			}
			return next(c)
		}
	}
}
