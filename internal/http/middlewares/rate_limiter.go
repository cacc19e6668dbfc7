package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

type bucket struct {
	count int
	start time.Time
}

// windowCounter counts requests per key in fixed windows. Buckets whose
// window ended are swept at most once per window.
type windowCounter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastSweep time.Time
}

func newWindowCounter(limit int, window time.Duration) *windowCounter {
	return &windowCounter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*bucket),
	}
}

func (w *windowCounter) allow(key string, now time.Time) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Sub(w.lastSweep) > w.window {
		for k, b := range w.buckets {
			if now.Sub(b.start) > w.window {
				delete(w.buckets, k)
			}
		}
		w.lastSweep = now
	}

	b, ok := w.buckets[key]
	if !ok || now.Sub(b.start) > w.window {
		b = &bucket{start: now}
		w.buckets[key] = b
	}

	if b.count >= w.limit {
		return false
	}
	b.count++
	return true
}

func (w *windowCounter) tracked() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buckets)
}

// RateLimiter allows limit requests per window for each caller. Callers
// with a session are keyed by account, everyone else by client IP.
func RateLimiter(limit int, window time.Duration) echo.MiddlewareFunc {
	counter := newWindowCounter(limit, window)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := "ip:" + c.RealIP()
			if actor, ok := ActorFrom(c); ok && actor.AccountID != "" {
				key = "account:" + actor.AccountID
			}

			if !counter.allow(key, time.Now()) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")
			}

			return next(c)
		}
	}
}
