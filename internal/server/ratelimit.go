package server

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/intalkconnect/sendform/internal/domain"
)

// RateLimiter is a fixed-window request counter keyed by client IP. A
// request outside an entry's window resets that entry (lazy expiry); a
// background sweep drops entries whose window has long passed so the map
// stays bounded by recently-active IPs rather than every IP ever seen.
type RateLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry

	max    int
	window time.Duration

	// now is swappable for tests.
	now func() time.Time
}

type windowEntry struct {
	count int
	start time.Time
}

// NewRateLimiter creates a limiter allowing max requests per window per IP.
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		entries: make(map[string]*windowEntry),
		max:     max,
		window:  window,
		now:     time.Now,
	}
}

// Allow reports whether the given key may proceed, and the seconds until the
// current window ends when it may not.
func (rl *RateLimiter) Allow(key string) (bool, int) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	e, ok := rl.entries[key]
	if !ok || now.Sub(e.start) >= rl.window {
		rl.entries[key] = &windowEntry{count: 1, start: now}
		return true, 0
	}

	if e.count >= rl.max {
		retryAfter := int(rl.window.Seconds() - now.Sub(e.start).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	e.count++
	return true, 0
}

// sweep removes entries whose window has passed.
func (rl *RateLimiter) sweep() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, e := range rl.entries {
		if now.Sub(e.start) >= rl.window {
			delete(rl.entries, key)
		}
	}
}

// Run sweeps the entry map every window until the stop channel closes.
func (rl *RateLimiter) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-stop:
			return
		}
	}
}

// RateLimitMiddleware rejects clients that exceed the per-IP request budget
// with 429 and a Retry-After header.
func RateLimitMiddleware(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := rl.Allow(clientIP(r))
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				domain.ErrRateLimited().WriteJSON(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. The relay sits behind a single
// trusted proxy in production; X-Forwarded-For is deliberately not consulted
// because it is client-forgeable when the relay is exposed directly.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
