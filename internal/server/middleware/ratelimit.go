package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 10 * time.Minute
	limiterIdleAfter  = 30 * time.Minute
)

type keyedLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// limiterSet holds one token bucket per key. Buckets idle longer than
// idleAfter are dropped by sweep.
type limiterSet struct {
	rps       rate.Limit
	burst     int
	idleAfter time.Duration

	mu      sync.Mutex
	entries map[string]*keyedLimiter
}

func newLimiterSet(requestsPerSecond float64, burst int, idleAfter time.Duration) *limiterSet {
	return &limiterSet{
		rps:       rate.Limit(requestsPerSecond),
		burst:     burst,
		idleAfter: idleAfter,
		entries:   make(map[string]*keyedLimiter),
	}
}

func (s *limiterSet) allow(key string, now time.Time) bool {
	s.mu.Lock()
	kl, ok := s.entries[key]
	if !ok {
		kl = &keyedLimiter{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.entries[key] = kl
	}
	kl.lastAccess = now
	s.mu.Unlock()
	return kl.limiter.AllowN(now, 1)
}

// sweep drops idle buckets and reports how many remain.
func (s *limiterSet) sweep(now time.Time) int {
	cutoff := now.Add(-s.idleAfter)
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, kl := range s.entries {
		if kl.lastAccess.Before(cutoff) {
			delete(s.entries, key)
		}
	}
	return len(s.entries)
}

func (s *limiterSet) sweepEvery(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case now := <-ticker.C:
			s.sweep(now)
		case <-ctx.Done():
			return
		}
	}
}

// keyedRateLimit limits requests per key. Requests for which keyFn finds no
// key pass through unlimited. The sweeper stops with ctx.
func keyedRateLimit(ctx context.Context, requestsPerSecond float64, burst int, keyFn func(*http.Request) (string, bool)) func(http.Handler) http.Handler {
	set := newLimiterSet(requestsPerSecond, burst, limiterIdleAfter)
	go set.sweepEvery(ctx, limiterSweepEvery)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, ok := keyFn(r)
			if ok && !set.allow(key, time.Now()) {
				http.Error(w, `{"title":"Too Many Requests","status":429,"detail":"rate limit exceeded"}`, http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimitByIP limits unauthenticated endpoints per client address. It
// relies on chi's RealIP having rewritten r.RemoteAddr.
func RateLimitByIP(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	return keyedRateLimit(ctx, requestsPerSecond, burst, clientIP)
}

// RateLimit limits requests per authenticated user. It must run after Auth;
// requests without a caller are not limited here.
func RateLimit(ctx context.Context, requestsPerSecond float64, burst int) func(http.Handler) http.Handler {
	return keyedRateLimit(ctx, requestsPerSecond, burst, func(r *http.Request) (string, bool) {
		token, ok := TokenFromContext(r.Context())
		if !ok || token.UserID == "" {
			return "", false
		}
		return token.UserID, true
	})
}

// clientIP strips the port so that one client shares a bucket across
// connections.
func clientIP(r *http.Request) (string, bool) {
	if r.RemoteAddr == "" {
		return "", false
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host, true
	}
	return r.RemoteAddr, true
}
