package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/josh-kwaku/bakery-pos/internal/handler"
)

type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	EntryTTL          time.Duration
	// TrustProxy keys clients on the first X-Forwarded-For address. Only set
	// it when a reverse proxy in front of the till overwrites that header.
	TrustProxy bool
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP. A till posts a handful
// of actions per minute; the limit only guards against runaway clients.
type RateLimiter struct {
	mu         sync.Mutex
	limiters   map[string]*limiterEntry
	rate       rate.Limit
	burst      int
	ttl        time.Duration
	trustProxy bool
	now        func() time.Time
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.EntryTTL <= 0 {
		cfg.EntryTTL = 10 * time.Minute
	}
	return &RateLimiter{
		limiters:   make(map[string]*limiterEntry),
		rate:       rate.Limit(cfg.RequestsPerSecond),
		burst:      cfg.Burst,
		ttl:        cfg.EntryTTL,
		trustProxy: cfg.TrustProxy,
		now:        time.Now,
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if e, ok := rl.limiters[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	// Sweep on insert; the map only grows with new clients.
	for k, e := range rl.limiters {
		if now.Sub(e.lastSeen) > rl.ttl {
			delete(rl.limiters, k)
		}
	}

	l := rate.NewLimiter(rl.rate, rl.burst)
	rl.limiters[key] = &limiterEntry{limiter: l, lastSeen: now}
	return l
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/health") {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.limiter(rl.clientKey(r)).Allow() {
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burst))
			w.Header().Set("Retry-After", "1")
			handler.RespondAppError(w, handler.ErrRateLimited, nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) clientKey(r *http.Request) string {
	if rl.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if first = strings.TrimSpace(first); first != "" {
				return first
			}
		}
	}
	return remoteIP(r)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
