package web

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter hands out one token bucket per client address
type clientLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	limit    rate.Limit
	burst    int
	exempt   map[string]bool // paths never limited
}

// newClientLimiter allows requestsPerSecond per client with the given burst.
// A non-positive rate disables limiting.
func newClientLimiter(requestsPerSecond float64, burst int) *clientLimiter {
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}
	if burst <= 0 {
		burst = 1
	}
	return &clientLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
		exempt:   map[string]bool{"/healthz": true},
	}
}

func (l *clientLimiter) get(key string) *rate.Limiter {
	l.mu.RLock()
	limiter, ok := l.limiters[key]
	l.mu.RUnlock()
	if ok {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, ok := l.limiters[key]; ok {
		return limiter
	}
	limiter = rate.NewLimiter(l.limit, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// allow reports whether the client may proceed now
func (l *clientLimiter) allow(key string) bool {
	return l.get(key).Allow()
}

// prune drops buckets that have refilled completely; they are recreated on demand
func (l *clientLimiter) prune() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, limiter := range l.limiters {
		if limiter.Tokens() >= float64(l.burst) {
			delete(l.limiters, key)
		}
	}
}

// run prunes periodically until stop is closed
func (l *clientLimiter) run(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			l.prune()
		}
	}
}

func (l *clientLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if l.limit == rate.Inf || l.exempt[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}
		if !l.allow(clientKey(r)) {
			retry := time.Second
			if l.limit > 0 {
				retry = max(time.Second, time.Duration(float64(time.Second)/float64(l.limit)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.burst))
			w.Header().Set("X-RateLimit-Remaining", "0")
			writeError(w, r, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey identifies the caller by remote IP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
