// Package ratelimit throttles requests per client IP with token buckets.
package ratelimit

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/vidgallery/vidgallery/internal/httputil"
	"github.com/vidgallery/vidgallery/internal/metrics"
	"golang.org/x/time/rate"
)

const (
	DefaultMessage  = "too many requests"
	cleanupInterval = 5 * time.Minute
	staleAfter      = 10 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type Limiter struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	rate        rate.Limit
	burst       int
	message     string
	retryAfter  time.Duration
	lastCleanup time.Time
	now         func() time.Time
}

// NewLimiter allows requestsPerSecond per IP with the given burst. message is
// the JSON error returned with 429; empty means DefaultMessage.
func NewLimiter(requestsPerSecond float64, burst int, message string) *Limiter {
	if message == "" {
		message = DefaultMessage
	}
	retryAfter := 10 * time.Second
	if requestsPerSecond > 0 {
		retryAfter = max(time.Duration(float64(time.Second)/requestsPerSecond), time.Second)
	}
	return &Limiter{
		visitors:    make(map[string]*visitor),
		rate:        rate.Limit(requestsPerSecond),
		burst:       burst,
		message:     message,
		retryAfter:  retryAfter,
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	now := l.now()
	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	l.cleanupLocked(now)
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// cleanupLocked drops visitors idle for longer than staleAfter, at most once
// per cleanupInterval.
func (l *Limiter) cleanupLocked(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > staleAfter {
			delete(l.visitors, ip)
		}
	}
	l.lastCleanup = now
}

func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(httputil.ClientIP(r)) {
			metrics.RateLimitedTotal.Inc()
			w.Header().Set("Retry-After", strconv.Itoa(int(l.retryAfter/time.Second)))
			httputil.WriteError(w, http.StatusTooManyRequests, l.message)
			return
		}

		next.ServeHTTP(w, r)
	})
}
