package ratelimit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestsWithinBurstAreAllowed(t *testing.T) {
	burst := 5
	limiter := NewLimiter(1, burst, "")

	for i := 0; i < burst; i++ {
		if !limiter.allow("192.168.1.1") {
			t.Errorf("request %d within burst of %d should be allowed", i+1, burst)
		}
	}
	if limiter.allow("192.168.1.1") {
		t.Error("request exceeding burst should be denied")
	}
}

func TestTokensReplenishOverTime(t *testing.T) {
	limiter := NewLimiter(10, 1, "")
	start := time.Now()
	limiter.now = func() time.Time { return start }

	limiter.allow("192.168.1.1")
	if limiter.allow("192.168.1.1") {
		t.Error("expected request to be denied after exhausting burst")
	}

	// 10 tokens/sec refills one token in 100ms
	limiter.now = func() time.Time { return start.Add(150 * time.Millisecond) }
	if !limiter.allow("192.168.1.1") {
		t.Error("expected request to be allowed after token replenishment")
	}
}

func TestDifferentIPsHaveIndependentLimits(t *testing.T) {
	limiter := NewLimiter(1, 1, "")

	limiter.allow("10.0.0.1")
	if limiter.allow("10.0.0.1") {
		t.Error("expected second request from first IP to be denied")
	}
	if !limiter.allow("10.0.0.2") {
		t.Error("expected request from second IP to be allowed")
	}
}

func TestStaleVisitorsAreRemoved(t *testing.T) {
	limiter := NewLimiter(1, 1, "")
	start := time.Now()
	limiter.now = func() time.Time { return start }
	limiter.allow("10.0.0.1")

	limiter.now = func() time.Time { return start.Add(staleAfter + cleanupInterval + time.Second) }
	limiter.allow("10.0.0.2")

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	if _, ok := limiter.visitors["10.0.0.1"]; ok {
		t.Error("expected stale visitor to be removed")
	}
	if _, ok := limiter.visitors["10.0.0.2"]; !ok {
		t.Error("expected fresh visitor to remain")
	}
}

func TestMiddlewareReturns429WithMessage(t *testing.T) {
	const msg = "Too many failed attempts. Please try again later."
	handler := NewLimiter(1, 1, msg).Middleware(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status %d, got %d", http.StatusTooManyRequests, rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Errorf("expected Retry-After 1, got %q", rec.Header().Get("Retry-After"))
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error != msg {
		t.Errorf("expected %q, got %q", msg, body.Error)
	}
}

func TestMiddlewareKeysOnForwardedFor(t *testing.T) {
	handler := NewLimiter(1, 1, "").Middleware(okHandler())

	for _, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req.Header.Set("X-Forwarded-For", ip)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("expected forwarded IP %s to have its own bucket, got %d", ip, rec.Code)
		}
	}
}

func TestMiddlewareDoesNotCallNextWhenLimited(t *testing.T) {
	calls := 0
	handler := NewLimiter(1, 1, "").Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.9:1"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if calls != 1 {
		t.Errorf("expected next handler to be called once, got %d", calls)
	}
}
