package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

type memoryStore struct {
	attempts map[string][]time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{attempts: make(map[string][]time.Time)}
}

func (s *memoryStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	s.attempts[identifier] = append(s.attempts[identifier], at)
	return nil
}

func (s *memoryStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	count := 0
	for _, at := range s.attempts[identifier] {
		if !at.Before(reference.Add(-window)) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (s *memoryStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	kept := s.attempts[identifier][:0]
	for _, at := range s.attempts[identifier] {
		if !at.Before(reference.Add(-window)) {
			kept = append(kept, at)
		}
	}
	s.attempts[identifier] = kept
	return nil
}

func (s *memoryStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	var oldest time.Time
	found := false
	for _, at := range s.attempts[identifier] {
		if at.Before(reference.Add(-window)) || at.After(reference) {
			continue
		}
		if !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

func newLimitedRouter(t *testing.T, limit int, window time.Duration, now func() time.Time) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(newMemoryStore(), nil).WithClock(now)

	r := gin.New()
	r.Use(EnrichContext())
	r.POST("/login", limiter.Limit(RateLimitRule{Name: "login", Limit: limit, Window: window}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func doRequest(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllowsUnderLimit(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := newLimitedRouter(t, 3, time.Minute, func() time.Time { return current })

	for i := 0; i < 3; i++ {
		w := doRequest(r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := newLimitedRouter(t, 2, time.Minute, func() time.Time { return current })

	doRequest(r)
	doRequest(r)

	w := doRequest(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header")
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Fatalf("expected zero remaining, got %q", w.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimiterRecoversAfterWindow(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	r := newLimitedRouter(t, 1, time.Minute, func() time.Time { return current })

	if w := doRequest(r); w.Code != http.StatusOK {
		t.Fatalf("first request: status %d", w.Code)
	}
	if w := doRequest(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status %d", w.Code)
	}

	current = current.Add(2 * time.Minute)
	if w := doRequest(r); w.Code != http.StatusOK {
		t.Fatalf("request after window: status %d", w.Code)
	}
}
