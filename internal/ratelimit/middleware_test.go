package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/oraclabs/trustscore/internal/kvstore"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_AllowsUnderLimit(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 3, Window: time.Hour}
	handler := Middleware(cfg, store)(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestMiddleware_RejectsOverLimit(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 2, Window: time.Hour}
	handler := Middleware(cfg, store)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	req.Header.Set("X-Forwarded-For", "1.2.3.4")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "3600" {
		t.Errorf("expected Retry-After 3600, got %q", rec.Header().Get("Retry-After"))
	}
}

func TestMiddleware_RejectsOverLimit_DoesNotIncrementFurther(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 1, Window: time.Hour}
	handler := Middleware(cfg, store)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
		req.Header.Set("X-Forwarded-For", "1.2.3.4")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	raw, ok, err := store.Get(context.Background(), "ratelimit:1.2.3.4")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatal("expected a counter to exist")
	}
	if string(raw) != "1" {
		t.Errorf("expected the counter to stop at 1 once over limit, got %q", string(raw))
	}
}

func TestMiddleware_BypassIPsSkipCounter(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 1, Window: time.Hour, BypassIPs: []string{"9.9.9.9"}}
	handler := Middleware(cfg, store)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("bypass request %d: expected 200, got %d", i, rec.Code)
		}
	}
}

func TestMiddleware_SeparateCountersPerIP(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 1, Window: time.Hour}
	handler := Middleware(cfg, store)(okHandler())

	req1 := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	req1.Header.Set("X-Forwarded-For", "1.1.1.1")
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)

	req2 := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	req2.Header.Set("X-Forwarded-For", "2.2.2.2")
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	if rec1.Code != http.StatusOK || rec2.Code != http.StatusOK {
		t.Fatalf("expected both distinct IPs to pass, got %d and %d", rec1.Code, rec2.Code)
	}
}

func TestMiddleware_NoForwardedFor_FallsBackToUnknown(t *testing.T) {
	store := kvstore.NewMemoryStore(100)
	cfg := Config{Limit: 1, Window: time.Hour}
	handler := Middleware(cfg, store)(okHandler())

	req1 := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	req1.RemoteAddr = "1.1.1.1:1111"
	rec1 := httptest.NewRecorder()
	handler.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first unattributed request to pass, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/v1/score", nil)
	req2.RemoteAddr = "2.2.2.2:2222"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Errorf("expected a second unattributed request from a different RemoteAddr to share the unknown bucket and be rejected, got %d", rec2.Code)
	}
}
