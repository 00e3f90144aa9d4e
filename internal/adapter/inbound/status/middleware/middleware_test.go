package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_PerIP(t *testing.T) {
	rl := NewRateLimiter(1)
	h := rl.Middleware(okHandler())

	request := func(addr string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := request("192.0.2.1:1000"); code != http.StatusOK {
		t.Errorf("first request = %d", code)
	}
	if code := request("192.0.2.1:1001"); code != http.StatusTooManyRequests {
		t.Errorf("second request from same IP = %d, want 429", code)
	}
	if code := request("192.0.2.2:1000"); code != http.StatusOK {
		t.Errorf("request from another IP = %d", code)
	}
}

func TestRateLimiter_EvictStale(t *testing.T) {
	rl := NewRateLimiter(10)
	rl.allow("192.0.2.1")
	rl.visitors["192.0.2.1"].lastSeen = time.Now().Add(-time.Hour)
	rl.allow("192.0.2.2")

	rl.evictStale(10 * time.Minute)

	if _, ok := rl.visitors["192.0.2.1"]; ok {
		t.Error("stale visitor should be evicted")
	}
	if _, ok := rl.visitors["192.0.2.2"]; !ok {
		t.Error("fresh visitor should be kept")
	}
}

func TestRemoteIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234": "192.0.2.1",
		"[::1]:8080":     "::1",
		"noport":         "noport",
	}
	for addr, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if got := remoteIP(req); got != want {
			t.Errorf("remoteIP(%q) = %q, want %q", addr, got, want)
		}
	}
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/readyz", nil))

	out := buf.String()
	if !strings.Contains(out, "path=/readyz") || !strings.Contains(out, "status=503") || !strings.Contains(out, "level=WARN") {
		t.Errorf("log output = %q", out)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, header := range []string{"X-Content-Type-Options", "X-Frame-Options", "Cache-Control", "Content-Security-Policy"} {
		if rec.Header().Get(header) == "" {
			t.Errorf("missing %s", header)
		}
	}
}
