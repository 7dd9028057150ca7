package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIPRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	rl := NewIPRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatalf("first two requests should pass")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("third request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("other IPs are limited separately")
	}

	now = now.Add(2 * time.Minute)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("window should reset")
	}
}

func TestRateLimitHandlerReturns429(t *testing.T) {
	r := gin.New()
	r.GET("/export", NewIPRateLimiter(1, time.Minute).Handle(), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/export", nil))
		codes = append(codes, w.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status codes %v", codes)
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"localhost:8081"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://localhost:8081/")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:8081" {
		t.Fatalf("expected origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected preflight response: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestOriginHostStripsDefaultPorts(t *testing.T) {
	if got := originHost("https://Example.com:443"); got != "example.com" {
		t.Fatalf("got %q", got)
	}
	if got := originHost("not a url"); got != "" {
		t.Fatalf("got %q", got)
	}
}
