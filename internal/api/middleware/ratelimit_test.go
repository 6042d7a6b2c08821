package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPerIP_RejectsAboveBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PerIP(0.001, 2))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Fatalf("requests within burst rejected: %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", codes[2])
	}
}

func TestPerUser_SkipsUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PerUser(0.001, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// No user_id set: the limiter never engages.
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d = %d, want 200", i, w.Code)
		}
	}
}

func TestWebSocketLimiter(t *testing.T) {
	wsl := NewWebSocketLimiter(2)

	if !wsl.Allow() || !wsl.Allow() {
		t.Fatal("burst messages should be allowed")
	}
	if wsl.Allow() {
		t.Fatal("message above burst should be rejected")
	}
}
