package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitedRouter(perMinute int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewRateLimiter(perMinute).Handler())
	r.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func ping(r *gin.Engine) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiter_BlocksAfterBurst(t *testing.T) {
	// 60/min gives a burst of 6; the seventh immediate request must be
	// rejected.
	r := newRateLimitedRouter(60)

	for i := 0; i < 6; i++ {
		assert.Equal(t, http.StatusOK, ping(r), "request %d should pass", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, ping(r))
}

func TestRateLimiter_PerClient(t *testing.T) {
	r := newRateLimitedRouter(60)

	// Exhaust one client's budget.
	for ping(r) == http.StatusOK {
	}

	// A different client is unaffected.
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiter_DisabledBudget(t *testing.T) {
	r := newRateLimitedRouter(0)

	for i := 0; i < 50; i++ {
		assert.Equal(t, http.StatusOK, ping(r))
	}
}
