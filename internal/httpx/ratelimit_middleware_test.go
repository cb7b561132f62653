package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestRateLimitMiddleware(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimitMiddleware(0.001, 2)
	defer rl.Stop()
	handler := rl.Middleware(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/ingest", nil)
		req.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, send("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1002"))
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}

func TestRateLimitMiddleware_StopTwice(t *testing.T) {
	defer goleak.VerifyNone(t)

	rl := NewRateLimitMiddleware(1, 1)
	rl.Stop()
	rl.Stop()
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", clientKey(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", clientKey(req))
}
