package httpmiddleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestTokenBucketExhaustion(t *testing.T) {
	l := NewTokenBucket(2, 2)
	ctx := context.Background()

	if !l.Allow(ctx, "1.2.3.4") || !l.Allow(ctx, "1.2.3.4") {
		t.Fatal("requests within capacity denied")
	}
	if l.Allow(ctx, "1.2.3.4") {
		t.Fatal("request over capacity allowed")
	}
	if !l.Allow(ctx, "5.6.7.8") {
		t.Fatal("other keys must not share a bucket")
	}
}

func TestGinMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(GinMiddleware(NewTokenBucket(1, 1)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func() int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request got %d", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Fatalf("second request got %d, want 429", code)
	}
}
