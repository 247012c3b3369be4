package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"coursestore-backend/internal/shared/middleware"
)

func stubCommerceEngine(limiter *middleware.IPRateLimiter, calls *int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ok := func(c *gin.Context) {
		*calls++
		c.Status(http.StatusOK)
	}
	commerceRoutes{
		optionalAuth:   func(c *gin.Context) { c.Next() },
		quote:          ok,
		validateCoupon: ok,
		createSession:  ok,
	}.mount(r.Group("/api/v1"), limiter)
	return r
}

func postJSON(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(`{"items":[],"coupon_code":"SAVE10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCommerceRoutes_QuoteIsRateLimited(t *testing.T) {
	calls := 0
	r := stubCommerceEngine(middleware.NewIPRateLimiter(0.001, 2), &calls)

	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/cart/quote").Code)
	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/cart/quote").Code)

	w := postJSON(r, "/api/v1/cart/quote")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Equal(t, 2, calls)
}

func TestCommerceRoutes_ShareOneBudget(t *testing.T) {
	calls := 0
	r := stubCommerceEngine(middleware.NewIPRateLimiter(0.001, 2), &calls)

	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/cart/quote").Code)
	assert.Equal(t, http.StatusOK, postJSON(r, "/api/v1/coupons/validate").Code)

	// Switching endpoints does not reset the caller's budget.
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/v1/checkout/session").Code)
	assert.Equal(t, http.StatusTooManyRequests, postJSON(r, "/api/v1/cart/quote").Code)
	assert.Equal(t, 2, calls)
}
