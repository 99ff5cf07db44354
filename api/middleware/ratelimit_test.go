package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"amiasbakery_server/structs"

	"github.com/stretchr/testify/assert"
)

func TestRateLimitForEndpoint(t *testing.T) {
	mw := &Middleware{cfg: &structs.Config{RateLimit: &structs.RateLimitConfig{
		GeneralLimit:   120,
		GeneralWindow:  time.Minute,
		CheckoutLimit:  10,
		CheckoutWindow: 2 * time.Minute,
		AdminLimit:     60,
		AdminWindow:    30 * time.Second,
	}}}

	limit, window := mw.getRateLimitForEndpoint("/api/checkout/create-square-link")
	assert.Equal(t, 10, limit)
	assert.Equal(t, 2*time.Minute, window)

	limit, window = mw.getRateLimitForEndpoint("/admin/orders")
	assert.Equal(t, 60, limit)
	assert.Equal(t, 30*time.Second, window)

	limit, _ = mw.getRateLimitForEndpoint("/menu/seasonal_menu")
	assert.Equal(t, 120, limit)
}

func TestExemptFromRateLimit(t *testing.T) {
	for _, path := range []string{"/", "/metrics", "/api/square/webhook", "/health/database"} {
		assert.True(t, exemptFromRateLimit(path), path)
	}
	for _, path := range []string{"/api/checkout/create-square-link", "/menu/menu", "/admin/orders"} {
		assert.False(t, exemptFromRateLimit(path), path)
	}
}

func TestRateLimitBucket(t *testing.T) {
	assert.Equal(t, "/admin/orders/:id", rateLimitBucket("/admin/orders/3b8e6a70-4c1f-4f0e-9a55-1f7c2d9e0a11"))
	assert.Equal(t, "/admin/orders/sweep", rateLimitBucket("/admin/orders/sweep"))
	assert.Equal(t, "/menu/:page", rateLimitBucket("/menu/farmers_market/"))
	assert.Equal(t, "/pickup-slots", rateLimitBucket("/pickup-slots"))
}

func TestGetClientIP(t *testing.T) {
	mw := &Middleware{}

	r := httptest.NewRequest("GET", "/menu/menu", nil)
	r.RemoteAddr = "203.0.113.7:52100"
	assert.Equal(t, "203.0.113.7", mw.getClientIP(r))

	r.RemoteAddr = "203.0.113.8"
	assert.Equal(t, "203.0.113.8", mw.getClientIP(r))
}
