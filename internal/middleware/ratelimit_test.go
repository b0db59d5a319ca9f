package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientIP(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/", func(c *fiber.Ctx) error {
		got = ClientIP(c)
		return c.SendStatus(fiber.StatusOK)
	})

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"no headers", nil, "unknown"},
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7"}, "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "198.51.100.4"},
		{"forwarded chain takes first", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "203.0.113.7"},
		{"cloudflare wins over forwarded", map[string]string{
			"CF-Connecting-IP": "203.0.113.7",
			"X-Forwarded-For":  "198.51.100.4",
		}, "203.0.113.7"},
		{"ipv6", map[string]string{"X-Real-IP": "2001:db8::1"}, "2001:db8::1"},
		{"spoofed garbage collapses", map[string]string{"X-Real-IP": "evil; DROP TABLE"}, "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			_, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRateLimit_DeniesOverLimit(t *testing.T) {
	cfg := &config.Config{AppEnv: "development"}
	store := ratelimit.NewStore()

	app := fiber.New()
	app.Get("/limited", RateLimit(store, cfg, 2, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestRateLimit_PathsCountSeparately(t *testing.T) {
	cfg := &config.Config{AppEnv: "development"}
	store := ratelimit.NewStore()

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/a", RateLimit(store, cfg, 1, time.Minute), ok)
	app.Get("/b", RateLimit(store, cfg, 1, time.Minute), ok)

	resp, err := app.Test(httptest.NewRequest("GET", "/a", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/a", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/b", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRateLimit_BypassedInTestMode(t *testing.T) {
	cfg := &config.Config{AppEnv: "test"}
	store := ratelimit.NewStore()

	app := fiber.New()
	app.Get("/limited", RateLimit(store, cfg, 1, time.Minute), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/limited", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
	assert.Zero(t, store.Len())
}
