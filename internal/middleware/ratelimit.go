package middleware

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/dto"
	"github.com/ampmbg/backend/internal/ratelimit"
	"github.com/gofiber/fiber/v2"
)

var ipPattern = regexp.MustCompile(`^[\d.:a-fA-F]+$`)

// ClientIP resolves the caller's address from edge headers, most trusted
// first. Anything unparseable collapses into a shared "unknown" bucket so
// spoofed headers cannot mint fresh rate-limit counters.
func ClientIP(c *fiber.Ctx) string {
	candidates := []string{
		c.Get("CF-Connecting-IP"),
		c.Get("X-Real-IP"),
	}
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		candidates = append(candidates, strings.TrimSpace(strings.Split(fwd, ",")[0]))
	}

	for _, candidate := range candidates {
		if candidate != "" && ipPattern.MatchString(candidate) {
			return candidate
		}
	}
	return "unknown"
}

// RateLimit enforces a fixed window of max requests per client+path.
// Rejections carry Retry-After in whole seconds. Bypassed entirely in
// test-execution mode.
func RateLimit(store *ratelimit.Store, cfg *config.Config, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.IsTest() {
			return c.Next()
		}

		key := ClientIP(c) + ":" + c.Path()
		allowed, retryAfter := store.Allow(key, max, window)
		if !allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
			return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
				Error: "Too many requests",
			})
		}
		return c.Next()
	}
}
