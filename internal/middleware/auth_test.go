package middleware

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ampmbg/backend/internal/config"
	"github.com/ampmbg/backend/internal/principal"
	"github.com/ampmbg/backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func guardConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "guard-test-secret",
		JWTAccessExpiry: time.Hour,
		JWTTempExpiry:   15 * time.Minute,
		AppEnv:          "test",
	}
}

// guardApp wires a route per guard chain. Session lookups are skipped in
// test-execution mode, so no database is needed.
func guardApp(cfg *config.Config) *fiber.App {
	app := fiber.New()

	echo := func(c *fiber.Ctx) error {
		p, err := principal.FromCtx(c)
		if err != nil {
			return c.SendString("anonymous")
		}
		return c.SendString(string(p.Kind))
	}

	app.Get("/user", JWTProtected(cfg), UserRequired(nil, cfg), echo)
	app.Get("/any", JWTProtected(cfg), Authenticated(nil, cfg), echo)
	app.Get("/reporter", JWTProtected(cfg), ReporterRequired(nil, cfg), echo)
	app.Get("/admin", JWTProtected(cfg), AdminRequired(nil, cfg), echo)
	app.Get("/complete", JWTProtected(cfg), TempAllowed(), echo)
	app.Get("/optional", OptionalAuth(cfg), echo)

	return app
}

func request(t *testing.T, app *fiber.App, path, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGuards_MissingToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	for _, path := range []string{"/user", "/reporter", "/admin", "/complete"} {
		code, body := request(t, app, path, "")
		assert.Equal(t, fiber.StatusUnauthorized, code, "path=%s", path)
		assert.Contains(t, body, "Invalid or expired token")
	}
}

func TestGuards_GarbageToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	code, body := request(t, app, "/user", "not.a.jwt")
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Contains(t, body, "Invalid or expired token")
}

func TestGuards_WrongSecret(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	other := guardConfig()
	other.JWTSecret = "a-different-secret"
	token, err := services.SignUserToken(other, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, _ := request(t, app, "/user", token)
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestUserRequired_AcceptsFullUser(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignUserToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/user", token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "user", body)
}

func TestUserRequired_RejectsTempToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignTempToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/user", token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Complete your registration first")
}

func TestUserRequired_RejectsAdminToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignAdminToken(cfg, uuid.New(), "admin@ampmbg.id")
	require.NoError(t, err)

	code, body := request(t, app, "/user", token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Access denied")
}

func TestReporterRequired_RejectsAdminExplicitly(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignAdminToken(cfg, uuid.New(), "admin@ampmbg.id")
	require.NoError(t, err)

	code, body := request(t, app, "/reporter", token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Admins cannot submit reports")
}

func TestReporterRequired_RejectsTempToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignTempToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/reporter", token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Complete your registration first")
}

func TestAdminRequired_RejectsUserToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignUserToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/admin", token)
	assert.Equal(t, fiber.StatusForbidden, code)
	assert.Contains(t, body, "Admin access required")
}

func TestAdminRequired_AcceptsAdminToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignAdminToken(cfg, uuid.New(), "admin@ampmbg.id")
	require.NoError(t, err)

	code, body := request(t, app, "/admin", token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "admin", body)
}

func TestTempAllowed_AcceptsBothUserTokens(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	temp, err := services.SignTempToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)
	full, err := services.SignUserToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, _ := request(t, app, "/complete", temp)
	assert.Equal(t, fiber.StatusOK, code)
	code, _ = request(t, app, "/complete", full)
	assert.Equal(t, fiber.StatusOK, code)
}

// Logout runs behind this guard, so every principal kind must resolve.
func TestAuthenticated_ResolvesEitherKind(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	user, err := services.SignUserToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)
	admin, err := services.SignAdminToken(cfg, uuid.New(), "admin@ampmbg.id")
	require.NoError(t, err)
	temp, err := services.SignTempToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/any", user)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "user", body)

	code, body = request(t, app, "/any", admin)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "admin", body)

	code, body = request(t, app, "/any", temp)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "user", body)
}

func TestAuthenticated_RejectsMissingToken(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	code, _ := request(t, app, "/any", "")
	assert.Equal(t, fiber.StatusUnauthorized, code)
}

func TestOptionalAuth_AnonymousPassesThrough(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	code, body := request(t, app, "/optional", "")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "anonymous", body)
}

func TestOptionalAuth_InvalidTokenStillPasses(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	code, body := request(t, app, "/optional", "broken.token.value")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "anonymous", body)
}

func TestOptionalAuth_ResolvesUser(t *testing.T) {
	cfg := guardConfig()
	app := guardApp(cfg)

	token, err := services.SignUserToken(cfg, uuid.New(), "warga@example.id")
	require.NoError(t, err)

	code, body := request(t, app, "/optional", token)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "user", body)
}
