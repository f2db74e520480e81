package middleware

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func status(t *testing.T, app *fiber.App, method, target string, headers map[string]string) int {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestGatewayAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(GatewayAuthMiddleware("secret", "/health"))
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) }
	app.Get("/health", ok)
	app.Get("/s/thing", ok)

	assert.Equal(t, 200, status(t, app, "GET", "/health", nil))
	assert.Equal(t, 401, status(t, app, "GET", "/s/thing", nil))
	assert.Equal(t, 401, status(t, app, "GET", "/s/thing", map[string]string{"Authorization": "Bearer nope"}))
	assert.Equal(t, 200, status(t, app, "GET", "/s/thing", map[string]string{"Authorization": "Bearer secret"}))
	assert.Equal(t, 200, status(t, app, "GET", "/s/thing", map[string]string{"Authorization": "secret"}))
}

func TestUserContextAndRoles(t *testing.T) {
	app := fiber.New()
	secured := app.Group("/s", UserContextMiddleware())
	secured.Get("/me", func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})
	secured.Get("/admin", RequireRole(AdminRole), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	assert.Equal(t, 401, status(t, app, "GET", "/s/me", nil))
	assert.Equal(t, 401, status(t, app, "GET", "/s/me", map[string]string{"X-User-ID": "   "}))
	assert.Equal(t, 200, status(t, app, "GET", "/s/me", map[string]string{"X-User-ID": "u-1"}))

	assert.Equal(t, 403, status(t, app, "GET", "/s/admin", map[string]string{"X-User-ID": "u-1", "X-User-Roles": "player"}))
	assert.Equal(t, 200, status(t, app, "GET", "/s/admin", map[string]string{"X-User-ID": "u-1", "X-User-Roles": "player, admin"}))
}

type stubValidator map[string]string

func (s stubValidator) ResolveUser(_ context.Context, token, _ string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

func TestSSEAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/events", SSEAuthMiddleware(stubValidator{"good": "u-1"}), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("user_id").(string))
	})

	assert.Equal(t, 400, status(t, app, "GET", "/events?token=good", nil))
	assert.Equal(t, 401, status(t, app, "GET", "/events?token=bad&device_id=d", nil))
	assert.Equal(t, 200, status(t, app, "GET", "/events?token=good&device_id=d", nil))
}
