// middleware/sse_auth.go
package middleware

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator resolves an end-user access token to a user id.
type TokenValidator interface {
	ResolveUser(ctx context.Context, accessToken, deviceID string) (userID string, err error)
}

// SSEAuthMiddleware validates `token` and `device_id` from query params,
// since EventSource cannot send headers.
func SSEAuthMiddleware(v TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		accessToken := strings.TrimSpace(c.Query("token"))
		deviceID := strings.TrimSpace(c.Query("device_id"))

		if accessToken == "" || deviceID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing token or device_id in query",
			})
		}

		userID, err := v.ResolveUser(c.UserContext(), accessToken, deviceID)
		if err != nil {
			log.Printf("[SSEAuth] ❌ Validation failed for device %s: %v", deviceID, err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		c.Locals("user_id", userID)
		log.Printf("[SSEAuth] ✅ Authenticated user %s (device %s)", userID, deviceID)
		return c.Next()
	}
}
