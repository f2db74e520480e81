package handlers

import (
	"finquest-progression/middleware"
	"finquest-progression/services"

	"github.com/gofiber/fiber/v2"
)

// StreamPath is the SSE endpoint for level-up and achievement toasts.
const StreamPath = "/events/progression"

// SetupStreamRoutes mounts the SSE endpoint. Browsers cannot set headers on
// EventSource, so identity comes from the token query param instead of the
// gateway user context.
func SetupStreamRoutes(app *fiber.App, stream *services.EventStream, auth middleware.TokenValidator) {
	app.Get(StreamPath, middleware.SSEAuthMiddleware(auth), stream.Serve)
}
