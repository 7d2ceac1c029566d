package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/stopsequencer/internal/pkg/logging"
)

// RequestIDLogMiddleware copies the Fiber request ID into the user context
// together with a request-scoped *slog.Logger, so services can call
// logging.FromContext and logging.RequestID.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ridStr, ok := c.Locals("requestid").(string)
		if !ok || ridStr == "" {
			return c.Next()
		}

		reqLogger := slog.Default().With("request_id", ridStr)

		ctx := logging.WithRequestID(c.UserContext(), ridStr)
		ctx = logging.WithLogger(ctx, reqLogger)
		c.SetUserContext(ctx)

		return c.Next()
	}
}
