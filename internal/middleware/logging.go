package middleware

import (
	"log/slog"
	"time"

	"uniconnect/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// ContextMiddleware copies the request id set by the requestid middleware
// into the request context so that context-aware logs carry it.
func ContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			ctx = observability.WithCorrelationID(ctx, rid)
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// StructuredLogger returns a Fiber middleware for logging requests using slog
func StructuredLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []any{
			slog.Int("status", status),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.String("ip", c.IP()),
			slog.Duration("latency", time.Since(start)),
			slog.String("user_agent", c.Get("User-Agent")),
		}

		// InfoContext/ErrorContext let the handler pick up correlation and actor ids
		logger := observability.GlobalLogger
		switch {
		case err != nil:
			fields = append(fields, slog.String("error", err.Error()))
			logger.ErrorContext(c.UserContext(), "request failed", fields...)
		case status >= fiber.StatusInternalServerError:
			logger.ErrorContext(c.UserContext(), "request failed", fields...)
		default:
			logger.InfoContext(c.UserContext(), "request processed", fields...)
		}

		return err
	}
}
