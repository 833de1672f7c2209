package middleware

import (
	"context"
	"fmt"
	"time"

	"uniconnect/internal/models"
	"uniconnect/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// CheckRateLimit counts one hit for id on resource and reports whether it
// stays within limit for the current window.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, resource, id string, limit int, window time.Duration) (bool, error) {
	if rdb == nil {
		return false, fmt.Errorf("redis client is nil")
	}

	key := fmt.Sprintf("rl:%s:%s", resource, id)
	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		rdb.Expire(ctx, key, window)
	}
	return cnt <= int64(limit), nil
}

// RateLimit allows limit requests per window for each user, or for each IP
// before authentication. Without Redis the request goes through.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// Local and test workflows are never throttled
		if cfg != nil && (cfg.Env == "test" || cfg.Env == "development") {
			return c.Next()
		}

		id := "ip:" + c.IP()
		if uid, ok := c.Locals("userID").(uint); ok && uid != 0 {
			id = fmt.Sprintf("user:%d", uid)
		}

		allowed, err := CheckRateLimit(c.UserContext(), rdb, resource, id, limit, window)
		if err != nil {
			observability.GlobalLogger.DebugContext(c.UserContext(), "rate limit store unavailable",
				"resource", resource, "error", err.Error())
			return c.Next()
		}
		if !allowed {
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: "RATE_LIMITED", Message: "rate limit exceeded"})
		}
		return c.Next()
	}
}
