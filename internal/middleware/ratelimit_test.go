package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"uniconnect/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedApp(env string, rdb *redis.Client) *fiber.App {
	InitMiddleware(&config.Config{JWTSecret: testSecret, Env: env})
	app := fiber.New()
	app.Post("/login", RateLimit(rdb, 2, time.Minute, "login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func hit(t *testing.T, app *fiber.App) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/login", nil))
	require.NoError(t, err)
	_ = resp.Body.Close()
	return resp.StatusCode
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	t.Run("Enforced In Production", func(t *testing.T) {
		app := rateLimitedApp("production", rdb)
		assert.Equal(t, http.StatusOK, hit(t, app))
		assert.Equal(t, http.StatusOK, hit(t, app))
		assert.Equal(t, http.StatusTooManyRequests, hit(t, app))

		mr.FastForward(2 * time.Minute)
		assert.Equal(t, http.StatusOK, hit(t, app))
	})

	t.Run("Skipped In Development", func(t *testing.T) {
		mr.FlushAll()
		app := rateLimitedApp("development", rdb)
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, hit(t, app))
		}
	})

	t.Run("Fails Open Without Redis", func(t *testing.T) {
		app := rateLimitedApp("production", nil)
		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, hit(t, app))
		}
	})
}
