package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/quizapi/internal/debug"
)

// DashboardLogger pushes one line per request to the debug dashboard.
func DashboardLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !debug.IsEnabled() {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()

		metadata := map[string]interface{}{
			"method":      c.Method(),
			"path":        c.Path(),
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.IP(),
			"request_id":  RequestIDFrom(c),
		}
		if identity, ok := IdentityFrom(c); ok {
			metadata["user_id"] = identity.ID
			metadata["role"] = identity.Role
		}

		debug.SendLog("backend", debug.LevelForStatus(status), c.Method()+" "+c.Path(), metadata)
		return err
	}
}
