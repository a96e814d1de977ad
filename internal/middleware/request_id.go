package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

// RequestID tags every request and response with an X-Request-ID (a random UUID
// unless the client already sent one).
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: "requestid",
	})
}

// RequestIDFrom returns the id assigned by RequestID, or "" when the middleware is not mounted.
func RequestIDFrom(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
