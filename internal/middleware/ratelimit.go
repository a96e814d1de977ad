package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/yourorg/quizapi/internal/models"
)

func passThrough(c *fiber.Ctx) error { return c.Next() }

// RateLimiter caps every route at max requests per IP and minute. max <= 0 disables it.
func RateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return passThrough
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "trop de requêtes, réessayez dans une minute",
			})
		},
	})
}

// LoginRateLimiter limits credential checks to max attempts per IP and minute.
// The key includes the email so one client cannot lock out everybody behind a NAT.
// max <= 0 disables it.
func LoginRateLimiter(max int) fiber.Handler {
	if max <= 0 {
		return passThrough
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			var body models.LoginRequest
			_ = c.BodyParser(&body)
			return c.IP() + ":" + strings.ToLower(strings.TrimSpace(body.Email))
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse{
				Error:   "rate limit exceeded",
				Message: "trop de tentatives de connexion, réessayez dans une minute",
			})
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
