package middleware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/debug"
	"github.com/yourorg/quizapi/internal/models"
)

const identityKey = "identity"

// TokenVerifier is the part of auth.TokenManager the gate needs.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// verified identity in the request locals for the next handler.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return unauthorized(c, "jeton d'authentification manquant")
		}

		identity, err := verifier.Verify(token)
		if err != nil {
			expired := errors.Is(err, auth.ErrExpiredToken)
			if expired {
				log.Printf("[auth] expired token on %s %s", c.Method(), c.Path())
			} else {
				log.Printf("[auth] rejected token on %s %s: %v", c.Method(), c.Path(), err)
			}
			debug.LogWarn("token rejected", map[string]interface{}{
				"path":    c.Path(),
				"expired": expired,
			})
			return unauthorized(c, "jeton d'authentification invalide ou expiré")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFrom returns the identity attached by RequireAuth.
func IdentityFrom(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error:   "Unauthorized",
		Message: message,
	})
}
