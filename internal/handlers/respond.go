package handlers

import (
	"context"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/quizapi/internal/debug"
	"github.com/yourorg/quizapi/internal/middleware"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/validation"
)

var errInvalidBody = errors.New("corps de requête JSON invalide")

const (
	msgServerError = "Erreur serveur"
	msgHashError   = "Erreur de hachage"
	msgBadRequest  = "Requête invalide"
	msgForbidden   = "Forbidden"
)

// queryContext bounds a store call by the configured query timeout.
func queryContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// serverError logs err with its scope and answers a generic 500; driver
// messages never reach the client.
func serverError(c *fiber.Ctx, scope string, err error) error {
	log.Printf("[%s] %s %s (request %s): %v", scope, c.Method(), c.Path(), middleware.RequestIDFrom(c), err)
	debug.LogError(scope+": "+err.Error(), map[string]interface{}{
		"path":       c.Path(),
		"request_id": middleware.RequestIDFrom(c),
	})
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: msgServerError})
}

func hashError(c *fiber.Ctx, err error) error {
	log.Printf("[auth] bcrypt error on %s %s: %v", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: msgHashError})
}

func badRequest(c *fiber.Ctx, err error) error {
	resp := models.ErrorResponse{Error: msgBadRequest, Message: err.Error()}
	var fe *validation.FieldError
	if errors.As(err, &fe) {
		resp.Message = fe.Message
		resp.Fields = fe.Fields
	}
	return c.Status(fiber.StatusBadRequest).JSON(resp)
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse{Error: msgForbidden, Message: message})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{Error: message})
}

// paramID parses a positive numeric path parameter.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &validation.FieldError{Fields: []string{name}, Message: "identifiant numérique attendu"}
	}
	return id, nil
}

// unauthenticated covers a protected handler mounted without RequireAuth.
func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "Unauthorized"})
}
