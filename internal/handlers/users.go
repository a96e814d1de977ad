package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/store"
	"github.com/yourorg/quizapi/internal/validation"
)

const (
	msgUserCreated   = "Utilisateur/trice créé/e avec succès"
	msgUserUpdated   = "Utilisateur/trice modifié/e"
	msgUserDeleted   = "Utilisateur/trice éffacé/e"
	msgUserNotFound  = "Utilisateur/trice introuvable"
	msgEmailTaken    = "Cette adresse e-mail est déjà utilisée"
	msgBadCredential = "E-mail ou mot de passe incorrect."
)

// UserStore is the persistence the user routes need.
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) ([]models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	Create(ctx context.Context, u models.User) (int64, error)
	Update(ctx context.Context, id int64, u models.User) error
	Delete(ctx context.Context, id int64) error
}

// TokenIssuer signs identity tokens at login.
type TokenIssuer interface {
	Issue(userID int64, role models.Role) (string, time.Time, error)
}

type UserHandler struct {
	users   UserStore
	hasher  *auth.Hasher
	tokens  TokenIssuer
	timeout time.Duration
}

func NewUserHandler(users UserStore, hasher *auth.Hasher, tokens TokenIssuer, timeout time.Duration) *UserHandler {
	return &UserHandler{users: users, hasher: hasher, tokens: tokens, timeout: timeout}
}

// List handles GET /users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	users, err := h.users.List(ctx)
	if err != nil {
		return serverError(c, "users", err)
	}
	return c.JSON(users)
}

// Get handles GET /users/:id and answers the matching row set.
func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	users, err := h.users.Get(ctx, id)
	if err != nil {
		return serverError(c, "users", err)
	}
	return c.JSON(users)
}

// Create handles POST /users/create.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	req, err := decodeUser(c)
	if err != nil {
		return badRequest(c, err)
	}

	hash, err := h.hasher.Hash(req.Pass)
	if err != nil {
		return hashError(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	id, err := h.users.Create(ctx, models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Pass:      hash,
		Role:      req.Role,
	})
	if errors.Is(err, store.ErrDuplicate) {
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: msgEmailTaken})
	}
	if err != nil {
		return serverError(c, "users", err)
	}

	log.Printf("[users] created id=%d role=%s", id, req.Role)
	return c.JSON(models.MessageResponse{Message: msgUserCreated, Name: req.Firstname, ID: id})
}

// Login handles POST /users/login.
func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody)
	}
	req.Email = normalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	user, err := h.users.FindByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		log.Printf("[auth] login failed: unknown email")
		return invalidCredentials(c)
	}
	if err != nil {
		return serverError(c, "users", err)
	}

	ok, err := h.hasher.Verify(req.Pass, user.Pass)
	if err != nil {
		return hashError(c, err)
	}
	if !ok {
		log.Printf("[auth] login failed: wrong password for user id=%d", user.ID)
		return invalidCredentials(c)
	}

	token, expiresAt, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return serverError(c, "auth", err)
	}

	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(models.LoginResponse{Token: token, ExpiresAt: expiresAt})
}

// Update handles PUT /users/update/:id: every column is replaced and the password re-hashed.
func (h *UserHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}
	req, err := decodeUser(c)
	if err != nil {
		return badRequest(c, err)
	}

	hash, err := h.hasher.Hash(req.Pass)
	if err != nil {
		return hashError(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	err = h.users.Update(ctx, id, models.User{
		Firstname: req.Firstname,
		Lastname:  req.Lastname,
		Email:     req.Email,
		Pass:      hash,
		Role:      req.Role,
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(c, msgUserNotFound)
	case errors.Is(err, store.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: msgEmailTaken})
	case err != nil:
		return serverError(c, "users", err)
	}
	return c.JSON(models.MessageResponse{Message: msgUserUpdated})
}

// Delete handles DELETE /users/delete/:id.
func (h *UserHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	err = h.users.Delete(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, msgUserNotFound)
	}
	if err != nil {
		return serverError(c, "users", err)
	}
	return c.JSON(models.MessageResponse{Message: msgUserDeleted})
}

// decodeUser parses and validates a create/update body.
func decodeUser(c *fiber.Ctx) (models.UserRequest, error) {
	var req models.UserRequest
	if err := c.BodyParser(&req); err != nil {
		return req, errInvalidBody
	}
	req.Firstname = strings.TrimSpace(req.Firstname)
	req.Lastname = strings.TrimSpace(req.Lastname)
	req.Email = normalizeEmail(req.Email)

	return req, validation.ValidateUser(req)
}

func invalidCredentials(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Message: msgBadCredential})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
