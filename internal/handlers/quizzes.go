package handlers

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/quizapi/internal/middleware"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/store"
	"github.com/yourorg/quizapi/internal/validation"
)

const (
	msgQuizCreated  = "Quiz créé avec succès"
	msgQuizNotFound = "Quiz introuvable"
)

type QuizStore interface {
	List(ctx context.Context, visibleOnly bool) ([]models.Quiz, error)
	Get(ctx context.Context, id int64) (models.Quiz, error)
	Create(ctx context.Context, q models.Quiz) (int64, error)
}

type QuizHandler struct {
	quizzes QuizStore
	timeout time.Duration
}

func NewQuizHandler(quizzes QuizStore, timeout time.Duration) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, timeout: timeout}
}

// List handles GET /quizzes. Admins see every quiz, everybody else only the visible ones.
func (h *QuizHandler) List(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	return h.list(c, !identity.Role.IsAdmin())
}

// ListVisible handles GET /quizzes/visible.
func (h *QuizHandler) ListVisible(c *fiber.Ctx) error {
	return h.list(c, true)
}

func (h *QuizHandler) list(c *fiber.Ctx, visibleOnly bool) error {
	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	quizzes, err := h.quizzes.List(ctx, visibleOnly)
	if err != nil {
		return serverError(c, "quizzes", err)
	}
	return c.JSON(quizzes)
}

// Create handles POST /quizzes/create. The caller becomes the owner.
func (h *QuizHandler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.QuizCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody)
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Text = strings.TrimSpace(req.Text)
	if err := validation.ValidateQuiz(req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	id, err := h.quizzes.Create(ctx, models.Quiz{
		Title:     req.Title,
		Text:      req.Text,
		IsVisible: bool(*req.IsVisible),
		IDUser:    identity.ID,
	})
	if err != nil {
		return serverError(c, "quizzes", err)
	}

	log.Printf("[quizzes] created id=%d by user id=%d", id, identity.ID)
	return c.JSON(models.MessageResponse{Message: msgQuizCreated, ID: id})
}

// Get handles GET /quizzes/:id. The row is read first; a hidden quiz is then
// refused to anyone but an admin.
func (h *QuizHandler) Get(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthenticated(c)
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	quiz, err := h.quizzes.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, msgQuizNotFound)
	}
	if err != nil {
		return serverError(c, "quizzes", err)
	}

	if !quiz.IsVisible && !identity.Role.IsAdmin() {
		return forbidden(c, "ce quiz n'est pas visible")
	}
	return c.JSON([]models.Quiz{quiz})
}
