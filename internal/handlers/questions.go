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

const msgQuestionCreated = "Question créé avec succès"

type QuestionStore interface {
	List(ctx context.Context) ([]models.Question, error)
	Create(ctx context.Context, q models.Question, ownerID int64, admin bool) (int64, error)
}

type QuestionHandler struct {
	questions QuestionStore
	timeout   time.Duration
}

func NewQuestionHandler(questions QuestionStore, timeout time.Duration) *QuestionHandler {
	return &QuestionHandler{questions: questions, timeout: timeout}
}

// List handles GET /questions.
func (h *QuestionHandler) List(c *fiber.Ctx) error {
	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	questions, err := h.questions.List(ctx)
	if err != nil {
		return serverError(c, "questions", err)
	}
	return c.JSON(questions)
}

// Create handles POST /questions/create. Only the quiz owner (or an admin) may add questions.
func (h *QuestionHandler) Create(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return unauthenticated(c)
	}

	var req models.QuestionCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, errInvalidBody)
	}
	req.Text = strings.TrimSpace(req.Text)
	if err := validation.ValidateQuestion(req); err != nil {
		return badRequest(c, err)
	}

	ctx, cancel := queryContext(c, h.timeout)
	defer cancel()

	id, err := h.questions.Create(ctx, models.Question{
		Text:          req.Text,
		Answers:       models.Answers(req.Answers),
		CorrectAnswer: *req.CorrectAnswer,
		IDQuiz:        req.IDQuiz,
	}, identity.ID, identity.Role.IsAdmin())
	if errors.Is(err, store.ErrQuizNotOwned) {
		log.Printf("[questions] user id=%d refused on quiz id=%d", identity.ID, req.IDQuiz)
		return forbidden(c, "quiz inexistant ou appartenant à un autre utilisateur")
	}
	if err != nil {
		return serverError(c, "questions", err)
	}

	return c.JSON(models.MessageResponse{Message: msgQuestionCreated, Name: req.Text, ID: id})
}
