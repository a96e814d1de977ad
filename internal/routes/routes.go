package routes

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/config"
	"github.com/yourorg/quizapi/internal/debug"
	"github.com/yourorg/quizapi/internal/handlers"
	"github.com/yourorg/quizapi/internal/middleware"
	"github.com/yourorg/quizapi/internal/store"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Users     *handlers.UserHandler
	Quizzes   *handlers.QuizHandler
	Questions *handlers.QuestionHandler
	Health    *handlers.HealthHandler
}

// NewHandlers wires the MySQL stores into the HTTP handlers.
func NewHandlers(db *sql.DB, cfg *config.Config, tokens *auth.TokenManager) Handlers {
	return Handlers{
		Users:     handlers.NewUserHandler(store.NewUsers(db), auth.NewHasher(cfg.BcryptCost), tokens, cfg.QueryTimeout),
		Quizzes:   handlers.NewQuizHandler(store.NewQuizzes(db), cfg.QueryTimeout),
		Questions: handlers.NewQuestionHandler(store.NewQuestions(db), cfg.QueryTimeout),
		Health:    handlers.NewHealthHandler(db, cfg.Version),
	}
}

func Register(app *fiber.App, h Handlers, verifier middleware.TokenVerifier, cfg *config.Config) {
	gate := middleware.RequireAuth(verifier)

	app.Get("/health", h.Health.Health)

	// ============================================================================
	// USERS
	// ============================================================================
	users := app.Group("/users")
	users.Get("/", h.Users.List)
	users.Post("/create", h.Users.Create)
	users.Post("/login", middleware.LoginRateLimiter(cfg.LoginRateLimit), h.Users.Login)
	users.Put("/update/:id", h.Users.Update)
	users.Delete("/delete/:id", h.Users.Delete)
	users.Get("/:id", h.Users.Get)

	// ============================================================================
	// QUIZZES
	// ============================================================================
	// /visible is registered before /:id so it is not taken for an id.
	quizzes := app.Group("/quizzes")
	quizzes.Get("/", gate, h.Quizzes.List)
	quizzes.Get("/visible", h.Quizzes.ListVisible)
	quizzes.Post("/create", gate, h.Quizzes.Create)
	quizzes.Get("/:id", gate, h.Quizzes.Get)

	// ============================================================================
	// QUESTIONS
	// ============================================================================
	questions := app.Group("/questions")
	questions.Get("/", h.Questions.List)
	questions.Post("/create", gate, h.Questions.Create)

	if !cfg.DebugDashboard {
		return
	}

	// ============================================================================
	// DEBUG DASHBOARD WEBSOCKET
	// ============================================================================
	app.Use("/ws/debug", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/debug", websocket.New(debug.HandleWebSocket))
}
