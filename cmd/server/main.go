package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/config"
	appdb "github.com/yourorg/quizapi/internal/db"
	"github.com/yourorg/quizapi/internal/debug"
	"github.com/yourorg/quizapi/internal/middleware"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/routes"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DebugDashboard {
		debug.Enable()
	}

	// ============================================================================
	// DB CONNECTION
	// ============================================================================
	db, err := connect(ctx, cfg)
	if err != nil {
		log.Fatalf("database unavailable: %v", err)
	}
	defer db.Close()

	app := fiber.New(fiber.Config{
		AppName: "quizapi",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code == fiber.StatusInternalServerError {
				log.Printf("[server] %s %s: %v", c.Method(), c.Path(), err)
				return c.Status(code).JSON(models.ErrorResponse{Error: "Erreur serveur"})
			}
			return c.Status(code).JSON(models.ErrorResponse{Error: err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(middleware.DashboardLogger())
	app.Use(middleware.RateLimiter(cfg.APIRateLimit))

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	routes.Register(app, routes.NewHandlers(db, cfg, tokens), tokens, cfg)

	if cfg.DebugDashboard {
		go middleware.PeriodicMetricsCollector(ctx, 30*time.Second, db)
	}

	// ============================================================================
	// GRACEFUL SHUTDOWN
	// ============================================================================
	go func() {
		<-ctx.Done()
		log.Println("shutdown signal received, closing server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("error closing server: %v", err)
		}
	}()

	log.Printf("listening on :%s", cfg.Port)
	debug.LogInfo("server started", map[string]interface{}{"port": cfg.Port, "version": cfg.Version})

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
	log.Println("server closed")
}

// connect retries until the database answers and the schema is in place, or ctx is cancelled.
func connect(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	for {
		db, err := appdb.Connect(cfg)
		if err == nil {
			if err = appdb.EnsureSchema(ctx, db, cfg); err == nil {
				log.Println("database ready")
				return db, nil
			}
			db.Close()
			log.Printf("ensure schema error: %v (retrying in 5s)", err)
		} else {
			log.Printf("db connect error: %v (retrying in 5s)", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
}
