package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yourorg/quizapi/internal/auth"
	"github.com/yourorg/quizapi/internal/config"
	appdb "github.com/yourorg/quizapi/internal/db"
	"github.com/yourorg/quizapi/internal/models"
	"github.com/yourorg/quizapi/internal/store"
	"github.com/yourorg/quizapi/internal/validation"
)

func main() {
	_ = godotenv.Load()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== Quiz API CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Seed database (create admin account)")
		fmt.Println("3) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doSeed()
		case "3":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(strings.TrimRight(base, "/") + "/health")
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

// doSeed creates the admin account named by SEED_ADMIN_EMAIL / SEED_ADMIN_PASS
// so the first admin does not have to go through the public create route.
func doSeed() {
	cfg := config.Load()
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	pass := os.Getenv("SEED_ADMIN_PASS")
	if email == "" || pass == "" {
		fmt.Println("Seed: SEED_ADMIN_EMAIL and SEED_ADMIN_PASS must be set")
		return
	}

	admin := models.UserRequest{
		Firstname: "Admin",
		Lastname:  "Quiz",
		Email:     email,
		Pass:      pass,
		Role:      models.RoleAdmin,
	}
	if err := validation.ValidateUser(admin); err != nil {
		fmt.Println("Seed:", err)
		return
	}

	db, err := appdb.Connect(cfg)
	if err != nil {
		log.Println("DB connect error:", err)
		return
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := appdb.EnsureSchema(ctx, db, cfg); err != nil {
		log.Println("Ensure schema error:", err)
		return
	}

	hash, err := auth.NewHasher(cfg.BcryptCost).Hash(admin.Pass)
	if err != nil {
		fmt.Println("Seed: bcrypt error:", err)
		return
	}

	id, err := store.NewUsers(db).Create(ctx, models.User{
		Firstname: admin.Firstname,
		Lastname:  admin.Lastname,
		Email:     admin.Email,
		Pass:      hash,
		Role:      admin.Role,
	})
	switch {
	case errors.Is(err, store.ErrDuplicate):
		fmt.Printf("Seed: %s already exists\n", email)
	case err != nil:
		fmt.Println("Seed: insert error:", err)
	default:
		fmt.Printf("Seed: created admin %s (id %d)\n", email, id)
	}
}
