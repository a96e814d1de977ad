package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process-wide settings. It is read once at startup and never mutated afterwards.
type Config struct {
	Port string

	DBUser       string
	DBPass       string
	DBHost       string
	DBPort       string
	DBName       string
	DBSkipSchema bool
	QueryTimeout time.Duration

	JWTSecret  string
	BcryptCost int

	// LoginRateLimit is the number of login attempts allowed per IP and minute. Zero disables it.
	LoginRateLimit int
	// APIRateLimit caps requests per IP and minute across every route. Zero disables it.
	APIRateLimit int

	DebugDashboard bool
	Version        string
}

// Load builds a Config from the environment. Call godotenv.Load before it to pick up a .env file.
func Load() *Config {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DBUser:         getEnv("DB_USER", "root"),
		DBPass:         os.Getenv("DB_PASS"),
		DBHost:         getEnv("DB_HOST", "127.0.0.1"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBName:         getEnv("DB_NAME", "quiz"),
		DBSkipSchema:   getBool("DB_SKIP_SCHEMA"),
		QueryTimeout:   getDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		JWTSecret:      strings.TrimSpace(os.Getenv("JWT_SECRET")),
		BcryptCost:     getInt("BCRYPT_COST", 10),
		LoginRateLimit: getInt("LOGIN_RATE_LIMIT", 10),
		APIRateLimit:   getInt("API_RATE_LIMIT", 100),
		DebugDashboard: getBool("DEBUG_DASHBOARD"),
		Version:        os.Getenv("APP_VERSION"),
	}

	switch {
	case cfg.JWTSecret == "":
		log.Println("[config] WARNING: JWT_SECRET is not set, login will fail until it is configured")
	case len(cfg.JWTSecret) < 32:
		log.Printf("[config] WARNING: JWT_SECRET is only %d characters long, use at least 32", len(cfg.JWTSecret))
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getBool(key string) bool {
	v := strings.TrimSpace(os.Getenv(key))
	return strings.EqualFold(v, "true") || v == "1"
}

func getInt(key string, defaultValue int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		log.Printf("[config] invalid %s=%q, using default %d", key, v, defaultValue)
		return defaultValue
	}
	return n
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] invalid %s=%q, using default %s", key, v, defaultValue)
		return defaultValue
	}
	return d
}
