package db

import (
	"context"
	"database/sql"
	"log"
	"net"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/yourorg/quizapi/internal/config"
)

// DSN builds the MariaDB/MySQL connection string for cfg.
func DSN(cfg *config.Config) string {
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.DBHost, cfg.DBPort)
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	// Rows matched rather than rows changed, so an update that rewrites identical values still counts.
	mc.ClientFoundRows = true
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc.FormatDSN()
}

// Connect opens the pool and checks that the server answers.
func Connect(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", DSN(cfg))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		firstname VARCHAR(100) NOT NULL,
		lastname VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		pass VARCHAR(255) NOT NULL,
		role ENUM('user','admin') NOT NULL DEFAULT 'user'
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS quizzes (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		text TEXT NOT NULL,
		is_visible TINYINT(1) NOT NULL DEFAULT 0,
		id_user BIGINT NOT NULL,
		INDEX idx_quizzes_visible (is_visible),
		FOREIGN KEY (id_user) REFERENCES users(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,

	`CREATE TABLE IF NOT EXISTS questions (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		text TEXT NOT NULL,
		answers TEXT NOT NULL,
		correct_answer INT NOT NULL,
		id_quiz BIGINT NOT NULL,
		FOREIGN KEY (id_quiz) REFERENCES quizzes(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// EnsureSchema creates required tables if not exist.
func EnsureSchema(ctx context.Context, db *sql.DB, cfg *config.Config) error {
	if cfg.DBSkipSchema {
		log.Printf("[db] EnsureSchema: skipped (DB_SKIP_SCHEMA)")
		return nil
	}
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
