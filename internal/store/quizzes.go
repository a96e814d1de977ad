package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/yourorg/quizapi/internal/models"
)

const quizColumns = `id, title, text, is_visible, id_user`

type Quizzes struct {
	db *sql.DB
}

func NewQuizzes(db *sql.DB) *Quizzes {
	return &Quizzes{db: db}
}

// List returns every quiz, or only the visible ones when visibleOnly is set.
func (s *Quizzes) List(ctx context.Context, visibleOnly bool) ([]models.Quiz, error) {
	query := `SELECT ` + quizColumns + ` FROM quizzes`
	if visibleOnly {
		query += ` WHERE is_visible = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	quizzes := []models.Quiz{}
	for rows.Next() {
		var q models.Quiz
		if err := rows.Scan(&q.ID, &q.Title, &q.Text, &q.IsVisible, &q.IDUser); err != nil {
			return nil, err
		}
		quizzes = append(quizzes, q)
	}
	return quizzes, rows.Err()
}

func (s *Quizzes) Get(ctx context.Context, id int64) (models.Quiz, error) {
	var q models.Quiz
	err := s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id = ?`, id).
		Scan(&q.ID, &q.Title, &q.Text, &q.IsVisible, &q.IDUser)
	if errors.Is(err, sql.ErrNoRows) {
		return q, ErrNotFound
	}
	return q, err
}

// Create inserts q, owned by q.IDUser, and returns the new id.
func (s *Quizzes) Create(ctx context.Context, q models.Quiz) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO quizzes (title, text, is_visible, id_user) VALUES (?, ?, ?, ?)`,
		q.Title, q.Text, q.IsVisible, q.IDUser)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}
