package store

import (
	"context"
	"database/sql"

	"github.com/yourorg/quizapi/internal/models"
)

type Questions struct {
	db *sql.DB
}

func NewQuestions(db *sql.DB) *Questions {
	return &Questions{db: db}
}

func (s *Questions) List(ctx context.Context) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, answers, correct_answer, id_quiz FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Text, &q.Answers, &q.CorrectAnswer, &q.IDQuiz); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Create inserts q only if quiz q.IDQuiz exists and belongs to ownerID. Admins
// may add questions to any quiz. The check and the insert are one statement.
func (s *Questions) Create(ctx context.Context, q models.Question, ownerID int64, admin bool) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO questions (text, answers, correct_answer, id_quiz)
		SELECT ?, ?, ?, id FROM quizzes
		WHERE id = ? AND (id_user = ? OR ?)
	`, q.Text, q.Answers, q.CorrectAnswer, q.IDQuiz, ownerID, admin)
	if err != nil {
		return 0, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return 0, err
	} else if n == 0 {
		return 0, ErrQuizNotOwned
	}
	return res.LastInsertId()
}
