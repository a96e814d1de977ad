package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/yourorg/quizapi/internal/models"
)

func newMock(t *testing.T) (sqlmock.Sqlmock, func() *Users, func() *Quizzes, func() *Questions) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("Unmet SQL expectations: %v", err)
		}
		db.Close()
	})
	return mock,
		func() *Users { return NewUsers(db) },
		func() *Quizzes { return NewQuizzes(db) },
		func() *Questions { return NewQuestions(db) }
}

func quizRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "title", "text", "is_visible", "id_user"}).
		AddRow(1, "Capitales", "Europe", true, 7)
}

func TestQuizListFiltersOnlyWhenAsked(t *testing.T) {
	mock, _, quizzes, _ := newMock(t)

	mock.ExpectQuery(`^SELECT id, title, text, is_visible, id_user FROM quizzes WHERE is_visible = 1 ORDER BY id$`).
		WithArgs().
		WillReturnRows(quizRows())
	list, err := quizzes().List(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || !list[0].IsVisible || list[0].IDUser != 7 {
		t.Errorf("Unexpected rows %+v", list)
	}

	mock.ExpectQuery(`^SELECT id, title, text, is_visible, id_user FROM quizzes ORDER BY id$`).
		WithArgs().
		WillReturnRows(quizRows().AddRow(2, "Brouillon", "WIP", false, 7))
	list, err = quizzes().List(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 {
		t.Errorf("Expected every quiz, got %d", len(list))
	}
}

func TestQuizGetAndCreate(t *testing.T) {
	mock, _, quizzes, _ := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM quizzes WHERE id = ?`)).
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "text", "is_visible", "id_user"}))
	if _, err := quizzes().Get(context.Background(), 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO quizzes (title, text, is_visible, id_user) VALUES (?, ?, ?, ?)`)).
		WithArgs("Histoire", "XXe", false, int64(42)).
		WillReturnResult(sqlmock.NewResult(5, 1))
	id, err := quizzes().Create(context.Background(), models.Quiz{Title: "Histoire", Text: "XXe", IDUser: 42})
	if err != nil || id != 5 {
		t.Errorf("Expected id 5, got %d %v", id, err)
	}
}

func TestQuestionCreateOwnershipArgs(t *testing.T) {
	insert := regexp.QuoteMeta(`INSERT INTO questions (text, answers, correct_answer, id_quiz)`) +
		`\s+` + regexp.QuoteMeta(`SELECT ?, ?, ?, id FROM quizzes`) +
		`\s+` + regexp.QuoteMeta(`WHERE id = ? AND (id_user = ? OR ?)`)
	q := models.Question{Text: "Capitale ?", Answers: models.Answers{"Lyon", "Paris"}, CorrectAnswer: 1, IDQuiz: 3}

	tests := []struct {
		name   string
		admin  bool
		result driver.Result
		wantID int64
		want   error
	}{
		{"owner inserts", false, sqlmock.NewResult(11, 1), 11, nil},
		{"admin bypass is bound", true, sqlmock.NewResult(12, 1), 12, nil},
		{"not owned", false, sqlmock.NewResult(0, 0), 0, ErrQuizNotOwned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, _, _, questions := newMock(t)
			mock.ExpectExec(insert).
				WithArgs("Capitale ?", `["Lyon","Paris"]`, 1, int64(3), int64(7), tt.admin).
				WillReturnResult(tt.result)

			id, err := questions().Create(context.Background(), q, 7, tt.admin)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Expected %v, got %v", tt.want, err)
			}
			if id != tt.wantID {
				t.Errorf("Expected id %d, got %d", tt.wantID, id)
			}
		})
	}
}

func TestQuestionListDecodesAnswers(t *testing.T) {
	mock, _, _, questions := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, text, answers, correct_answer, id_quiz FROM questions ORDER BY id`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "text", "answers", "correct_answer", "id_quiz"}).
			AddRow(1, "Capitale ?", []byte(`["Lyon","Paris"]`), 1, 3))

	list, err := questions().List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || len(list[0].Answers) != 2 || list[0].Answers[1] != "Paris" {
		t.Errorf("Unexpected rows %+v", list)
	}
}

func TestUserWritesMapAffectedRows(t *testing.T) {
	update := regexp.QuoteMeta(`UPDATE users SET firstname = ?, lastname = ?, email = ?, pass = ?, role = ? WHERE id = ?`)
	remove := regexp.QuoteMeta(`DELETE FROM users WHERE id = ?`)
	u := models.User{Firstname: "A", Lastname: "B", Email: "a@b.com", Pass: "$2a$hash", Role: models.RoleAdmin}

	mock, users, _, _ := newMock(t)

	mock.ExpectExec(update).
		WithArgs("A", "B", "a@b.com", "$2a$hash", "admin", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	if err := users().Update(context.Background(), 4, u); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(update).
		WithArgs("A", "B", "a@b.com", "$2a$hash", "admin", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	if err := users().Update(context.Background(), 1, u); err != nil {
		t.Errorf("Update: expected success, got %v", err)
	}

	mock.ExpectExec(remove).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	if err := users().Delete(context.Background(), 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: expected ErrNotFound, got %v", err)
	}

	mock.ExpectExec(remove).WithArgs(int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := users().Delete(context.Background(), 1); err != nil {
		t.Errorf("Delete: expected success, got %v", err)
	}
}

func TestUserCreateAndLookup(t *testing.T) {
	mock, users, _, _ := newMock(t)
	insert := regexp.QuoteMeta(`INSERT INTO users (firstname, lastname, email, pass, role) VALUES (?, ?, ?, ?, ?)`)
	u := models.User{Firstname: "A", Lastname: "B", Email: "a@b.com", Pass: "$2a$hash", Role: models.RoleUser}

	mock.ExpectExec(insert).
		WithArgs("A", "B", "a@b.com", "$2a$hash", "user").
		WillReturnResult(sqlmock.NewResult(3, 1))
	if id, err := users().Create(context.Background(), u); err != nil || id != 3 {
		t.Errorf("Expected id 3, got %d %v", id, err)
	}

	mock.ExpectExec(insert).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'a@b.com' for key 'email'"})
	if _, err := users().Create(context.Background(), u); !errors.Is(err, ErrDuplicate) {
		t.Errorf("Expected ErrDuplicate, got %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE email = ?`)).
		WithArgs("nobody@b.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "firstname", "lastname", "email", "pass", "role"}))
	if _, err := users().FindByEmail(context.Background(), "nobody@b.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = ?`)).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "firstname", "lastname", "email", "pass", "role"}))
	rows, err := users().Get(context.Background(), 99)
	if err != nil || rows == nil || len(rows) != 0 {
		t.Errorf("Expected an empty, non-nil row set, got %v %v", rows, err)
	}
}
