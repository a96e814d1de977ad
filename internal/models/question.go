package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Answers is the ordered list of answer strings of a question, stored as JSON text.
type Answers []string

// Value implements driver.Valuer.
func (a Answers) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *Answers) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*a = Answers{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("answers: unsupported column type %T", src)
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("answers: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	*a = list
	return nil
}

// Question represents a row of the questions table.
// CorrectAnswer is the zero-based index of the right entry in Answers.
type Question struct {
	ID            int64   `json:"id"`
	Text          string  `json:"text"`
	Answers       Answers `json:"answers"`
	CorrectAnswer int     `json:"correct_answer"`
	IDQuiz        int64   `json:"id_quiz"`
}

// QuestionCreateRequest is the body of POST /questions/create.
// The range of CorrectAnswer is checked against Answers by the validation package.
type QuestionCreateRequest struct {
	Text          string   `json:"text" validate:"required"`
	Answers       []string `json:"answers" validate:"required,min=1,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required"`
	IDQuiz        int64    `json:"id_quiz" validate:"required,gt=0"`
}
