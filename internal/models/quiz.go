package models

import (
	"bytes"
	"fmt"
)

// Quiz represents a row of the quizzes table.
type Quiz struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Text      string `json:"text"`
	IsVisible bool   `json:"is_visible"`
	IDUser    int64  `json:"id_user"`
}

// Flag is a boolean that also decodes from the 0/1 integers of a tinyint column.
type Flag bool

// UnmarshalJSON accepts true, false, 1 and 0.
func (f *Flag) UnmarshalJSON(data []byte) error {
	switch string(bytes.TrimSpace(data)) {
	case "true", "1":
		*f = true
	case "false", "0":
		*f = false
	default:
		return fmt.Errorf("flag: expected a boolean or 0/1, got %s", data)
	}
	return nil
}

// QuizCreateRequest is the body of POST /quizzes/create. The owner comes from the token.
type QuizCreateRequest struct {
	Title     string `json:"title" validate:"required"`
	Text      string `json:"text" validate:"required"`
	IsVisible *Flag  `json:"is_visible" validate:"required"`
}
