package models

import "time"

// LoginRequest represents credentials provided by the client.
type LoginRequest struct {
	Email string `json:"email" validate:"required"`
	Pass  string `json:"pass" validate:"required"`
}

// LoginResponse is returned upon successful authentication.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse is a simple error shape for API errors.
type ErrorResponse struct {
	Error   string   `json:"error,omitempty"`
	Message string   `json:"message,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

// MessageResponse confirms a write operation.
type MessageResponse struct {
	Message string `json:"message"`
	Name    string `json:"name,omitempty"`
	ID      int64  `json:"id,omitempty"`
}
