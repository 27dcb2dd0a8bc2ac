package auth

import (
	"time"
)

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the request for authenticating an account.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SessionResponse is returned by register and login on success. The
// caller places the token into the session cookie.
type SessionResponse struct {
	SessionToken string `json:"session_token"`
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

// ValidateSessionRequest is the request for resolving a session token.
type ValidateSessionRequest struct {
	Token string `json:"token"`
}

// ValidateSessionResponse reports whether a session token is valid and
// who it belongs to.
type ValidateSessionResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
	Name   string `json:"name,omitempty"`
	Error  string `json:"error,omitempty"`
}

// GetUserRequest is the request for fetching a user by ID.
type GetUserRequest struct {
	UserID string `json:"user_id"`
}

// GetUserResponse is the response for a user lookup.
type GetUserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
