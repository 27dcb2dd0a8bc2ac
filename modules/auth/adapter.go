package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"

	domain "github.com/example/todo-lists-demo/domain/user"
)

// AuthPort defines the interface other modules use to access auth
// functionality.
type AuthPort interface {
	Register(ctx context.Context, name, email, password string) (*SessionResponse, error)
	Login(ctx context.Context, email, password string) (*SessionResponse, error)
	ValidateSession(ctx context.Context, token string) (*domain.Identity, error)
	GetUser(ctx context.Context, userID string) (*GetUserResponse, error)
}

// authAdapter implements AuthPort using the service container.
type authAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new adapter for the auth services.
func NewAuthAdapter(container mono.ServiceContainer) AuthPort {
	return &authAdapter{container: container}
}

// Register creates a new account and returns its session.
func (a *authAdapter) Register(ctx context.Context, name, email, password string) (*SessionResponse, error) {
	req := RegisterRequest{Name: name, Email: email, Password: password}
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "register",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// Login authenticates an account and returns its session.
func (a *authAdapter) Login(ctx context.Context, email, password string) (*SessionResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	var resp SessionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "login",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// ValidateSession resolves a session token to an identity.
func (a *authAdapter) ValidateSession(ctx context.Context, token string) (*domain.Identity, error) {
	req := ValidateSessionRequest{Token: token}
	var resp ValidateSessionResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "validate-session",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, fmt.Errorf("validate-session request failed: %w", err)
	}

	if !resp.Valid {
		if resp.Error == "session expired" {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	return &domain.Identity{
		UserID: resp.UserID,
		Email:  resp.Email,
		Name:   resp.Name,
	}, nil
}

// GetUser retrieves a user by ID.
func (a *authAdapter) GetUser(ctx context.Context, userID string) (*GetUserResponse, error) {
	req := GetUserRequest{UserID: userID}
	var resp GetUserResponse

	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-user",
		json.Marshal, json.Unmarshal,
		&req, &resp,
	); err != nil {
		return nil, mapServiceError(err)
	}

	return &resp, nil
}

// mapServiceError restores sentinel errors from error strings, since
// type information is lost crossing the service container.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	errMsg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(errMsg, "email already registered"):
		return ErrEmailExists
	case strings.Contains(errMsg, "user not found"):
		return ErrUserNotFound
	case strings.Contains(errMsg, "password incorrect"):
		return ErrInvalidPassword
	case strings.Contains(errMsg, "invalid email format"):
		return ErrInvalidEmail
	case strings.Contains(errMsg, "password must be at most"):
		return ErrPasswordTooLong
	}

	return err
}
