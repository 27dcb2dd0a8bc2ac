package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	domain "github.com/example/todo-lists-demo/domain/user"
)

var (
	// ErrInvalidSession is returned when a session token fails verification.
	ErrInvalidSession = errors.New("invalid session token")
	// ErrExpiredSession is returned when a session token has expired.
	ErrExpiredSession = errors.New("session expired")
)

// SessionConfig holds session token configuration.
type SessionConfig struct {
	SecretKey string
	TTL       time.Duration
	Issuer    string
}

// DefaultSessionConfig returns the default session configuration.
// The secret key must be overridden from the environment in production.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		SecretKey: "dev-session-secret-change-in-production",
		TTL:       7 * 24 * time.Hour,
		Issuer:    "todo-lists",
	}
}

// sessionClaims are the custom claims carried by a session token.
type sessionClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// SessionManager issues and verifies the signed tokens that back the
// browser session cookie. The token is opaque to the client; every
// request re-verifies the signature server-side.
type SessionManager struct {
	config SessionConfig
}

// NewSessionManager creates a SessionManager with the given configuration.
func NewSessionManager(config SessionConfig) *SessionManager {
	return &SessionManager{config: config}
}

// Issue creates a new session token for the given identity.
func (m *SessionManager) Issue(identity domain.Identity) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		UserID: identity.UserID,
		Email:  identity.Email,
		Name:   identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.config.Issuer,
			Subject:   identity.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SecretKey))
}

// Verify checks a session token and returns the identity it encodes.
func (m *SessionManager) Verify(tokenString string) (*domain.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return []byte(m.config.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredSession
		}
		return nil, ErrInvalidSession
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidSession
	}

	return &domain.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Name:   claims.Name,
	}, nil
}
