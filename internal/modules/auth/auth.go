package auth

import (
	"context"
	"errors"
	"time"

	"github.com/georgemunganga/shopswift/internal/modules/user"
)

var (
	ErrInvalidEmail = errors.New("a valid email is required")
	ErrInvalidRole  = errors.New("role must be buyer or seller")
	ErrInvalidToken = errors.New("invalid session token")
	// ErrSessionEnded means the token is well formed but its session was
	// logged out or now belongs to a different user.
	ErrSessionEnded = errors.New("session has ended")
)

// Session is the result of a login or signup.
type Session struct {
	ID        string     `json:"session_id"`
	User      *user.User `json:"user"`
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// Service defines the interface for session sign-in. There are no
// credentials: any well-formed email signs in with the requested role.
type Service interface {
	Login(ctx context.Context, sessionID, email string, role user.Role) (*Session, error)
	Signup(ctx context.Context, sessionID, email string, role user.Role) (*Session, error)
	// Resolve verifies token and returns the session user and session id.
	Resolve(ctx context.Context, token string) (*user.User, string, error)
	Logout(ctx context.Context, sessionID string) error
}
