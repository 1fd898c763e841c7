package user

import (
	"context"
	"errors"
)

// ErrNoUser means the session has no signed-in user.
var ErrNoUser = errors.New("no user in session")

// Repository holds at most one user per session.
type Repository interface {
	Get(ctx context.Context, sessionID string) (*User, error)
	Save(ctx context.Context, sessionID string, u *User) error
	Delete(ctx context.Context, sessionID string) error
}
