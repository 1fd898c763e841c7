package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/georgemunganga/shopswift/internal/latency"
	"github.com/georgemunganga/shopswift/internal/modules/user"
)

type claims struct {
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
	jwt.StandardClaims
}

type service struct {
	users    user.Repository
	jwtKey   []byte
	tokenTTL time.Duration
	logger   zerolog.Logger

	wait  latency.Func
	delay time.Duration
	now   func() time.Time
	newID func() string
}

// Option configures the auth service.
type Option func(*service)

// WithLatency waits delay before every sign-in.
func WithLatency(delay time.Duration, wait latency.Func) Option {
	return func(s *service) {
		s.delay = delay
		s.wait = wait
	}
}

// WithClock replaces time.Now for token issue times.
func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

// WithIDGenerator replaces the uuid generator for user ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *service) { s.newID = fn }
}

// NewService creates a new auth service.
func NewService(users user.Repository, secret string, tokenTTL time.Duration, logger zerolog.Logger, opts ...Option) Service {
	s := &service{
		users:    users,
		jwtKey:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger.With().Str("module", "auth").Logger(),
		wait:     latency.None,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Login(ctx context.Context, sessionID, email string, role user.Role) (*Session, error) {
	sess, err := s.signIn(ctx, sessionID, email, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("session_id", sessionID).Str("user_id", sess.User.ID).Str("role", string(role)).Msg("User logged in")
	return sess, nil
}

func (s *service) Signup(ctx context.Context, sessionID, email string, role user.Role) (*Session, error) {
	sess, err := s.signIn(ctx, sessionID, email, role)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("session_id", sessionID).Str("user_id", sess.User.ID).Str("role", string(role)).Msg("User signed up")
	return sess, nil
}

// signIn replaces whatever user the session had with a fresh one.
func (s *service) signIn(ctx context.Context, sessionID, email string, role user.Role) (*Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	if err := s.wait(ctx, s.delay); err != nil {
		return nil, err
	}

	u := &user.User{
		ID:    s.newID(),
		Email: email,
		Role:  role,
		Name:  user.NameFromEmail(email),
	}
	if err := s.users.Save(ctx, sessionID, u); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to persist session user")
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.tokenTTL)
	token, err := s.sign(sessionID, u, issuedAt, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}
	return &Session{ID: sessionID, User: u, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *service) sign(sessionID string, u *user.User, issuedAt, expiresAt time.Time) (string, error) {
	c := &claims{
		Email: u.Email,
		Role:  u.Role,
		StandardClaims: jwt.StandardClaims{
			Id:        sessionID,
			Subject:   u.ID,
			IssuedAt:  issuedAt.Unix(),
			ExpiresAt: expiresAt.Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	return token.SignedString(s.jwtKey)
}

func (s *service) Resolve(ctx context.Context, tokenString string) (*user.User, string, error) {
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtKey, nil
	})
	if err != nil || !token.Valid || c.Id == "" {
		return nil, "", ErrInvalidToken
	}

	u, err := s.users.Get(ctx, c.Id)
	if errors.Is(err, user.ErrNoUser) {
		return nil, "", ErrSessionEnded
	}
	if err != nil {
		return nil, "", err
	}
	// a later sign-in on the same session retires older tokens
	if u.ID != c.Subject {
		return nil, "", ErrSessionEnded
	}
	return u, c.Id, nil
}

func (s *service) Logout(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.users.Delete(ctx, sessionID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to delete session user")
		return nil
	}
	s.logger.Info().Str("session_id", sessionID).Msg("User logged out")
	return nil
}
