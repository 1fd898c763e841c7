package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/georgemunganga/shopswift/internal/modules/user"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SessionHeader carries the client session id in both directions.
const SessionHeader = "X-Session-ID"

type contextKey string

const (
	sessionIDKey contextKey = "session_id"
	userKey      contextKey = "user"
)

// SessionResolver turns a bearer token into the session it was issued for.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*user.User, string, error)
}

// Session attaches a session id, and the signed-in user when a bearer token is
// sent, to the request context. Anonymous clients keep their id through
// SessionHeader; a fresh id is issued when they have none.
func Session(resolver SessionResolver, logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				sessionID string
				current   *user.User
			)

			if authHeader := r.Header.Get("Authorization"); authHeader != "" {
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || parts[0] != "Bearer" {
					respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
					return
				}
				u, sid, err := resolver.Resolve(r.Context(), parts[1])
				if err != nil {
					logger.Warn().Err(err).Msg("Rejected session token")
					respondWithError(w, http.StatusUnauthorized, "invalid or expired session")
					return
				}
				sessionID, current = sid, u
			} else if sid := r.Header.Get(SessionHeader); sid != "" {
				if _, err := uuid.Parse(sid); err == nil {
					sessionID = sid
				}
			}
			if sessionID == "" {
				sessionID = uuid.NewString()
			}

			w.Header().Set(SessionHeader, sessionID)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sessionID, current)))
		})
	}
}

// WithSession stores the session id and user (may be nil) in ctx.
func WithSession(ctx context.Context, sessionID string, u *user.User) context.Context {
	ctx = context.WithValue(ctx, sessionIDKey, sessionID)
	if u != nil {
		ctx = context.WithValue(ctx, userKey, u)
	}
	return ctx
}

func SessionID(ctx context.Context) string {
	sid, _ := ctx.Value(sessionIDKey).(string)
	return sid
}

func CurrentUser(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok && u != nil
}

// RequireRole lets the request through only for a signed-in user holding one of roles.
func RequireRole(roles ...user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r.Context())
			if !ok {
				respondWithError(w, http.StatusUnauthorized, "sign in required")
				return
			}
			for _, role := range roles {
				if u.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondWithError(w, http.StatusForbidden, "insufficient permissions")
		})
	}
}

// ForbidRole rejects signed-in users holding role. Anonymous requests pass.
func ForbidRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if u, ok := CurrentUser(r.Context()); ok && u.Role == role {
				respondWithError(w, http.StatusForbidden, "not available for "+string(role)+" accounts")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
