package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/georgemunganga/shopswift/internal/modules/user"
	"github.com/georgemunganga/shopswift/internal/storage"
)

const testSecret = "test-secret"

func newTestService(opts ...Option) (Service, user.Repository) {
	users := user.NewStorageRepository(storage.NewMemoryStore())
	return NewService(users, testSecret, time.Hour, zerolog.Nop(), opts...), users
}

func TestLoginCreatesSessionUser(t *testing.T) {
	svc, users := newTestService(WithIDGenerator(func() string { return "u-1" }))
	ctx := context.Background()

	sess, err := svc.Login(ctx, "sid-1", " jane.doe@shop.test ", user.RoleBuyer)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	want := user.User{ID: "u-1", Email: "jane.doe@shop.test", Role: user.RoleBuyer, Name: "jane.doe"}
	if *sess.User != want || sess.ID != "sid-1" || sess.Token == "" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	stored, err := users.Get(ctx, "sid-1")
	if err != nil || *stored != want {
		t.Fatalf("user not persisted: %+v %v", stored, err)
	}
}

func TestSignInValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name  string
		email string
		role  user.Role
		want  error
	}{
		{"empty email", "", user.RoleBuyer, ErrInvalidEmail},
		{"no at sign", "jane", user.RoleBuyer, ErrInvalidEmail},
		{"unknown role", "jane@shop.test", user.Role("admin"), ErrInvalidRole},
		{"empty role", "jane@shop.test", "", ErrInvalidRole},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Signup(ctx, "sid-1", tt.email, tt.role); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestSignupReplacesSessionUser(t *testing.T) {
	ids := []string{"u-1", "u-2"}
	svc, users := newTestService(WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))
	ctx := context.Background()

	first, _ := svc.Login(ctx, "sid-1", "a@shop.test", user.RoleBuyer)
	second, _ := svc.Signup(ctx, "sid-1", "b@shop.test", user.RoleSeller)

	stored, _ := users.Get(ctx, "sid-1")
	if stored.ID != "u-2" || stored.Role != user.RoleSeller {
		t.Fatalf("expected the second user, got %+v", stored)
	}

	if _, _, err := svc.Resolve(ctx, first.Token); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("old token should be retired, got %v", err)
	}
	u, sid, err := svc.Resolve(ctx, second.Token)
	if err != nil || u.ID != "u-2" || sid != "sid-1" {
		t.Fatalf("Resolve failed: %+v %s %v", u, sid, err)
	}
}

func TestResolveRejectsBadTokens(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, _, err := svc.Resolve(ctx, "not-a-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}

	other := NewService(user.NewStorageRepository(storage.NewMemoryStore()), "other-secret", time.Hour, zerolog.Nop())
	sess, _ := other.Login(ctx, "sid-1", "a@shop.test", user.RoleBuyer)
	if _, _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("foreign signature should be rejected, got %v", err)
	}
}

func TestResolveRejectsExpiredTokens(t *testing.T) {
	past := func() time.Time { return time.Now().Add(-48 * time.Hour) }
	svc, _ := newTestService(WithClock(past))

	sess, err := svc.Login(context.Background(), "sid-1", "a@shop.test", user.RoleBuyer)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if _, _, err := svc.Resolve(context.Background(), sess.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	svc, users := newTestService()
	ctx := context.Background()

	sess, _ := svc.Login(ctx, "sid-1", "a@shop.test", user.RoleSeller)
	if err := svc.Logout(ctx, "sid-1"); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := users.Get(ctx, "sid-1"); !errors.Is(err, user.ErrNoUser) {
		t.Fatalf("user record should be gone, got %v", err)
	}
	if _, _, err := svc.Resolve(ctx, sess.Token); !errors.Is(err, ErrSessionEnded) {
		t.Fatalf("expected ErrSessionEnded, got %v", err)
	}

	// logging out twice is harmless
	if err := svc.Logout(ctx, "sid-1"); err != nil {
		t.Fatalf("second Logout failed: %v", err)
	}
}

func TestSignInWaitsAndHonoursCancellation(t *testing.T) {
	var waited time.Duration
	wait := func(ctx context.Context, d time.Duration) error {
		waited = d
		return ctx.Err()
	}
	svc, users := newTestService(WithLatency(500*time.Millisecond, wait))

	if _, err := svc.Login(context.Background(), "sid-1", "a@shop.test", user.RoleBuyer); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if waited != 500*time.Millisecond {
		t.Fatalf("expected a 500ms wait, got %s", waited)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.Signup(ctx, "sid-2", "b@shop.test", user.RoleBuyer); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := users.Get(context.Background(), "sid-2"); !errors.Is(err, user.ErrNoUser) {
		t.Fatalf("cancelled signup must not persist a user")
	}
}
