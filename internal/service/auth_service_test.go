package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/splitpot/splitpot/internal/auth"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()

	store := newTestStore(t)
	authenticator := auth.NewPasswordAuthenticator(store)
	jwtManager := auth.NewJWTManager("test-secret-key-at-least-32-chars!!", time.Hour)
	return NewAuthService(authenticator, jwtManager)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "alice@example.com", "alice", "correct horse battery")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ID == "" || token == "" {
		t.Fatal("expected user ID and token")
	}
	if user.PasswordHash == "correct horse battery" {
		t.Error("password stored in plaintext")
	}

	// Duplicate email is rejected.
	if _, _, err := svc.Register(ctx, "alice@example.com", "alice2", "another password"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for duplicate email, got %v", err)
	}

	// Weak passwords are rejected.
	if _, _, err := svc.Register(ctx, "bob@example.com", "bob", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for weak password, got %v", err)
	}

	loggedIn, token, err := svc.Login(ctx, "alice@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if loggedIn.ID != user.ID || token == "" {
		t.Error("login returned wrong user or empty token")
	}

	if _, _, err := svc.Login(ctx, "alice@example.com", "wrong password"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever password"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unknown email, got %v", err)
	}
}
