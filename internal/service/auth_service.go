package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/splitpot/splitpot/internal/auth"
	"github.com/splitpot/splitpot/internal/models"
)

// AuthService wraps registration and login, issuing JWT tokens on success.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new user account and returns the user with a token.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, string, error) {
	if email == "" || username == "" {
		return nil, "", fmt.Errorf("%w: email and username are required", ErrValidation)
	}

	user, err := s.authenticator.Register(ctx, email, username, password)
	if err != nil {
		slog.Warn("Registration failed", "email", email, "error", err)
		return nil, "", fmt.Errorf("%w: %w", ErrValidation, err)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// Login authenticates a user and returns the user with a fresh token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("Login failed", "email", email)
		return nil, "", fmt.Errorf("%w: %w", ErrForbidden, auth.ErrInvalidCredentials)
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("User logged in", "user_id", user.ID)
	return user, token, nil
}
