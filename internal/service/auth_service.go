package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/snapbill/snapbill/internal/auth"
	"github.com/snapbill/snapbill/internal/models"
)

// AuthResult pairs a user record with a freshly issued token.
type AuthResult struct {
	User  *models.User
	Token string
}

// AuthService handles registration and login, issuing JWTs on success.
type AuthService struct {
	authenticator *auth.PasswordAuthenticator
	jwtManager    *auth.JWTManager
}

// NewAuthService creates a new authentication service.
func NewAuthService(authenticator *auth.PasswordAuthenticator, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
	}
}

// Register creates a new user account and returns it with a token.
func (s *AuthService) Register(ctx context.Context, email, displayName, password string) (*AuthResult, error) {
	if email == "" || displayName == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Register(ctx, email, displayName, password)
	if err != nil {
		slog.Warn("registration failed", "email", email, "error", err)
		return nil, err
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates a user and returns it with a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, auth.ErrInvalidCredentials
	}

	user, err := s.authenticator.Authenticate(ctx, email, password)
	if err != nil {
		slog.Warn("login failed", "email", email)
		return nil, auth.ErrInvalidCredentials
	}

	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	slog.Info("user logged in", "user_id", user.ID)
	return &AuthResult{User: user, Token: token}, nil
}
