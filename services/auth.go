package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lborres/whatif/core"
)

// AuthService is the AuthHandler the HTTP adapters talk to
type AuthService struct {
	credentials    *CredentialStore
	sessionManager *SessionManager
}

// Ensure AuthService implements AuthHandler
var _ core.AuthHandler = (*AuthService)(nil)

func NewAuthService(credentials *CredentialStore, sessionManager *SessionManager) *AuthService {
	return &AuthService{
		credentials:    credentials,
		sessionManager: sessionManager,
	}
}

// Register creates the account. It does not log the new user in.
func (s *AuthService) Register(ctx context.Context, input core.RegisterInput) error {
	err := s.credentials.Register(ctx, input.Username, input.Email, input.Password)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "account registered", "username", input.Username)
	case errors.Is(err, core.ErrDuplicateUsername):
		slog.InfoContext(ctx, "registration rejected, username taken", "username", input.Username)
	default:
		slog.ErrorContext(ctx, "registration failed", "username", input.Username, "err", err)
	}
	return err
}

func (s *AuthService) Login(ctx context.Context, input core.LoginInput) error {
	err := s.sessionManager.Login(ctx, input.Username, input.Password)
	switch {
	case err == nil:
		slog.InfoContext(ctx, "login succeeded", "username", input.Username)
	case errors.Is(err, core.ErrInvalidCredentials):
		slog.InfoContext(ctx, "login rejected", "username", input.Username)
	default:
		slog.ErrorContext(ctx, "login failed", "username", input.Username, "err", err)
	}
	return err
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessionManager.Logout(ctx); err != nil {
		slog.ErrorContext(ctx, "logout failed", "err", err)
		return err
	}
	return nil
}

// Session reports who is logged in, for navigation and greeting text
func (s *AuthService) Session(ctx context.Context) (*core.SessionData, error) {
	username, ok, err := s.sessionManager.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &core.SessionData{LoggedIn: ok, Username: username}, nil
}
