// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/taskforge/taskforge/internal/store"
	"github.com/taskforge/taskforge/pkg/audit"
	"github.com/taskforge/taskforge/pkg/auth"
)

// AuthService handles registration, login and token refresh.
type AuthService struct {
	store           *store.Store
	passwordManager *auth.PasswordManager
	tokenManager    *auth.TokenManager
	auditor         *AuditService
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, passwordManager *auth.PasswordManager, tokenManager *auth.TokenManager, auditor *AuditService) *AuthService {
	return &AuthService{
		store:           st,
		passwordManager: passwordManager,
		tokenManager:    tokenManager,
		auditor:         auditor,
	}
}

// RegisterInput is the payload for creating a user account.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// TokenPair is an issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// Register validates the input, hashes the password and creates the user.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*store.User, error) {
	if err := auth.ValidateEmail(input.Email); err != nil {
		return nil, validationFailed("email", err.Error())
	}
	if err := auth.ValidateUsername(input.Username); err != nil {
		return nil, validationFailed("username", err.Error())
	}

	hashedPassword, err := s.passwordManager.HashPassword(input.Password)
	if err != nil {
		if errors.Is(err, auth.ErrWeakPassword) {
			return nil, validationFailed("password", err.Error())
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &store.User{
		ID:           uuid.New(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.store.Transact(ctx, func(st *store.Store) error {
		if _, err := st.UserByEmail(ctx, input.Email); err == nil {
			return validationFailed("email", "email is already registered")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if _, err := st.UserByUsername(ctx, input.Username); err == nil {
			return validationFailed("username", "username is already taken")
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		return st.CreateUser(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	s.auditor.LogUserEvent(ctx, user.ID, audit.EventTypeUserRegistered,
		fmt.Sprintf("user %s registered", user.Username), audit.SeverityLow)

	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, *store.User, error) {
	user, err := s.store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.auditor.LogAnonymousEvent(ctx, audit.EventTypeLoginFailed,
				fmt.Sprintf("login attempt for unknown email %s", email), audit.SeverityMedium)
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.passwordManager.ComparePassword(user.PasswordHash, password); err != nil {
		s.auditor.LogUserEvent(ctx, user.ID, audit.EventTypeLoginFailed,
			"login failed: wrong password", audit.SeverityMedium)
		return nil, nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, expiresIn, err := s.tokenManager.GenerateTokenPair(
		user.ID.String(), user.Email, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("generate tokens: %w", err)
	}

	s.auditor.LogUserEvent(ctx, user.ID, audit.EventTypeLoginSuccess,
		"login successful", audit.SeverityLow)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	}, user, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, int64, error) {
	accessToken, expiresIn, err := s.tokenManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return "", 0, fmt.Errorf("refresh token: %w", err)
	}
	return accessToken, expiresIn, nil
}
