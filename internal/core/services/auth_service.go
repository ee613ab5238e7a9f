package services

import (
	"context"
	"errors"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// AuthService implements registration and login.
type AuthService struct {
	users ports.UserRepository
}

var _ ports.AuthService = (*AuthService)(nil)

// NewAuthService creates a new auth service.
func NewAuthService(users ports.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a new user account.
func (s *AuthService) Register(ctx context.Context, fullName, email, password string) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, apperrors.ErrUserNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.ErrUserExists
	}

	user, err := domain.NewUser(domain.UserRegistrationParams{
		FullName: fullName,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, user)
}

// Login authenticates a user by email and password.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			// Same response as a bad password; do not leak which emails exist.
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	return user, nil
}
