package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// ProfileService implements the authenticated user's settings, including the
// online time source token.
type ProfileService struct {
	users ports.UserRepository
}

var _ ports.ProfileService = (*ProfileService)(nil)

// NewProfileService creates a new profile service.
func NewProfileService(users ports.UserRepository) *ProfileService {
	return &ProfileService{users: users}
}

// Get returns the user's profile.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

// UpdateProfile applies the provided fields; nil pointers are unchanged.
// Setting SSMAPIToken to the empty string disconnects the online source.
func (s *ProfileService) UpdateProfile(ctx context.Context, params ports.UpdateProfileParams) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		if *params.FullName == "" {
			return nil, apperrors.ErrFullNameRequired
		}
		user.FullName = *params.FullName
	}
	if params.Email != nil {
		if *params.Email == "" {
			return nil, apperrors.ErrEmailRequired
		}
		user.Email = *params.Email
	}
	if params.SSMAPIToken != nil {
		user.SSMAPIToken = *params.SSMAPIToken
	}

	return s.users.UpdateProfile(ctx, user)
}

// ChangePassword verifies the current password before storing a new hash.
func (s *ProfileService) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !user.CheckPassword(currentPassword) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := domain.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.users.UpdatePassword(ctx, userID, hash)
}
