package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/mocks"
	"github.com/hijibiji-app/opencrm/internal/core/services"
)

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		// User doesn't exist yet
		mockUserRepo.On("GetByEmail", ctx, "newuser@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		mockUserRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
			Return(&domain.User{
				ID:        uuid.New(),
				FullName:  "New User",
				Email:     "newuser@example.com",
				Role:      domain.RoleMember,
				CreatedAt: time.Now(),
			}, nil)

		user, err := svc.Register(ctx, "New User", "newuser@example.com", "Password123")

		require.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "New User", user.FullName)
		assert.Equal(t, domain.RoleMember, user.Role)

		mockUserRepo.AssertExpectations(t)
	})

	t.Run("user already exists", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		existingUser := &domain.User{
			ID:    uuid.New(),
			Email: "existing@example.com",
		}
		mockUserRepo.On("GetByEmail", ctx, "existing@example.com").
			Return(existingUser, nil)

		user, err := svc.Register(ctx, "User", "existing@example.com", "Password123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrUserExists)
		mockUserRepo.AssertNotCalled(t, "Create")
	})

	t.Run("weak password", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "user@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Register(ctx, "User", "user@example.com", "weak")

		assert.Nil(t, user)
		var validationErr *apperrors.ValidationErrors
		assert.ErrorAs(t, err, &validationErr)
		mockUserRepo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid email", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "invalid-email").
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Register(ctx, "User", "invalid-email", "Password123")

		assert.Nil(t, user)
		assert.Error(t, err)
		mockUserRepo.AssertNotCalled(t, "Create")
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		hash, _ := domain.HashPassword("Password123")

		existingUser := &domain.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			FullName:     "Test User",
			PasswordHash: hash,
		}

		mockUserRepo.On("GetByEmail", ctx, "user@example.com").
			Return(existingUser, nil)

		user, err := svc.Login(ctx, "user@example.com", "Password123")

		require.NoError(t, err)
		assert.Equal(t, existingUser.ID, user.ID)
	})

	t.Run("user not found", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		mockUserRepo.On("GetByEmail", ctx, "unknown@example.com").
			Return(nil, apperrors.ErrUserNotFound)

		user, err := svc.Login(ctx, "unknown@example.com", "Password123")

		assert.Nil(t, user)
		// Same error as a bad password; do not reveal which emails exist.
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("wrong password", func(t *testing.T) {
		mockUserRepo := mocks.NewMockUserRepository()
		svc := services.NewAuthService(mockUserRepo)

		hash, _ := domain.HashPassword("Password123")

		existingUser := &domain.User{
			ID:           uuid.New(),
			Email:        "user@example.com",
			PasswordHash: hash,
		}

		mockUserRepo.On("GetByEmail", ctx, "user@example.com").
			Return(existingUser, nil)

		user, err := svc.Login(ctx, "user@example.com", "WrongPassword123")

		assert.Nil(t, user)
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}
