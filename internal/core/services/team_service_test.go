package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/mocks"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/services"
)

func TestTeamService_CreateTeam(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("creator becomes owner and admin member", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetBySlug", ctx, "core-dev").Return(nil, apperrors.ErrTeamNotFound)
		teamRepo.On("Create", ctx, mock.AnythingOfType("*domain.Team")).
			Return(&domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}, nil)
		teamRepo.On("AddMember", ctx, int64(1), ownerID, domain.TeamRoleAdmin).Return(nil)

		team, err := svc.CreateTeam(ctx, ports.CreateTeamParams{
			ActorID: ownerID,
			Name:    "Core Dev",
			Slug:    "core-dev",
		})

		require.NoError(t, err)
		assert.Equal(t, ownerID, team.OwnerID)
		teamRepo.AssertExpectations(t)
	})

	t.Run("taken slug rejected", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetBySlug", ctx, "core-dev").
			Return(&domain.Team{ID: 42, Slug: "core-dev"}, nil)

		team, err := svc.CreateTeam(ctx, ports.CreateTeamParams{
			ActorID: ownerID,
			Name:    "Core Dev",
			Slug:    "core-dev",
		})

		assert.Nil(t, team)
		assert.ErrorIs(t, err, apperrors.ErrSlugTaken)
		teamRepo.AssertNotCalled(t, "Create")
	})

	t.Run("invalid slug rejected", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		team, err := svc.CreateTeam(ctx, ports.CreateTeamParams{
			ActorID: ownerID,
			Name:    "Core Dev",
			Slug:    "Core Dev!",
		})

		assert.Nil(t, team)
		assert.ErrorIs(t, err, apperrors.ErrTeamSlugRequired)
		teamRepo.AssertNotCalled(t, "GetBySlug")
	})
}

func TestTeamService_DeleteTeam(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	team := &domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}

	t.Run("owner deletes", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("Delete", ctx, int64(1)).Return(nil)

		err := svc.DeleteTeam(ctx, 1, ownerID)

		require.NoError(t, err)
		teamRepo.AssertExpectations(t)
	})

	t.Run("team admin who is not owner cannot delete", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		adminID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)

		err := svc.DeleteTeam(ctx, 1, adminID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		teamRepo.AssertNotCalled(t, "Delete")
	})
}

func TestTeamService_AddMember(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	team := &domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}

	t.Run("owner adds a user by email", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		newUserID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		userRepo.On("GetByEmail", ctx, "new@example.com").
			Return(&domain.User{ID: newUserID, Email: "new@example.com"}, nil)
		teamRepo.On("GetMember", ctx, int64(1), newUserID).
			Return(nil, apperrors.ErrNotMember)
		teamRepo.On("AddMember", ctx, int64(1), newUserID, domain.TeamRoleMember).Return(nil)

		err := svc.AddMember(ctx, ports.TeamMemberParams{
			TeamID:  1,
			ActorID: ownerID,
			Email:   "new@example.com",
			Role:    domain.TeamRoleMember,
		})

		require.NoError(t, err)
		teamRepo.AssertExpectations(t)
	})

	t.Run("duplicate membership rejected", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		existingID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		userRepo.On("GetByEmail", ctx, "dup@example.com").
			Return(&domain.User{ID: existingID}, nil)
		teamRepo.On("GetMember", ctx, int64(1), existingID).
			Return(&domain.TeamMember{TeamID: 1, UserID: existingID, Role: domain.TeamRoleMember}, nil)

		err := svc.AddMember(ctx, ports.TeamMemberParams{
			TeamID:  1,
			ActorID: ownerID,
			Email:   "dup@example.com",
			Role:    domain.TeamRoleMember,
		})

		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
		teamRepo.AssertNotCalled(t, "AddMember")
	})

	t.Run("plain member cannot add", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		memberID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("GetMember", ctx, int64(1), memberID).
			Return(&domain.TeamMember{TeamID: 1, UserID: memberID, Role: domain.TeamRoleMember}, nil)

		err := svc.AddMember(ctx, ports.TeamMemberParams{
			TeamID:  1,
			ActorID: memberID,
			Email:   "new@example.com",
			Role:    domain.TeamRoleMember,
		})

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		userRepo.AssertNotCalled(t, "GetByEmail")
	})

	t.Run("unknown role rejected", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)

		err := svc.AddMember(ctx, ports.TeamMemberParams{
			TeamID:  1,
			ActorID: ownerID,
			Email:   "new@example.com",
			Role:    domain.TeamMemberRole("superuser"),
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidMemberRole)
	})
}

func TestTeamService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	team := &domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}

	t.Run("owner cannot be removed", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)

		err := svc.RemoveMember(ctx, 1, ownerID, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrOwnerImmutable)
		teamRepo.AssertNotCalled(t, "RemoveMember")
	})

	t.Run("team admin removes a member", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		adminID := uuid.New()
		memberID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("GetMember", ctx, int64(1), adminID).
			Return(&domain.TeamMember{TeamID: 1, UserID: adminID, Role: domain.TeamRoleAdmin}, nil)
		teamRepo.On("GetMember", ctx, int64(1), memberID).
			Return(&domain.TeamMember{TeamID: 1, UserID: memberID, Role: domain.TeamRoleMember}, nil)
		teamRepo.On("RemoveMember", ctx, int64(1), memberID).Return(nil)

		err := svc.RemoveMember(ctx, 1, memberID, adminID)

		require.NoError(t, err)
		teamRepo.AssertExpectations(t)
	})

	t.Run("removing a non-member fails", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		strangerID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("GetMember", ctx, int64(1), strangerID).
			Return(nil, apperrors.ErrNotMember)

		err := svc.RemoveMember(ctx, 1, strangerID, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrNotMember)
	})
}

func TestTeamService_UpdateMemberRole(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	team := &domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}

	t.Run("owner role is immutable", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)

		err := svc.UpdateMemberRole(ctx, 1, ownerID, ownerID, domain.TeamRoleMember)

		assert.ErrorIs(t, err, apperrors.ErrOwnerImmutable)
	})

	t.Run("owner promotes a member", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		memberID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("GetMember", ctx, int64(1), memberID).
			Return(&domain.TeamMember{TeamID: 1, UserID: memberID, Role: domain.TeamRoleMember}, nil)
		teamRepo.On("UpdateMemberRole", ctx, int64(1), memberID, domain.TeamRoleAdmin).Return(nil)

		err := svc.UpdateMemberRole(ctx, 1, memberID, ownerID, domain.TeamRoleAdmin)

		require.NoError(t, err)
		teamRepo.AssertExpectations(t)
	})
}

func TestTeamService_CanManageMembers(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	team := &domain.Team{ID: 1, Name: "Core Dev", Slug: "core-dev", OwnerID: ownerID}

	t.Run("owner can manage", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)

		ok, err := svc.CanManageMembers(ctx, 1, ownerID)

		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("non-member cannot manage", func(t *testing.T) {
		teamRepo := mocks.NewMockTeamRepository()
		userRepo := mocks.NewMockUserRepository()
		svc := services.NewTeamService(teamRepo, userRepo)

		strangerID := uuid.New()
		teamRepo.On("GetByID", ctx, int64(1)).Return(team, nil)
		teamRepo.On("GetMember", ctx, int64(1), strangerID).
			Return(nil, apperrors.ErrNotMember)

		ok, err := svc.CanManageMembers(ctx, 1, strangerID)

		require.NoError(t, err)
		assert.False(t, ok)
	})
}
