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
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/services"
)

func TestTimeEntryService_CreateEntry(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	t.Run("success broadcasts the new entry", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		created := &domain.OfflineTimeEntry{
			ID:              1,
			UserID:          actorID,
			Date:            time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 480,
		}

		entryRepo.On("Create", ctx, mock.AnythingOfType("*domain.OfflineTimeEntry")).
			Return(created, nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTimeEntryCreated
		})).Return(nil)

		entry, err := svc.CreateEntry(ctx, ports.CreateTimeEntryParams{
			ActorID:         actorID,
			Date:            time.Date(2025, time.February, 10, 9, 0, 0, 0, time.UTC),
			DurationMinutes: 480,
			Note:            "client work",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(1), entry.ID)

		svc.Shutdown()
		broadcaster.AssertExpectations(t)
	})

	t.Run("zero duration rejected", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entry, err := svc.CreateEntry(ctx, ports.CreateTimeEntryParams{
			ActorID:         actorID,
			Date:            time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 0,
		})

		assert.Nil(t, entry)
		assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)
		entryRepo.AssertNotCalled(t, "Create")
	})

	t.Run("missing date rejected", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entry, err := svc.CreateEntry(ctx, ports.CreateTimeEntryParams{
			ActorID:         actorID,
			DurationMinutes: 60,
		})

		assert.Nil(t, entry)
		assert.ErrorIs(t, err, apperrors.ErrDateRequired)
	})
}

func TestTimeEntryService_GetEntry(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	otherID := uuid.New()

	entry := &domain.OfflineTimeEntry{
		ID:              7,
		UserID:          ownerID,
		Date:            time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
		DurationMinutes: 120,
	}

	t.Run("owner can read", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entryRepo.On("GetByID", ctx, int64(7)).Return(entry, nil)

		got, err := svc.GetEntry(ctx, 7, ownerID)

		require.NoError(t, err)
		assert.Equal(t, entry, got)
		userRepo.AssertNotCalled(t, "GetByID")
	})

	t.Run("admin can read another user's entry", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entryRepo.On("GetByID", ctx, int64(7)).Return(entry, nil)
		userRepo.On("GetByID", ctx, otherID).
			Return(&domain.User{ID: otherID, Role: domain.RoleAdmin}, nil)

		got, err := svc.GetEntry(ctx, 7, otherID)

		require.NoError(t, err)
		assert.Equal(t, entry, got)
	})

	t.Run("non-owner member is forbidden", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entryRepo.On("GetByID", ctx, int64(7)).Return(entry, nil)
		userRepo.On("GetByID", ctx, otherID).
			Return(&domain.User{ID: otherID, Role: domain.RoleMember}, nil)

		got, err := svc.GetEntry(ctx, 7, otherID)

		assert.Nil(t, got)
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("not found propagates", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		entryRepo.On("GetByID", ctx, int64(99)).Return(nil, apperrors.ErrTimeEntryNotFound)

		_, err := svc.GetEntry(ctx, 99, ownerID)

		assert.ErrorIs(t, err, apperrors.ErrTimeEntryNotFound)
	})
}

func TestTimeEntryService_ListEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("members only see their own entries", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		memberID := uuid.New()
		userRepo.On("GetByID", ctx, memberID).
			Return(&domain.User{ID: memberID, Role: domain.RoleMember}, nil)
		entryRepo.On("ListPaginated", ctx, mock.MatchedBy(func(f ports.TimeEntryFilter) bool {
			return f.UserID != nil && *f.UserID == memberID
		}), int32(26), int32(0)).Return([]*domain.OfflineTimeEntry{}, nil)

		_, err := svc.ListEntries(ctx, ports.ListTimeEntriesParams{
			ActorID: memberID,
			Limit:   26,
			Offset:  0,
		})

		require.NoError(t, err)
		entryRepo.AssertExpectations(t)
	})

	t.Run("admins see everything", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		adminID := uuid.New()
		userRepo.On("GetByID", ctx, adminID).
			Return(&domain.User{ID: adminID, Role: domain.RoleAdmin}, nil)
		entryRepo.On("ListPaginated", ctx, mock.MatchedBy(func(f ports.TimeEntryFilter) bool {
			return f.UserID == nil
		}), int32(26), int32(0)).Return([]*domain.OfflineTimeEntry{}, nil)

		_, err := svc.ListEntries(ctx, ports.ListTimeEntriesParams{
			ActorID: adminID,
			Limit:   26,
			Offset:  0,
		})

		require.NoError(t, err)
		entryRepo.AssertExpectations(t)
	})
}

func TestTimeEntryService_UpdateEntry(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner amends and broadcast fires", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		existing := &domain.OfflineTimeEntry{
			ID:              3,
			UserID:          ownerID,
			Date:            time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 60,
		}

		entryRepo.On("GetByID", ctx, int64(3)).Return(existing, nil)
		entryRepo.On("Update", ctx, mock.AnythingOfType("*domain.OfflineTimeEntry")).
			Return(existing, nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTimeEntryUpdated
		})).Return(nil)

		updated, err := svc.UpdateEntry(ctx, ports.UpdateTimeEntryParams{
			EntryID:         3,
			ActorID:         ownerID,
			Date:            time.Date(2025, time.February, 11, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 90,
			Note:            "corrected",
		})

		require.NoError(t, err)
		assert.Equal(t, 90, updated.DurationMinutes)

		svc.Shutdown()
		broadcaster.AssertExpectations(t)
	})

	t.Run("invalid duration rejected before persistence", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		existing := &domain.OfflineTimeEntry{ID: 3, UserID: ownerID, DurationMinutes: 60}
		entryRepo.On("GetByID", ctx, int64(3)).Return(existing, nil)

		_, err := svc.UpdateEntry(ctx, ports.UpdateTimeEntryParams{
			EntryID:         3,
			ActorID:         ownerID,
			Date:            time.Date(2025, time.February, 11, 0, 0, 0, 0, time.UTC),
			DurationMinutes: 5000,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidDuration)
		entryRepo.AssertNotCalled(t, "Update")
	})
}

func TestTimeEntryService_DeleteEntry(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("owner deletes and broadcast fires", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		existing := &domain.OfflineTimeEntry{ID: 3, UserID: ownerID, DurationMinutes: 60}
		entryRepo.On("GetByID", ctx, int64(3)).Return(existing, nil)
		entryRepo.On("Delete", ctx, int64(3)).Return(nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(e domain.Event) bool {
			return e.Type == domain.EventTimeEntryDeleted
		})).Return(nil)

		err := svc.DeleteEntry(ctx, 3, ownerID)

		require.NoError(t, err)
		svc.Shutdown()
		broadcaster.AssertExpectations(t)
	})

	t.Run("non-owner member cannot delete", func(t *testing.T) {
		entryRepo := mocks.NewMockTimeEntryRepository()
		userRepo := mocks.NewMockUserRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

		otherID := uuid.New()
		existing := &domain.OfflineTimeEntry{ID: 3, UserID: ownerID, DurationMinutes: 60}
		entryRepo.On("GetByID", ctx, int64(3)).Return(existing, nil)
		userRepo.On("GetByID", ctx, otherID).
			Return(&domain.User{ID: otherID, Role: domain.RoleMember}, nil)

		err := svc.DeleteEntry(ctx, 3, otherID)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		entryRepo.AssertNotCalled(t, "Delete")
	})
}

func TestTimeEntryService_MonthlySummary(t *testing.T) {
	ctx := context.Background()
	actorID := uuid.New()

	entryRepo := mocks.NewMockTimeEntryRepository()
	userRepo := mocks.NewMockUserRepository()
	broadcaster := mocks.NewMockEventBroadcaster()
	svc := services.NewTimeEntryService(entryRepo, userRepo, broadcaster)

	monthStart := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)

	ownFilter := mock.MatchedBy(func(f ports.TimeEntryFilter) bool {
		return f.UserID != nil && *f.UserID == actorID
	})

	entryRepo.On("SumForMonth", ctx, ownFilter, 2025, time.February).Return(5400, nil)
	entryRepo.On("DailySums", ctx, ownFilter, monthStart, monthEnd).
		Return([]domain.ActivityPoint{
			{Date: time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC), Minutes: 480},
		}, nil)

	summary, err := svc.MonthlySummary(ctx, ports.MonthlySummaryParams{
		ActorID: actorID,
		Year:    2025,
		Month:   time.February,
	})

	require.NoError(t, err)
	assert.Equal(t, 5400, summary.TotalMinutes)
	assert.Len(t, summary.Days, 1)
}
