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

func TestDashboardService_Overview(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.February, 14, 15, 30, 0, 0, time.UTC)
	today := time.Date(2025, time.February, 14, 0, 0, 0, 0, time.UTC)
	weekAgo := today.AddDate(0, 0, -6)

	t.Run("member sees own sums and no admin stats", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		entryRepo := mocks.NewMockTimeEntryRepository()
		paceSvc := mocks.NewMockPaceService()
		svc := services.NewDashboardService(userRepo, entryRepo, paceSvc)

		memberID := uuid.New()
		member := &domain.User{ID: memberID, Role: domain.RoleMember, SSMAPIToken: "token"}

		ownFilter := mock.MatchedBy(func(f ports.TimeEntryFilter) bool {
			return f.UserID != nil && *f.UserID == memberID
		})

		userRepo.On("GetByID", ctx, memberID).Return(member, nil)
		entryRepo.On("SumForDate", ctx, ownFilter, today).Return(120, nil)
		entryRepo.On("SumForMonth", ctx, ownFilter, 2025, time.February).Return(3000, nil)
		entryRepo.On("ListRecent", ctx, ownFilter, int32(5)).
			Return([]*domain.OfflineTimeEntry{{ID: 1, UserID: memberID, DurationMinutes: 120}}, nil)
		entryRepo.On("DailySums", ctx, ownFilter, weekAgo, today).
			Return([]domain.ActivityPoint{{Date: today, Minutes: 120}}, nil)
		paceSvc.On("MonthlyPace", ctx, member, 3000, now).
			Return(&domain.MonthlyPaceReport{
				MonthlyTargetMinutes: 11520,
				TotalWorkedMinutes:   3000,
				Status:               domain.PaceOnTrack,
			}, nil)

		overview, err := svc.Overview(ctx, memberID, now)

		require.NoError(t, err)
		assert.Equal(t, 120, overview.TodayMinutes)
		assert.Equal(t, 3000, overview.MonthOfflineMinutes)
		assert.False(t, overview.IsAdmin)
		assert.Nil(t, overview.AdminStats)
		assert.Equal(t, domain.PaceOnTrack, overview.Pace.Status)

		userRepo.AssertNotCalled(t, "Count")
	})

	t.Run("admin sees org-wide sums and stats", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		entryRepo := mocks.NewMockTimeEntryRepository()
		paceSvc := mocks.NewMockPaceService()
		svc := services.NewDashboardService(userRepo, entryRepo, paceSvc)

		adminID := uuid.New()
		admin := &domain.User{ID: adminID, Role: domain.RoleAdmin}

		allFilter := mock.MatchedBy(func(f ports.TimeEntryFilter) bool {
			return f.UserID == nil && f.TeamID == nil
		})

		userRepo.On("GetByID", ctx, adminID).Return(admin, nil)
		entryRepo.On("SumForDate", ctx, allFilter, today).Return(960, nil)
		entryRepo.On("SumForMonth", ctx, allFilter, 2025, time.February).Return(24000, nil)
		entryRepo.On("ListRecent", ctx, allFilter, int32(5)).
			Return([]*domain.OfflineTimeEntry{}, nil)
		entryRepo.On("DailySums", ctx, allFilter, weekAgo, today).
			Return([]domain.ActivityPoint{}, nil)
		userRepo.On("Count", ctx).Return(int64(12), nil)
		entryRepo.On("CountActiveUsersOn", ctx, today).Return(int64(4), nil)
		paceSvc.On("MonthlyPace", ctx, admin, 24000, now).
			Return(&domain.MonthlyPaceReport{Status: domain.PaceCompleted}, nil)

		overview, err := svc.Overview(ctx, adminID, now)

		require.NoError(t, err)
		assert.True(t, overview.IsAdmin)
		require.NotNil(t, overview.AdminStats)
		assert.Equal(t, int64(12), overview.AdminStats.TotalUsers)
		assert.Equal(t, int64(4), overview.AdminStats.ActiveUsersToday)
	})

	t.Run("chart is dense over seven days", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		entryRepo := mocks.NewMockTimeEntryRepository()
		paceSvc := mocks.NewMockPaceService()
		svc := services.NewDashboardService(userRepo, entryRepo, paceSvc)

		memberID := uuid.New()
		member := &domain.User{ID: memberID, Role: domain.RoleMember}

		userRepo.On("GetByID", ctx, memberID).Return(member, nil)
		entryRepo.On("SumForDate", ctx, mock.Anything, today).Return(0, nil)
		entryRepo.On("SumForMonth", ctx, mock.Anything, 2025, time.February).Return(0, nil)
		entryRepo.On("ListRecent", ctx, mock.Anything, int32(5)).
			Return([]*domain.OfflineTimeEntry{}, nil)
		// Only two days have entries; the rest must read zero.
		entryRepo.On("DailySums", ctx, mock.Anything, weekAgo, today).
			Return([]domain.ActivityPoint{
				{Date: weekAgo, Minutes: 300},
				{Date: today, Minutes: 60},
			}, nil)
		paceSvc.On("MonthlyPace", ctx, member, 0, now).
			Return(&domain.MonthlyPaceReport{Status: domain.PaceOnTrack}, nil)

		overview, err := svc.Overview(ctx, memberID, now)

		require.NoError(t, err)
		require.Len(t, overview.Chart, 7)
		assert.Equal(t, 300, overview.Chart[0].Minutes)
		assert.Equal(t, 0, overview.Chart[1].Minutes)
		assert.Equal(t, 60, overview.Chart[6].Minutes)
	})

	t.Run("unknown user propagates", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		entryRepo := mocks.NewMockTimeEntryRepository()
		paceSvc := mocks.NewMockPaceService()
		svc := services.NewDashboardService(userRepo, entryRepo, paceSvc)

		unknownID := uuid.New()
		userRepo.On("GetByID", ctx, unknownID).Return(nil, apperrors.ErrUserNotFound)

		overview, err := svc.Overview(ctx, unknownID, now)

		assert.Nil(t, overview)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})
}
