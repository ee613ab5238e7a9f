package http

import (
	"encoding/json"
	"io"
	"log/slog"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/mocks"
)

func newDashboardRouter(svc *mocks.MockDashboardService, now time.Time) (*chi.Mux, *auth.TokenManager) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	errorHandler := NewErrorHandler(logger)
	handler := NewDashboardHandler(svc, errorHandler, logger)
	handler.now = func() time.Time { return now }
	tokenManager := auth.NewTokenManager("test-secret", time.Hour)

	router := chi.NewRouter()
	router.Use(mw.JWTMiddleware(tokenManager))
	router.Route("/dashboard", handler.RegisterRoutes)

	return router, tokenManager
}

func TestDashboardHandler_Overview(t *testing.T) {
	now := time.Date(2025, time.February, 14, 15, 30, 0, 0, time.UTC)
	userID := uuid.New()

	svc := mocks.NewMockDashboardService()
	svc.On("Overview", mock.Anything, userID, now).Return(&domain.DashboardOverview{
		TodayMinutes:        120,
		MonthOfflineMinutes: 3000,
		RecentEntries:       []*domain.OfflineTimeEntry{},
		Chart:               []domain.ActivityPoint{},
		IsAdmin:             false,
		Pace: &domain.MonthlyPaceReport{
			MonthlyTargetMinutes:   11520,
			TotalWorkedMinutes:     3000,
			OfflineMinutes:         3000,
			OnlineMinutes:          0,
			RemainingMinutes:       8520,
			RemainingWorkingDays:   14,
			TotalWorkingDays:       24,
			RequiredDailyMinutes:   609,
			Status:                 domain.PaceBehind,
			OnlineSourceConfigured: true,
		},
	}, nil)

	router, tokenManager := newDashboardRouter(svc, now)
	token, err := tokenManager.GenerateToken(userID, domain.RoleMember)
	require.NoError(t, err)

	req := httptest.NewRequest(stdhttp.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DashboardResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.Equal(t, 120, response.TodayMinutes)
	assert.Equal(t, "2h", response.TodayFormatted)
	assert.Equal(t, "50h", response.MonthFormatted)
	assert.False(t, response.IsAdmin)
	assert.Nil(t, response.AdminStats)

	pace := response.MonthlyPace
	assert.Equal(t, 11520, pace.MonthlyTargetMinutes)
	assert.Equal(t, "192h", pace.MonthlyTargetFormatted)
	assert.Equal(t, "142h", pace.RemainingFormatted)
	assert.Equal(t, "10h 9m", pace.RequiredDailyFormatted)
	assert.Equal(t, "behind", pace.Status)
	assert.True(t, pace.SSMConfigured)

	svc.AssertExpectations(t)
}

func TestDashboardHandler_Overview_Admin(t *testing.T) {
	now := time.Date(2025, time.February, 14, 15, 30, 0, 0, time.UTC)
	adminID := uuid.New()

	svc := mocks.NewMockDashboardService()
	svc.On("Overview", mock.Anything, adminID, now).Return(&domain.DashboardOverview{
		IsAdmin: true,
		AdminStats: &domain.AdminStats{
			TotalUsers:       12,
			ActiveUsersToday: 4,
		},
		Pace: &domain.MonthlyPaceReport{Status: domain.PaceOnTrack},
	}, nil)

	router, tokenManager := newDashboardRouter(svc, now)
	token, err := tokenManager.GenerateToken(adminID, domain.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(stdhttp.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusOK, recorder.Code)

	var response DashboardResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))

	assert.True(t, response.IsAdmin)
	require.NotNil(t, response.AdminStats)
	assert.Equal(t, int64(12), response.AdminStats.TotalUsers)
	assert.Equal(t, int64(4), response.AdminStats.ActiveUsersToday)
}

func TestDashboardHandler_Overview_Unauthorized(t *testing.T) {
	svc := mocks.NewMockDashboardService()
	router, _ := newDashboardRouter(svc, time.Now())

	req := httptest.NewRequest(stdhttp.MethodGet, "/dashboard", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, req)

	require.Equal(t, stdhttp.StatusUnauthorized, recorder.Code)
	svc.AssertNotCalled(t, "Overview")
}
