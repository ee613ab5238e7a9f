package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/mocks"
	"github.com/hijibiji-app/opencrm/internal/core/services"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOnlineMinutesService_MonthlyOnlineMinutes(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.February, 14, 10, 30, 0, 0, time.UTC)
	monthStart := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)

	t.Run("fetches and caches on a cold miss", func(t *testing.T) {
		client := mocks.NewMockTimeReportClient()
		cache := mocks.NewMockCache()
		svc := services.NewOnlineMinutesService(client, cache, 30*time.Minute, discardLogger())

		user := paceUser("secret-token")
		key := fmt.Sprintf("ssm_monthly_%s_2025-02", user.ID)

		cache.On("Get", key).Return(nil, false)
		client.On("MonthlyMinutes", ctx, "secret-token", monthStart, now).Return(4200, nil)
		cache.On("Set", key, 4200, 30*time.Minute).Return()

		minutes := svc.MonthlyOnlineMinutes(ctx, user, now)

		assert.Equal(t, 4200, minutes)
		client.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips the remote call", func(t *testing.T) {
		client := mocks.NewMockTimeReportClient()
		cache := mocks.NewMockCache()
		svc := services.NewOnlineMinutesService(client, cache, 30*time.Minute, discardLogger())

		user := paceUser("secret-token")
		key := fmt.Sprintf("ssm_monthly_%s_2025-02", user.ID)

		cache.On("Get", key).Return(1234, true)

		minutes := svc.MonthlyOnlineMinutes(ctx, user, now)

		assert.Equal(t, 1234, minutes)
		client.AssertNotCalled(t, "MonthlyMinutes")
		cache.AssertNotCalled(t, "Set")
	})

	t.Run("no token means zero and no call", func(t *testing.T) {
		client := mocks.NewMockTimeReportClient()
		cache := mocks.NewMockCache()
		svc := services.NewOnlineMinutesService(client, cache, 30*time.Minute, discardLogger())

		user := &domain.User{ID: uuid.New(), Email: "nobody@example.com"}

		minutes := svc.MonthlyOnlineMinutes(ctx, user, now)

		assert.Equal(t, 0, minutes)
		client.AssertNotCalled(t, "MonthlyMinutes")
		cache.AssertNotCalled(t, "Get")
		cache.AssertNotCalled(t, "Set")
	})

	t.Run("remote failure reads as zero and is cached", func(t *testing.T) {
		client := mocks.NewMockTimeReportClient()
		cache := mocks.NewMockCache()
		svc := services.NewOnlineMinutesService(client, cache, 30*time.Minute, discardLogger())

		user := paceUser("secret-token")
		key := fmt.Sprintf("ssm_monthly_%s_2025-02", user.ID)

		cache.On("Get", key).Return(nil, false)
		client.On("MonthlyMinutes", ctx, "secret-token", monthStart, now).
			Return(0, errors.New("connection refused"))
		// The failure is cached like a real zero so retries are bounded
		// by the TTL window.
		cache.On("Set", key, 0, 30*time.Minute).Return()

		minutes := svc.MonthlyOnlineMinutes(ctx, user, now)

		assert.Equal(t, 0, minutes)
		cache.AssertExpectations(t)
	})

	t.Run("unexpected cache value falls through to the client", func(t *testing.T) {
		client := mocks.NewMockTimeReportClient()
		cache := mocks.NewMockCache()
		svc := services.NewOnlineMinutesService(client, cache, 30*time.Minute, discardLogger())

		user := paceUser("secret-token")

		cache.On("Get", mock.Anything).Return("not-an-int", true)
		client.On("MonthlyMinutes", ctx, "secret-token", monthStart, now).Return(900, nil)
		cache.On("Set", mock.Anything, 900, 30*time.Minute).Return()

		minutes := svc.MonthlyOnlineMinutes(ctx, user, now)

		assert.Equal(t, 900, minutes)
	})
}
