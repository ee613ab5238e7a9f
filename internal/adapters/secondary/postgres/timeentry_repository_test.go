package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

func mustCreateUser(t *testing.T, ctx context.Context) *domain.User {
	t.Helper()
	user, err := NewUserRepository(testPool).Create(ctx, newTestUser())
	require.NoError(t, err)
	return user
}

func mustCreateEntry(t *testing.T, ctx context.Context, repo ports.TimeEntryRepository, userID uuid.UUID, date time.Time, minutes int) *domain.OfflineTimeEntry {
	t.Helper()
	entry, err := repo.Create(ctx, &domain.OfflineTimeEntry{
		UserID:          userID,
		Date:            date,
		DurationMinutes: minutes,
		Note:            "fixture",
		CreatedAt:       time.Now().UTC(),
	})
	require.NoError(t, err)
	return entry
}

func TestTimeEntryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewTimeEntryRepository(testPool)

	day := func(d int) time.Time {
		return time.Date(2025, time.February, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("create round trip", func(t *testing.T) {
		user := mustCreateUser(t, ctx)

		entry := mustCreateEntry(t, ctx, repo, user.ID, day(3), 90)
		assert.NotZero(t, entry.ID)
		assert.Equal(t, user.ID, entry.UserID)
		assert.Nil(t, entry.TeamID)

		fetched, err := repo.GetByID(ctx, entry.ID)
		require.NoError(t, err)
		assert.Equal(t, 90, fetched.DurationMinutes)
		assert.Equal(t, "fixture", fetched.Note)
	})

	t.Run("missing entry", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, apperrors.ErrTimeEntryNotFound)
	})

	t.Run("update and delete", func(t *testing.T) {
		user := mustCreateUser(t, ctx)
		entry := mustCreateEntry(t, ctx, repo, user.ID, day(4), 60)

		entry.DurationMinutes = 120
		entry.Note = "amended"

		updated, err := repo.Update(ctx, entry)
		require.NoError(t, err)
		assert.Equal(t, 120, updated.DurationMinutes)
		assert.Equal(t, "amended", updated.Note)
		require.NotNil(t, updated.UpdatedAt)

		require.NoError(t, repo.Delete(ctx, entry.ID))
		assert.ErrorIs(t, repo.Delete(ctx, entry.ID), apperrors.ErrTimeEntryNotFound)
	})

	t.Run("list is scoped by the user filter", func(t *testing.T) {
		alice := mustCreateUser(t, ctx)
		bob := mustCreateUser(t, ctx)
		mustCreateEntry(t, ctx, repo, alice.ID, day(10), 60)
		mustCreateEntry(t, ctx, repo, alice.ID, day(11), 30)
		mustCreateEntry(t, ctx, repo, bob.ID, day(10), 45)

		entries, err := repo.ListPaginated(ctx, ports.TimeEntryFilter{UserID: &alice.ID}, 10, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		// Newest entry date first.
		assert.Equal(t, day(11), entries[0].Date)
		for _, e := range entries {
			assert.Equal(t, alice.ID, e.UserID)
		}
	})

	t.Run("sums and daily buckets", func(t *testing.T) {
		user := mustCreateUser(t, ctx)
		filter := ports.TimeEntryFilter{UserID: &user.ID}
		mustCreateEntry(t, ctx, repo, user.ID, day(20), 60)
		mustCreateEntry(t, ctx, repo, user.ID, day(20), 30)
		mustCreateEntry(t, ctx, repo, user.ID, day(21), 45)

		daySum, err := repo.SumForDate(ctx, filter, day(20))
		require.NoError(t, err)
		assert.Equal(t, 90, daySum)

		monthSum, err := repo.SumForMonth(ctx, filter, 2025, time.February)
		require.NoError(t, err)
		assert.Equal(t, 135, monthSum)

		emptySum, err := repo.SumForDate(ctx, filter, day(22))
		require.NoError(t, err)
		assert.Zero(t, emptySum)

		points, err := repo.DailySums(ctx, filter, day(20), day(21))
		require.NoError(t, err)
		require.Len(t, points, 2)
		assert.Equal(t, 90, points[0].Minutes)
		assert.Equal(t, 45, points[1].Minutes)
	})

	t.Run("counts distinct active users", func(t *testing.T) {
		first := mustCreateUser(t, ctx)
		second := mustCreateUser(t, ctx)
		mustCreateEntry(t, ctx, repo, first.ID, day(25), 60)
		mustCreateEntry(t, ctx, repo, first.ID, day(25), 30)
		mustCreateEntry(t, ctx, repo, second.ID, day(25), 15)

		count, err := repo.CountActiveUsersOn(ctx, day(25))
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})
}
