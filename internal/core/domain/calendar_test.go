package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCountWeekday(t *testing.T) {
	t.Run("february 2025 has four fridays", func(t *testing.T) {
		count, err := domain.CountWeekday(date(2025, time.February, 1), date(2025, time.February, 28), time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})

	t.Run("single day matching", func(t *testing.T) {
		// 2025-02-07 is a Friday
		count, err := domain.CountWeekday(date(2025, time.February, 7), date(2025, time.February, 7), time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("single day not matching", func(t *testing.T) {
		count, err := domain.CountWeekday(date(2025, time.February, 6), date(2025, time.February, 6), time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("start after end fails", func(t *testing.T) {
		_, err := domain.CountWeekday(date(2025, time.February, 28), date(2025, time.February, 1), time.Friday)

		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		start := time.Date(2025, time.February, 1, 23, 59, 0, 0, time.UTC)
		end := time.Date(2025, time.February, 28, 0, 1, 0, 0, time.UTC)

		count, err := domain.CountWeekday(start, end, time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 4, count)
	})
}

func TestWorkingDayCount(t *testing.T) {
	t.Run("february 2025 excluding fridays", func(t *testing.T) {
		count, err := domain.WorkingDayCount(date(2025, time.February, 1), date(2025, time.February, 28), time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 24, count)
	})

	t.Run("august 2025 has five fridays", func(t *testing.T) {
		count, err := domain.WorkingDayCount(date(2025, time.August, 1), date(2025, time.August, 31), time.Friday)

		require.NoError(t, err)
		assert.Equal(t, 26, count)
	})

	t.Run("excluding sundays instead", func(t *testing.T) {
		count, err := domain.WorkingDayCount(date(2025, time.February, 1), date(2025, time.February, 28), time.Sunday)

		require.NoError(t, err)
		assert.Equal(t, 24, count)
	})

	t.Run("start after end fails", func(t *testing.T) {
		_, err := domain.WorkingDayCount(date(2025, time.March, 2), date(2025, time.March, 1), time.Friday)

		assert.ErrorIs(t, err, apperrors.ErrInvalidDateRange)
	})

	t.Run("working days plus excluded days cover the month", func(t *testing.T) {
		months := []struct {
			year  int
			month time.Month
			days  int
		}{
			{2024, time.February, 29},
			{2025, time.February, 28},
			{2025, time.April, 30},
			{2025, time.August, 31},
			{2025, time.December, 31},
		}

		for _, m := range months {
			start := date(m.year, m.month, 1)
			end := date(m.year, m.month, m.days)

			working, err := domain.WorkingDayCount(start, end, time.Friday)
			require.NoError(t, err)
			fridays, err := domain.CountWeekday(start, end, time.Friday)
			require.NoError(t, err)

			assert.Equal(t, m.days, working+fridays, "%d-%02d", m.year, m.month)
		}
	})

	t.Run("monotonic as the range widens", func(t *testing.T) {
		start := date(2025, time.February, 1)
		prev := 0
		for day := 1; day <= 28; day++ {
			count, err := domain.WorkingDayCount(start, date(2025, time.February, day), time.Friday)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, count, prev)
			prev = count
		}
	})

	t.Run("spans a DST transition", func(t *testing.T) {
		loc, err := time.LoadLocation("Europe/Berlin")
		require.NoError(t, err)

		// March 2025 contains the spring-forward Sunday (March 30).
		start := time.Date(2025, time.March, 1, 0, 0, 0, 0, loc)
		end := time.Date(2025, time.March, 31, 0, 0, 0, 0, loc)

		count, err := domain.WorkingDayCount(start, end, time.Friday)
		require.NoError(t, err)
		assert.Equal(t, 27, count) // 31 days, 4 Fridays
	})
}

func TestMonthBounds(t *testing.T) {
	t.Run("mid month", func(t *testing.T) {
		start, end := domain.MonthBounds(time.Date(2025, time.February, 14, 13, 45, 0, 0, time.UTC))

		assert.Equal(t, date(2025, time.February, 1), start)
		assert.Equal(t, date(2025, time.February, 28), end)
	})

	t.Run("leap february", func(t *testing.T) {
		start, end := domain.MonthBounds(date(2024, time.February, 29))

		assert.Equal(t, date(2024, time.February, 1), start)
		assert.Equal(t, date(2024, time.February, 29), end)
	})

	t.Run("december", func(t *testing.T) {
		start, end := domain.MonthBounds(date(2025, time.December, 31))

		assert.Equal(t, date(2025, time.December, 1), start)
		assert.Equal(t, date(2025, time.December, 31), end)
	})
}
