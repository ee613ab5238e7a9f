package domain

import (
	"time"

	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

// DefaultExcludedWeekday is the business calendar's non-working weekday.
var DefaultExcludedWeekday = time.Friday

// CountWeekday counts the calendar days in the inclusive range [start, end]
// that fall on the given weekday. Only the date part of start and end is
// considered. Returns ErrInvalidDateRange when start is after end; that is a
// caller bug and is never silently corrected.
//
// The range is walked day by day. Ranges in this domain are at most a month
// long, so the iterative form is kept for clarity over closed-form
// day-of-week arithmetic.
func CountWeekday(start, end time.Time, weekday time.Weekday) (int, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return 0, apperrors.ErrInvalidDateRange
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == weekday {
			count++
		}
	}
	return count, nil
}

// WorkingDayCount counts the days in [start, end] that do not fall on the
// excluded weekday.
func WorkingDayCount(start, end time.Time, excluded time.Weekday) (int, error) {
	start = truncateToDay(start)
	end = truncateToDay(end)

	if start.After(end) {
		return 0, apperrors.ErrInvalidDateRange
	}

	count := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != excluded {
			count++
		}
	}
	return count, nil
}

// MonthBounds returns the first and last day of the calendar month containing
// the given instant, truncated to midnight in that instant's location.
func MonthBounds(now time.Time) (start, end time.Time) {
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end = start.AddDate(0, 1, -1)
	return start, end
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
