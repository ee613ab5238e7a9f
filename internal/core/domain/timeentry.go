package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

const (
	MaxNoteLength = 1000
	// MaxEntryMinutes caps a single entry at 24 hours.
	MaxEntryMinutes = 24 * 60
)

// OfflineTimeEntry is a manually recorded block of work. The "offline"
// qualifier distinguishes it from minutes reported by the online monitoring
// service; both feed the monthly pace calculation.
type OfflineTimeEntry struct {
	ID              int64
	UserID          uuid.UUID
	TeamID          *int64
	Date            time.Time
	StartTime       *time.Time
	DurationMinutes int
	Note            string
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

// TimeEntryParams holds the input for creating a time entry.
type TimeEntryParams struct {
	UserID          uuid.UUID
	TeamID          *int64
	Date            time.Time
	StartTime       *time.Time
	DurationMinutes int
	Note            string
}

// NewOfflineTimeEntry validates params and builds a new entry.
func NewOfflineTimeEntry(params TimeEntryParams) (*OfflineTimeEntry, error) {
	if params.Date.IsZero() {
		return nil, apperrors.ErrDateRequired
	}
	if params.DurationMinutes <= 0 || params.DurationMinutes > MaxEntryMinutes {
		return nil, apperrors.ErrInvalidDuration
	}
	if len(params.Note) > MaxNoteLength {
		return nil, apperrors.ErrBadRequest
	}

	return &OfflineTimeEntry{
		UserID:          params.UserID,
		TeamID:          params.TeamID,
		Date:            truncateToDay(params.Date),
		StartTime:       params.StartTime,
		DurationMinutes: params.DurationMinutes,
		Note:            params.Note,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// IsOwnedBy reports whether the entry belongs to the given user.
func (e *OfflineTimeEntry) IsOwnedBy(userID uuid.UUID) bool {
	return e.UserID == userID
}

// Amend updates the mutable fields of an entry, re-running validation.
func (e *OfflineTimeEntry) Amend(date time.Time, durationMinutes int, note string) error {
	if date.IsZero() {
		return apperrors.ErrDateRequired
	}
	if durationMinutes <= 0 || durationMinutes > MaxEntryMinutes {
		return apperrors.ErrInvalidDuration
	}
	if len(note) > MaxNoteLength {
		return apperrors.ErrBadRequest
	}

	e.Date = truncateToDay(date)
	e.DurationMinutes = durationMinutes
	e.Note = note
	now := time.Now().UTC()
	e.UpdatedAt = &now
	return nil
}
