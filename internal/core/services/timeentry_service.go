package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// TimeEntryService implements offline time tracking.
type TimeEntryService struct {
	entries     ports.TimeEntryRepository
	users       ports.UserRepository
	broadcaster ports.EventBroadcaster
	wg          sync.WaitGroup
}

var _ ports.TimeEntryService = (*TimeEntryService)(nil)

// NewTimeEntryService creates a new time entry service.
func NewTimeEntryService(
	entries ports.TimeEntryRepository,
	users ports.UserRepository,
	broadcaster ports.EventBroadcaster,
) *TimeEntryService {
	return &TimeEntryService{
		entries:     entries,
		users:       users,
		broadcaster: broadcaster,
	}
}

// CreateEntry records a new offline time entry for the actor.
func (s *TimeEntryService) CreateEntry(ctx context.Context, params ports.CreateTimeEntryParams) (*domain.OfflineTimeEntry, error) {
	entry, err := domain.NewOfflineTimeEntry(domain.TimeEntryParams{
		UserID:          params.ActorID,
		TeamID:          params.TeamID,
		Date:            params.Date,
		StartTime:       params.StartTime,
		DurationMinutes: params.DurationMinutes,
		Note:            params.Note,
	})
	if err != nil {
		return nil, err
	}

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTimeEntryCreated, created)
	return created, nil
}

// GetEntry fetches one entry; only its owner or an admin may read it.
func (s *TimeEntryService) GetEntry(ctx context.Context, entryID int64, actorID uuid.UUID) (*domain.OfflineTimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, entry, actorID); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListEntries lists entries visible to the actor: admins see all, others only
// their own. An optional team filter narrows either view.
func (s *TimeEntryService) ListEntries(ctx context.Context, params ports.ListTimeEntriesParams) ([]*domain.OfflineTimeEntry, error) {
	actor, err := s.users.GetByID(ctx, params.ActorID)
	if err != nil {
		return nil, err
	}

	filter := ports.TimeEntryFilter{TeamID: params.TeamID}
	if !actor.IsAdmin() {
		id := actor.ID
		filter.UserID = &id
	}

	return s.entries.ListPaginated(ctx, filter, int32(params.Limit), int32(params.Offset))
}

// UpdateEntry amends an entry's date, duration, or note.
func (s *TimeEntryService) UpdateEntry(ctx context.Context, params ports.UpdateTimeEntryParams) (*domain.OfflineTimeEntry, error) {
	entry, err := s.entries.GetByID(ctx, params.EntryID)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, entry, params.ActorID); err != nil {
		return nil, err
	}

	if err := entry.Amend(params.Date, params.DurationMinutes, params.Note); err != nil {
		return nil, err
	}

	updated, err := s.entries.Update(ctx, entry)
	if err != nil {
		return nil, err
	}

	s.broadcast(domain.EventTimeEntryUpdated, updated)
	return updated, nil
}

// DeleteEntry removes an entry.
func (s *TimeEntryService) DeleteEntry(ctx context.Context, entryID int64, actorID uuid.UUID) error {
	entry, err := s.entries.GetByID(ctx, entryID)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, entry, actorID); err != nil {
		return err
	}

	if err := s.entries.Delete(ctx, entryID); err != nil {
		return err
	}

	s.broadcast(domain.EventTimeEntryDeleted, entry)
	return nil
}

// MonthlySummary aggregates the actor's entries for one calendar month.
func (s *TimeEntryService) MonthlySummary(ctx context.Context, params ports.MonthlySummaryParams) (*domain.MonthlySummary, error) {
	id := params.ActorID
	filter := ports.TimeEntryFilter{UserID: &id}

	total, err := s.entries.SumForMonth(ctx, filter, params.Year, params.Month)
	if err != nil {
		return nil, err
	}

	start := time.Date(params.Year, params.Month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)

	days, err := s.entries.DailySums(ctx, filter, start, end)
	if err != nil {
		return nil, err
	}

	return &domain.MonthlySummary{
		Year:         params.Year,
		Month:        params.Month,
		TotalMinutes: total,
		Days:         days,
	}, nil
}

// Shutdown waits for in-flight broadcasts.
func (s *TimeEntryService) Shutdown() {
	s.wg.Wait()
}

func (s *TimeEntryService) authorize(ctx context.Context, entry *domain.OfflineTimeEntry, actorID uuid.UUID) error {
	if entry.IsOwnedBy(actorID) {
		return nil
	}

	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *TimeEntryService) broadcast(eventType domain.EventType, entry *domain.OfflineTimeEntry) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.broadcaster.Broadcast(domain.Event{
			Type:    eventType,
			Payload: entry,
		})
	}()
}
