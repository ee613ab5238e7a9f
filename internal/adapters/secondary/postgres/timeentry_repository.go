package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/utils"
)

type TimeEntryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TimeEntryRepository = (*TimeEntryRepository)(nil)

func NewTimeEntryRepository(pool *pgxpool.Pool) ports.TimeEntryRepository {
	return &TimeEntryRepository{pool: pool}
}

const entryColumns = `id, user_id, team_id, entry_date, start_time, duration_minutes, note, created_at, updated_at`

func scanEntry(row pgx.Row) (*domain.OfflineTimeEntry, error) {
	var (
		entry     domain.OfflineTimeEntry
		userID    pgtype.UUID
		teamID    pgtype.Int8
		startTime pgtype.Timestamptz
		note      pgtype.Text
		updatedAt pgtype.Timestamptz
	)
	if err := row.Scan(&entry.ID, &userID, &teamID, &entry.Date, &startTime, &entry.DurationMinutes, &note, &entry.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}
	entry.UserID = userID.Bytes
	if teamID.Valid {
		value := teamID.Int64
		entry.TeamID = &value
	}
	entry.StartTime = utils.FromNullTimestamp(startTime)
	entry.Note = utils.FromText(note)
	entry.UpdatedAt = utils.FromNullTimestamp(updatedAt)
	return &entry, nil
}

// filterClause renders the filter as SQL conditions starting at the given
// placeholder index. Returns the clause (possibly empty) and its arguments.
func filterClause(filter ports.TimeEntryFilter, startIdx int) (string, []interface{}) {
	clause := ""
	args := make([]interface{}, 0, 2)
	idx := startIdx

	if filter.UserID != nil {
		clause += fmt.Sprintf(" AND user_id = $%d", idx)
		args = append(args, pgtype.UUID{Bytes: *filter.UserID, Valid: true})
		idx++
	}
	if filter.TeamID != nil {
		clause += fmt.Sprintf(" AND team_id = $%d", idx)
		args = append(args, *filter.TeamID)
	}
	return clause, args
}

func (r *TimeEntryRepository) Create(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error) {
	const query = `
INSERT INTO offline_time_entries (user_id, team_id, entry_date, start_time, duration_minutes, note, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + entryColumns

	var teamID pgtype.Int8
	if entry.TeamID != nil {
		teamID = pgtype.Int8{Int64: *entry.TeamID, Valid: true}
	}

	row := r.pool.QueryRow(ctx, query,
		pgtype.UUID{Bytes: entry.UserID, Valid: true},
		teamID,
		entry.Date,
		utils.ToNullTimestamp(entry.StartTime),
		entry.DurationMinutes,
		utils.ToText(entry.Note),
		entry.CreatedAt,
	)
	return scanEntry(row)
}

func (r *TimeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.OfflineTimeEntry, error) {
	const query = `SELECT ` + entryColumns + ` FROM offline_time_entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTimeEntryNotFound
		}
		return nil, err
	}
	return entry, nil
}

func (r *TimeEntryRepository) Update(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error) {
	const query = `
UPDATE offline_time_entries
SET entry_date = $2, duration_minutes = $3, note = $4, updated_at = NOW()
WHERE id = $1
RETURNING ` + entryColumns

	row := r.pool.QueryRow(ctx, query,
		entry.ID,
		entry.Date,
		entry.DurationMinutes,
		utils.ToText(entry.Note),
	)

	updated, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTimeEntryNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (r *TimeEntryRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM offline_time_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTimeEntryNotFound
	}
	return nil
}

func (r *TimeEntryRepository) ListPaginated(ctx context.Context, filter ports.TimeEntryFilter, limit, offset int32) ([]*domain.OfflineTimeEntry, error) {
	clause, args := filterClause(filter, 3)
	query := `SELECT ` + entryColumns + `
FROM offline_time_entries
WHERE 1=1` + clause + `
ORDER BY entry_date DESC, id DESC
LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, append([]interface{}{limit, offset}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *TimeEntryRepository) ListRecent(ctx context.Context, filter ports.TimeEntryFilter, limit int32) ([]*domain.OfflineTimeEntry, error) {
	clause, args := filterClause(filter, 2)
	query := `SELECT ` + entryColumns + `
FROM offline_time_entries
WHERE 1=1` + clause + `
ORDER BY created_at DESC, id DESC
LIMIT $1`

	rows, err := r.pool.Query(ctx, query, append([]interface{}{limit}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

func (r *TimeEntryRepository) SumForDate(ctx context.Context, filter ports.TimeEntryFilter, date time.Time) (int, error) {
	clause, args := filterClause(filter, 2)
	query := `SELECT COALESCE(SUM(duration_minutes), 0)
FROM offline_time_entries
WHERE entry_date = $1` + clause

	var total int
	err := r.pool.QueryRow(ctx, query, append([]interface{}{date}, args...)...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TimeEntryRepository) SumForMonth(ctx context.Context, filter ports.TimeEntryFilter, year int, month time.Month) (int, error) {
	clause, args := filterClause(filter, 3)
	query := `SELECT COALESCE(SUM(duration_minutes), 0)
FROM offline_time_entries
WHERE EXTRACT(YEAR FROM entry_date) = $1
  AND EXTRACT(MONTH FROM entry_date) = $2` + clause

	var total int
	err := r.pool.QueryRow(ctx, query, append([]interface{}{year, int(month)}, args...)...).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *TimeEntryRepository) DailySums(ctx context.Context, filter ports.TimeEntryFilter, from, to time.Time) ([]domain.ActivityPoint, error) {
	clause, args := filterClause(filter, 3)
	query := `SELECT entry_date, SUM(duration_minutes)
FROM offline_time_entries
WHERE entry_date >= $1 AND entry_date <= $2` + clause + `
GROUP BY entry_date
ORDER BY entry_date`

	rows, err := r.pool.Query(ctx, query, append([]interface{}{from, to}, args...)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	points := make([]domain.ActivityPoint, 0)
	for rows.Next() {
		var point domain.ActivityPoint
		if err := rows.Scan(&point.Date, &point.Minutes); err != nil {
			return nil, err
		}
		points = append(points, point)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return points, nil
}

func (r *TimeEntryRepository) CountActiveUsersOn(ctx context.Context, date time.Time) (int64, error) {
	const query = `SELECT COUNT(DISTINCT user_id) FROM offline_time_entries WHERE entry_date = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.OfflineTimeEntry, error) {
	entries := make([]*domain.OfflineTimeEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
