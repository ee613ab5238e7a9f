package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

const (
	recentEntriesLimit = 5
	chartDays          = 7
)

// DashboardService assembles the dashboard page: today's and this month's
// recorded time, recent entries, a 7-day activity chart, admin stats, and
// the monthly pace report. Admins see organisation-wide sums.
type DashboardService struct {
	users   ports.UserRepository
	entries ports.TimeEntryRepository
	pace    ports.PaceService
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates a new dashboard service.
func NewDashboardService(
	users ports.UserRepository,
	entries ports.TimeEntryRepository,
	pace ports.PaceService,
) *DashboardService {
	return &DashboardService{
		users:   users,
		entries: entries,
		pace:    pace,
	}
}

// Overview computes the dashboard data for one user at the given instant.
func (s *DashboardService) Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DashboardOverview, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	filter := ports.TimeEntryFilter{}
	if !user.IsAdmin() {
		id := user.ID
		filter.UserID = &id
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	todayMinutes, err := s.entries.SumForDate(ctx, filter, today)
	if err != nil {
		return nil, err
	}

	monthOffline, err := s.entries.SumForMonth(ctx, filter, now.Year(), now.Month())
	if err != nil {
		return nil, err
	}

	recent, err := s.entries.ListRecent(ctx, filter, recentEntriesLimit)
	if err != nil {
		return nil, err
	}

	chart, err := s.activityChart(ctx, filter, today)
	if err != nil {
		return nil, err
	}

	var adminStats *domain.AdminStats
	if user.IsAdmin() {
		adminStats, err = s.adminStats(ctx, today)
		if err != nil {
			return nil, err
		}
	}

	paceReport, err := s.pace.MonthlyPace(ctx, user, monthOffline, now)
	if err != nil {
		return nil, err
	}

	return &domain.DashboardOverview{
		TodayMinutes:        todayMinutes,
		MonthOfflineMinutes: monthOffline,
		RecentEntries:       recent,
		Chart:               chart,
		AdminStats:          adminStats,
		IsAdmin:             user.IsAdmin(),
		Pace:                paceReport,
	}, nil
}

// activityChart builds a dense 7-day series ending today; days without
// entries read as zero.
func (s *DashboardService) activityChart(ctx context.Context, filter ports.TimeEntryFilter, today time.Time) ([]domain.ActivityPoint, error) {
	from := today.AddDate(0, 0, -(chartDays - 1))

	sums, err := s.entries.DailySums(ctx, filter, from, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(sums))
	for _, p := range sums {
		byDay[p.Date.Format("2006-01-02")] = p.Minutes
	}

	chart := make([]domain.ActivityPoint, 0, chartDays)
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		chart = append(chart, domain.ActivityPoint{
			Date:    d,
			Minutes: byDay[d.Format("2006-01-02")],
		})
	}
	return chart, nil
}

func (s *DashboardService) adminStats(ctx context.Context, today time.Time) (*domain.AdminStats, error) {
	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}

	activeToday, err := s.entries.CountActiveUsersOn(ctx, today)
	if err != nil {
		return nil, err
	}

	return &domain.AdminStats{
		TotalUsers:       totalUsers,
		ActiveUsersToday: activeToday,
	}, nil
}
