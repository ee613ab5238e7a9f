package services

import (
	"context"
	"time"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// PaceConfig holds the business constants of the monthly pace calculation.
type PaceConfig struct {
	// TargetHoursPerWorkingDay is the daily target, default 8.
	TargetHoursPerWorkingDay int
	// ExcludedWeekday is the weekday that never counts as a working day.
	ExcludedWeekday time.Weekday
}

// DefaultPaceConfig returns the reference business calendar: 8 hours per
// working day, Fridays excluded.
func DefaultPaceConfig() PaceConfig {
	return PaceConfig{
		TargetHoursPerWorkingDay: 8,
		ExcludedWeekday:          domain.DefaultExcludedWeekday,
	}
}

// PaceService computes how much work per day is needed to meet the monthly
// target, blending offline entries with the online time source.
type PaceService struct {
	online ports.OnlineMinutesProvider
	cfg    PaceConfig
}

var _ ports.PaceService = (*PaceService)(nil)

// NewPaceService creates a new pace service.
func NewPaceService(online ports.OnlineMinutesProvider, cfg PaceConfig) *PaceService {
	if cfg.TargetHoursPerWorkingDay <= 0 {
		cfg.TargetHoursPerWorkingDay = 8
	}
	return &PaceService{online: online, cfg: cfg}
}

// MonthlyPace produces the pace report for the calendar month containing now.
// offlineMinutes is the caller-supplied sum of the user's offline entries for
// that month; now is explicit so month boundaries are testable.
func (s *PaceService) MonthlyPace(ctx context.Context, user *domain.User, offlineMinutes int, now time.Time) (*domain.MonthlyPaceReport, error) {
	start, end := domain.MonthBounds(now)

	totalWorkingDays, err := domain.WorkingDayCount(start, end, s.cfg.ExcludedWeekday)
	if err != nil {
		return nil, err
	}

	targetMinutes := totalWorkingDays * s.cfg.TargetHoursPerWorkingDay * 60

	onlineMinutes := s.online.MonthlyOnlineMinutes(ctx, user, now)

	totalWorked := offlineMinutes + onlineMinutes

	remaining := targetMinutes - totalWorked
	if remaining < 0 {
		remaining = 0
	}

	// Remaining days start tomorrow: today's shortfall can no longer be
	// spread over today.
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	remainingWorkingDays := 0
	if !tomorrow.After(end) {
		remainingWorkingDays, err = domain.WorkingDayCount(tomorrow, end, s.cfg.ExcludedWeekday)
		if err != nil {
			return nil, err
		}
	}

	requiredDaily := 0
	if remainingWorkingDays > 0 {
		requiredDaily = ceilDiv(remaining, remainingWorkingDays)
	}

	return &domain.MonthlyPaceReport{
		MonthlyTargetMinutes:   targetMinutes,
		TotalWorkedMinutes:     totalWorked,
		OfflineMinutes:         offlineMinutes,
		OnlineMinutes:          onlineMinutes,
		RemainingMinutes:       remaining,
		RemainingWorkingDays:   remainingWorkingDays,
		TotalWorkingDays:       totalWorkingDays,
		RequiredDailyMinutes:   requiredDaily,
		Status:                 domain.DerivePaceStatus(remaining, remainingWorkingDays, requiredDaily),
		OnlineSourceConfigured: user.HasOnlineSource(),
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
