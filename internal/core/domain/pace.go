package domain

import "fmt"

// PaceStatus summarises whether a user is on track to meet the monthly
// working-time target.
type PaceStatus string

const (
	PaceCompleted PaceStatus = "completed"
	PaceMissed    PaceStatus = "missed"
	PaceBehind    PaceStatus = "behind"
	PaceOnTrack   PaceStatus = "on_track"
)

// BehindThresholdMinutes is the required daily pace above which a user is
// considered behind (more than 10 hours per remaining working day).
const BehindThresholdMinutes = 10 * 60

// MonthlyPaceReport is the derived pace metric set for one user and one
// calendar month. It is recomputed on every dashboard request and never
// persisted; it is a pure function of its inputs and the supplied instant.
type MonthlyPaceReport struct {
	MonthlyTargetMinutes   int
	TotalWorkedMinutes     int
	OfflineMinutes         int
	OnlineMinutes          int
	RemainingMinutes       int
	RemainingWorkingDays   int
	TotalWorkingDays       int
	RequiredDailyMinutes   int
	Status                 PaceStatus
	OnlineSourceConfigured bool
}

// DerivePaceStatus applies the status rules in priority order: a met target
// always reads completed, an unmet target with no working days left reads
// missed, a required pace above the threshold reads behind.
func DerivePaceStatus(remainingMinutes, remainingWorkingDays, requiredDailyMinutes int) PaceStatus {
	switch {
	case remainingMinutes <= 0:
		return PaceCompleted
	case remainingWorkingDays == 0:
		return PaceMissed
	case requiredDailyMinutes > BehindThresholdMinutes:
		return PaceBehind
	default:
		return PaceOnTrack
	}
}

// FormatDuration renders minutes as "{h}h {m}m", dropping the zero component.
// Zero minutes renders as "0m".
func FormatDuration(minutes int) string {
	h := minutes / 60
	m := minutes % 60

	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}
