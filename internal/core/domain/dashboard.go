package domain

import "time"

// ActivityPoint is one day's total recorded minutes.
type ActivityPoint struct {
	Date    time.Time
	Minutes int
}

// AdminStats carries organisation-wide figures shown only to admins.
type AdminStats struct {
	TotalUsers       int64
	ActiveUsersToday int64
}

// DashboardOverview is everything the dashboard page needs for one user.
// Like the pace report it is recomputed per request and never stored.
type DashboardOverview struct {
	TodayMinutes        int
	MonthOfflineMinutes int
	RecentEntries       []*OfflineTimeEntry
	Chart               []ActivityPoint
	AdminStats          *AdminStats
	IsAdmin             bool
	Pace                *MonthlyPaceReport
}

// MonthlySummary aggregates one user's offline entries for a calendar month.
type MonthlySummary struct {
	Year         int
	Month        time.Month
	TotalMinutes int
	Days         []ActivityPoint
}
