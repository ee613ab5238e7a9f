package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// DashboardHandler serves the dashboard page data.
type DashboardHandler struct {
	dashboardService ports.DashboardService
	errorHandler     *ErrorHandler
	logger           *slog.Logger
	// now is swappable for tests.
	now func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(
	dashboardService ports.DashboardService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		errorHandler:     errorHandler,
		logger:           logger.With("handler", "dashboard"),
		now:              time.Now,
	}
}

// RegisterRoutes sets up the routing for the dashboard endpoint.
func (h *DashboardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleOverview)
}

// --- Response DTOs ---

// MonthlyPaceDTO defines the JSON response for the monthly pace report.
type MonthlyPaceDTO struct {
	MonthlyTargetMinutes   int    `json:"monthlyTargetMinutes"`
	MonthlyTargetFormatted string `json:"monthlyTargetFormatted"`
	TotalWorkedMinutes     int    `json:"totalWorkedMinutes"`
	TotalWorkedFormatted   string `json:"totalWorkedFormatted"`
	OfflineMinutes         int    `json:"offlineMinutes"`
	OnlineMinutes          int    `json:"onlineMinutes"`
	RemainingMinutes       int    `json:"remainingMinutes"`
	RemainingFormatted     string `json:"remainingFormatted"`
	RemainingWorkingDays   int    `json:"remainingWorkingDays"`
	TotalWorkingDays       int    `json:"totalWorkingDays"`
	RequiredDailyMinutes   int    `json:"requiredDailyMinutes"`
	RequiredDailyFormatted string `json:"requiredDailyFormatted"`
	Status                 string `json:"status"`
	SSMConfigured          bool   `json:"ssmConfigured"`
}

func toMonthlyPaceDTO(pace *domain.MonthlyPaceReport) MonthlyPaceDTO {
	return MonthlyPaceDTO{
		MonthlyTargetMinutes:   pace.MonthlyTargetMinutes,
		MonthlyTargetFormatted: domain.FormatDuration(pace.MonthlyTargetMinutes),
		TotalWorkedMinutes:     pace.TotalWorkedMinutes,
		TotalWorkedFormatted:   domain.FormatDuration(pace.TotalWorkedMinutes),
		OfflineMinutes:         pace.OfflineMinutes,
		OnlineMinutes:          pace.OnlineMinutes,
		RemainingMinutes:       pace.RemainingMinutes,
		RemainingFormatted:     domain.FormatDuration(pace.RemainingMinutes),
		RemainingWorkingDays:   pace.RemainingWorkingDays,
		TotalWorkingDays:       pace.TotalWorkingDays,
		RequiredDailyMinutes:   pace.RequiredDailyMinutes,
		RequiredDailyFormatted: domain.FormatDuration(pace.RequiredDailyMinutes),
		Status:                 string(pace.Status),
		SSMConfigured:          pace.OnlineSourceConfigured,
	}
}

// AdminStatsDTO defines the admin-only counters on the dashboard.
type AdminStatsDTO struct {
	TotalUsers       int64 `json:"totalUsers"`
	ActiveUsersToday int64 `json:"activeUsersToday"`
}

// DashboardResponse defines the JSON response for the dashboard.
type DashboardResponse struct {
	TodayMinutes        int                `json:"todayMinutes"`
	TodayFormatted      string             `json:"todayFormatted"`
	MonthOfflineMinutes int                `json:"monthOfflineMinutes"`
	MonthFormatted      string             `json:"monthFormatted"`
	RecentEntries       []TimeEntryDTO     `json:"recentEntries"`
	Chart               []ActivityPointDTO `json:"chart"`
	IsAdmin             bool               `json:"isAdmin"`
	AdminStats          *AdminStatsDTO     `json:"adminStats,omitempty"`
	MonthlyPace         MonthlyPaceDTO     `json:"monthlyPace"`
}

// HandleOverview handles GET /dashboard
func (h *DashboardHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	overview, err := h.dashboardService.Overview(r.Context(), claims.UserID, h.now())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var adminStats *AdminStatsDTO
	if overview.AdminStats != nil {
		adminStats = &AdminStatsDTO{
			TotalUsers:       overview.AdminStats.TotalUsers,
			ActiveUsersToday: overview.AdminStats.ActiveUsersToday,
		}
	}

	WriteJSON(w, http.StatusOK, DashboardResponse{
		TodayMinutes:        overview.TodayMinutes,
		TodayFormatted:      domain.FormatDuration(overview.TodayMinutes),
		MonthOfflineMinutes: overview.MonthOfflineMinutes,
		MonthFormatted:      domain.FormatDuration(overview.MonthOfflineMinutes),
		RecentEntries:       toTimeEntryDTOs(overview.RecentEntries),
		Chart:               toActivityPointDTOs(overview.Chart),
		IsAdmin:             overview.IsAdmin,
		AdminStats:          adminStats,
		MonthlyPace:         toMonthlyPaceDTO(overview.Pace),
	})
}

// getClaims extracts and validates user claims from the request context
func (h *DashboardHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := mw.GetClaims(r.Context())
	if !ok {
		WriteJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error: "Not authorized",
			Code:  "UNAUTHORIZED",
		})
		return nil, false
	}
	return claims, true
}
