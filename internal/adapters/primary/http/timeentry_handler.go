package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/adapters/primary/validation"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

const maxEntriesPerPage = 100

// TimeEntryHandler handles HTTP requests for offline time entries.
type TimeEntryHandler struct {
	entryService ports.TimeEntryService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTimeEntryHandler creates a new time entry handler.
func NewTimeEntryHandler(
	entryService ports.TimeEntryService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TimeEntryHandler {
	return &TimeEntryHandler{
		entryService: entryService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "time_entry"),
	}
}

// RegisterRoutes sets up the routing for all time entry endpoints.
func (h *TimeEntryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListEntries)
	r.Post("/", h.HandleCreateEntry)
	r.Get("/summary", h.HandleMonthlySummary)

	r.Route("/{entryID}", func(r chi.Router) {
		r.Get("/", h.HandleGetEntry)
		r.Put("/", h.HandleUpdateEntry)
		r.Delete("/", h.HandleDeleteEntry)
	})
}

// --- Request/Response DTOs ---

// CreateEntryRequest defines the expected JSON body for recording time
type CreateEntryRequest struct {
	Date            string `json:"date"`
	StartTime       string `json:"startTime,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	Note            string `json:"note"`
	TeamID          *int64 `json:"teamId,omitempty"`
}

// Validate validates the create entry request
func (r *CreateEntryRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("date", r.Date).
		Date("date", r.Date)

	v.Range("durationMinutes", r.DurationMinutes, 1, domain.MaxEntryMinutes)
	v.MaxLength("note", r.Note, domain.MaxNoteLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateEntryRequest defines the expected JSON body for amending an entry
type UpdateEntryRequest struct {
	Date            string `json:"date"`
	DurationMinutes int    `json:"durationMinutes"`
	Note            string `json:"note"`
}

// Validate validates the update entry request
func (r *UpdateEntryRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("date", r.Date).
		Date("date", r.Date)

	v.Range("durationMinutes", r.DurationMinutes, 1, domain.MaxEntryMinutes)
	v.MaxLength("note", r.Note, domain.MaxNoteLength)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TimeEntryDTO defines the JSON response for time entries.
type TimeEntryDTO struct {
	ID                int64   `json:"id"`
	UserID            string  `json:"userId"`
	TeamID            *int64  `json:"teamId"`
	Date              string  `json:"date"`
	StartTime         *string `json:"startTime"`
	DurationMinutes   int     `json:"durationMinutes"`
	DurationFormatted string  `json:"durationFormatted"`
	Note              string  `json:"note"`
	CreatedAt         string  `json:"createdAt"`
	UpdatedAt         *string `json:"updatedAt"`
}

func toTimeEntryDTO(entry *domain.OfflineTimeEntry) TimeEntryDTO {
	var startTime *string
	if entry.StartTime != nil {
		value := entry.StartTime.Format(time.RFC3339)
		startTime = &value
	}

	var updatedAt *string
	if entry.UpdatedAt != nil {
		value := entry.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return TimeEntryDTO{
		ID:                entry.ID,
		UserID:            entry.UserID.String(),
		TeamID:            entry.TeamID,
		Date:              entry.Date.Format(validation.DateLayout),
		StartTime:         startTime,
		DurationMinutes:   entry.DurationMinutes,
		DurationFormatted: domain.FormatDuration(entry.DurationMinutes),
		Note:              entry.Note,
		CreatedAt:         entry.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         updatedAt,
	}
}

func toTimeEntryDTOs(entries []*domain.OfflineTimeEntry) []TimeEntryDTO {
	response := make([]TimeEntryDTO, 0, len(entries))
	for _, entry := range entries {
		response = append(response, toTimeEntryDTO(entry))
	}
	return response
}

// --- Handlers ---

// HandleListEntries handles GET /time-entries
func (h *TimeEntryHandler) HandleListEntries(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxEntriesPerPage)

	var teamID *int64
	if teamIDStr := r.URL.Query().Get("teamId"); teamIDStr != "" {
		parsed, err := strconv.ParseInt(teamIDStr, 10, 64)
		if err != nil || parsed <= 0 {
			v := validation.NewValidator()
			v.Custom("teamId", false, "Invalid team ID")
			h.errorHandler.Handle(w, r, v.Errors())
			return
		}
		teamID = &parsed
	}

	entries, err := h.entryService.ListEntries(r.Context(), ports.ListTimeEntriesParams{
		ActorID: claims.UserID,
		TeamID:  teamID,
		Limit:   pagination.Limit + 1,
		Offset:  pagination.Offset,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toTimeEntryDTOs(entries), pagination.Limit, pagination.Offset)
}

// HandleCreateEntry handles POST /time-entries
func (h *TimeEntryHandler) HandleCreateEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[CreateEntryRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	var startTime *time.Time
	if req.StartTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.StartTime)
		if err != nil {
			v := validation.NewValidator()
			v.Custom("startTime", false, "Must be an RFC3339 timestamp")
			h.errorHandler.Handle(w, r, v.Errors())
			return
		}
		startTime = &parsed
	}

	entry, err := h.entryService.CreateEntry(r.Context(), ports.CreateTimeEntryParams{
		ActorID:         claims.UserID,
		TeamID:          req.TeamID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("time entry created",
		"entry_id", entry.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTimeEntryDTO(entry))
}

// HandleGetEntry handles GET /time-entries/{entryID}
func (h *TimeEntryHandler) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	entryID, err := h.parseEntryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	entry, err := h.entryService.GetEntry(r.Context(), entryID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toTimeEntryDTO(entry))
}

// HandleUpdateEntry handles PUT /time-entries/{entryID}
func (h *TimeEntryHandler) HandleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	entryID, err := h.parseEntryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[UpdateEntryRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	date, err := validation.ParseDate(req.Date)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	entry, err := h.entryService.UpdateEntry(r.Context(), ports.UpdateTimeEntryParams{
		EntryID:         entryID,
		ActorID:         claims.UserID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Note:            req.Note,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("time entry updated",
		"entry_id", entryID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTimeEntryDTO(entry))
}

// HandleDeleteEntry handles DELETE /time-entries/{entryID}
func (h *TimeEntryHandler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	entryID, err := h.parseEntryID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.entryService.DeleteEntry(r.Context(), entryID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("time entry deleted",
		"entry_id", entryID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// MonthlySummaryResponse defines the JSON response for the monthly summary.
type MonthlySummaryResponse struct {
	Year           int                `json:"year"`
	Month          int                `json:"month"`
	TotalMinutes   int                `json:"totalMinutes"`
	TotalFormatted string             `json:"totalFormatted"`
	Days           []ActivityPointDTO `json:"days"`
}

// ActivityPointDTO is one day's total in a chart series.
type ActivityPointDTO struct {
	Date    string `json:"date"`
	Minutes int    `json:"minutes"`
}

func toActivityPointDTOs(points []domain.ActivityPoint) []ActivityPointDTO {
	response := make([]ActivityPointDTO, 0, len(points))
	for _, point := range points {
		response = append(response, ActivityPointDTO{
			Date:    point.Date.Format(validation.DateLayout),
			Minutes: point.Minutes,
		})
	}
	return response
}

// HandleMonthlySummary handles GET /time-entries/summary?year=&month=
func (h *TimeEntryHandler) HandleMonthlySummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	now := time.Now()
	year := validation.ParseIntQueryParam(r, "year", now.Year())
	month := validation.ParseIntQueryParam(r, "month", int(now.Month()))

	v := validation.NewValidator()
	v.Range("month", month, 1, 12)
	v.Range("year", year, 2000, 2100)
	if v.HasErrors() {
		h.errorHandler.Handle(w, r, v.Errors())
		return
	}

	summary, err := h.entryService.MonthlySummary(r.Context(), ports.MonthlySummaryParams{
		ActorID: claims.UserID,
		Year:    year,
		Month:   time.Month(month),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, MonthlySummaryResponse{
		Year:           summary.Year,
		Month:          int(summary.Month),
		TotalMinutes:   summary.TotalMinutes,
		TotalFormatted: domain.FormatDuration(summary.TotalMinutes),
		Days:           toActivityPointDTOs(summary.Days),
	})
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *TimeEntryHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

// parseEntryID extracts and validates the entry ID from the URL
func (h *TimeEntryHandler) parseEntryID(r *http.Request) (int64, error) {
	entryIDStr := chi.URLParam(r, "entryID")
	entryID, err := strconv.ParseInt(entryIDStr, 10, 64)
	if err != nil || entryID <= 0 {
		v := validation.NewValidator()
		v.Custom("entryID", false, "Invalid entry ID")
		return 0, v.Errors()
	}
	return entryID, nil
}
