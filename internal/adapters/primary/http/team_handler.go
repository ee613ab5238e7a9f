package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	mw "github.com/hijibiji-app/opencrm/internal/adapters/primary/http/middleware"
	"github.com/hijibiji-app/opencrm/internal/adapters/primary/validation"
	"github.com/hijibiji-app/opencrm/internal/auth"
	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

const maxTeamsPerPage = 100

// TeamHandler handles HTTP requests for teams and their members.
type TeamHandler struct {
	teamService  ports.TeamService
	errorHandler *ErrorHandler
	logger       *slog.Logger
}

// NewTeamHandler creates a new team handler.
func NewTeamHandler(
	teamService ports.TeamService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TeamHandler {
	return &TeamHandler{
		teamService:  teamService,
		errorHandler: errorHandler,
		logger:       logger.With("handler", "team"),
	}
}

// RegisterRoutes sets up the routing for all team endpoints.
func (h *TeamHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTeams)
	r.Post("/", h.HandleCreateTeam)

	r.Route("/{teamID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTeam)
		r.Put("/", h.HandleUpdateTeam)
		r.Delete("/", h.HandleDeleteTeam)

		r.Route("/members", func(r chi.Router) {
			r.Post("/", h.HandleAddMember)
			r.Patch("/{memberID}", h.HandleUpdateMemberRole)
			r.Delete("/{memberID}", h.HandleRemoveMember)
		})
	})
}

// --- Request/Response DTOs ---

// TeamRequest defines the expected JSON body for creating or updating a team
type TeamRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	LogoPath    string `json:"logoPath"`
}

// Validate validates the team request
func (r *TeamRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxTeamNameLength)

	v.Required("slug", r.Slug).
		Slug("slug", r.Slug)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// AddMemberRequest defines the expected JSON body for adding a member
type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate validates the add member request
func (r *AddMemberRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("email", r.Email).
		Email("email", r.Email)

	v.Required("role", r.Role).
		OneOf("role", r.Role, []string{"admin", "member"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// MemberRoleRequest defines the expected JSON body for role changes
type MemberRoleRequest struct {
	Role string `json:"role"`
}

// Validate validates the member role request
func (r *MemberRoleRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("role", r.Role).
		OneOf("role", r.Role, []string{"admin", "member"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// TeamDTO defines the JSON response for teams.
type TeamDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	LogoPath    string  `json:"logoPath"`
	OwnerID     string  `json:"ownerId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toTeamDTO(team *domain.Team) TeamDTO {
	var updatedAt *string
	if team.UpdatedAt != nil {
		value := team.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return TeamDTO{
		ID:          team.ID,
		Name:        team.Name,
		Slug:        team.Slug,
		Description: team.Description,
		LogoPath:    team.LogoPath,
		OwnerID:     team.OwnerID.String(),
		CreatedAt:   team.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

func toTeamDTOs(teams []*domain.Team) []TeamDTO {
	response := make([]TeamDTO, 0, len(teams))
	for _, team := range teams {
		response = append(response, toTeamDTO(team))
	}
	return response
}

// TeamMemberDTO defines the JSON response for team members.
type TeamMemberDTO struct {
	UserID   string `json:"userId"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	JoinedAt string `json:"joinedAt"`
}

func toTeamMemberDTOs(members []*domain.TeamMember) []TeamMemberDTO {
	response := make([]TeamMemberDTO, 0, len(members))
	for _, member := range members {
		response = append(response, TeamMemberDTO{
			UserID:   member.UserID.String(),
			FullName: member.FullName,
			Email:    member.Email,
			Role:     string(member.Role),
			JoinedAt: member.JoinedAt.Format(time.RFC3339),
		})
	}
	return response
}

// TeamDetailResponse defines the JSON response for one team with its roster.
type TeamDetailResponse struct {
	Team    TeamDTO         `json:"team"`
	Members []TeamMemberDTO `json:"members"`
}

// --- Handlers ---

// HandleListTeams handles GET /teams
func (h *TeamHandler) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxTeamsPerPage)

	teams, err := h.teamService.ListTeams(r.Context(), pagination.Limit+1, pagination.Offset)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toTeamDTOs(teams), pagination.Limit, pagination.Offset)
}

// HandleCreateTeam handles POST /teams
func (h *TeamHandler) HandleCreateTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[TeamRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), ports.CreateTeamParams{
		ActorID:     claims.UserID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		LogoPath:    req.LogoPath,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team created",
		"team_id", team.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toTeamDTO(team))
}

// HandleGetTeam handles GET /teams/{teamID}
func (h *TeamHandler) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, members, err := h.teamService.GetTeam(r.Context(), teamID, claims.UserID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, TeamDetailResponse{
		Team:    toTeamDTO(team),
		Members: toTeamMemberDTOs(members),
	})
}

// HandleUpdateTeam handles PUT /teams/{teamID}
func (h *TeamHandler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[TeamRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), ports.UpdateTeamParams{
		TeamID:      teamID,
		ActorID:     claims.UserID,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		LogoPath:    req.LogoPath,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team updated",
		"team_id", teamID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toTeamDTO(team))
}

// HandleDeleteTeam handles DELETE /teams/{teamID}
func (h *TeamHandler) HandleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.teamService.DeleteTeam(r.Context(), teamID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team deleted",
		"team_id", teamID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleAddMember handles POST /teams/{teamID}/members
func (h *TeamHandler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[AddMemberRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	err = h.teamService.AddMember(r.Context(), ports.TeamMemberParams{
		TeamID:  teamID,
		ActorID: claims.UserID,
		Email:   req.Email,
		Role:    domain.TeamMemberRole(req.Role),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team member added",
		"team_id", teamID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleUpdateMemberRole handles PATCH /teams/{teamID}/members/{memberID}
func (h *TeamHandler) HandleUpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	memberID, err := h.parseMemberID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[MemberRoleRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	err = h.teamService.UpdateMemberRole(r.Context(), teamID, memberID, claims.UserID, domain.TeamMemberRole(req.Role))
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team member role updated",
		"team_id", teamID,
		"member_id", memberID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleRemoveMember handles DELETE /teams/{teamID}/members/{memberID}
func (h *TeamHandler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	teamID, err := h.parseTeamID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	memberID, err := h.parseMemberID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.teamService.RemoveMember(r.Context(), teamID, memberID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("team member removed",
		"team_id", teamID,
		"member_id", memberID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *TeamHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

// parseTeamID extracts and validates the team ID from the URL
func (h *TeamHandler) parseTeamID(r *http.Request) (int64, error) {
	teamIDStr := chi.URLParam(r, "teamID")
	teamID, err := strconv.ParseInt(teamIDStr, 10, 64)
	if err != nil || teamID <= 0 {
		v := validation.NewValidator()
		v.Custom("teamID", false, "Invalid team ID")
		return 0, v.Errors()
	}
	return teamID, nil
}

// parseMemberID extracts and validates the member ID from the URL
func (h *TeamHandler) parseMemberID(r *http.Request) (uuid.UUID, error) {
	memberIDStr := chi.URLParam(r, "memberID")
	memberID, err := uuid.Parse(memberIDStr)
	if err != nil {
		v := validation.NewValidator()
		v.Custom("memberID", false, "Must be a valid UUID")
		return uuid.Nil, v.Errors()
	}
	return memberID, nil
}
