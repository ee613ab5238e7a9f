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

const maxProjectsPerPage = 100

// ProjectHandler handles HTTP requests for the project catalog.
type ProjectHandler struct {
	projectService ports.ProjectService
	errorHandler   *ErrorHandler
	logger         *slog.Logger
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(
	projectService ports.ProjectService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		errorHandler:   errorHandler,
		logger:         logger.With("handler", "project"),
	}
}

// RegisterRoutes sets up the routing for all project endpoints.
func (h *ProjectHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListProjects)
	r.Post("/", h.HandleCreateProject)
	r.Get("/facets", h.HandleFacets)

	r.Route("/{projectID}", func(r chi.Router) {
		r.Get("/", h.HandleGetProject)
		r.Put("/", h.HandleUpdateProject)
		r.Delete("/", h.HandleDeleteProject)
	})
}

// --- Request/Response DTOs ---

// ProjectRequest defines the expected JSON body for creating or updating a project
type ProjectRequest struct {
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	Category    string `json:"category"`
	Domain      string `json:"domain"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Validate validates the project request
func (r *ProjectRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("name", r.Name).
		MaxLength("name", r.Name, domain.MaxProjectFieldLength)

	v.MaxLength("platform", r.Platform, domain.MaxProjectFieldLength)
	v.MaxLength("category", r.Category, domain.MaxProjectFieldLength)
	v.MaxLength("domain", r.Domain, domain.MaxProjectFieldLength)

	v.Required("status", r.Status).
		OneOf("status", r.Status, []string{"active", "inactive", "maintenance"})

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// ProjectDTO defines the JSON response for projects.
type ProjectDTO struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Platform    string  `json:"platform"`
	Category    string  `json:"category"`
	Domain      string  `json:"domain"`
	Status      string  `json:"status"`
	Description string  `json:"description"`
	CreatorID   string  `json:"creatorId"`
	CreatedAt   string  `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`
}

func toProjectDTO(project *domain.Project) ProjectDTO {
	var updatedAt *string
	if project.UpdatedAt != nil {
		value := project.UpdatedAt.Format(time.RFC3339)
		updatedAt = &value
	}

	return ProjectDTO{
		ID:          project.ID,
		Name:        project.Name,
		Platform:    project.Platform,
		Category:    project.Category,
		Domain:      project.Domain,
		Status:      string(project.Status),
		Description: project.Description,
		CreatorID:   project.CreatorID.String(),
		CreatedAt:   project.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   updatedAt,
	}
}

func toProjectDTOs(projects []*domain.Project) []ProjectDTO {
	response := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		response = append(response, toProjectDTO(project))
	}
	return response
}

// ProjectFacetsResponse lists the distinct filter values in the catalog.
type ProjectFacetsResponse struct {
	Platforms  []string `json:"platforms"`
	Categories []string `json:"categories"`
}

// --- Handlers ---

// HandleListProjects handles GET /projects
func (h *ProjectHandler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	pagination := validation.ParsePagination(r, maxProjectsPerPage)

	projects, err := h.projectService.ListProjects(r.Context(), ports.ListProjectsParams{
		Limit:    pagination.Limit + 1,
		Offset:   pagination.Offset,
		Search:   validation.ParseStringQueryParam(r, "search"),
		Platform: validation.ParseStringQueryParam(r, "platform"),
		Category: validation.ParseStringQueryParam(r, "category"),
		Status:   validation.ParseStringQueryParam(r, "status"),
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WritePaginatedSimple(w, toProjectDTOs(projects), pagination.Limit, pagination.Offset)
}

// HandleCreateProject handles POST /projects
func (h *ProjectHandler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	req, err := validation.DecodeAndValidate[ProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.CreateProject(r.Context(), ports.ProjectParamsInput{
		ActorID:     claims.UserID,
		Name:        req.Name,
		Platform:    req.Platform,
		Category:    req.Category,
		Domain:      req.Domain,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project created",
		"project_id", project.ID,
		"user_id", claims.UserID,
	)

	WriteCreated(w, toProjectDTO(project))
}

// HandleGetProject handles GET /projects/{projectID}
func (h *ProjectHandler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.GetProject(r.Context(), projectID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleUpdateProject handles PUT /projects/{projectID}
func (h *ProjectHandler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	req, err := validation.DecodeAndValidate[ProjectRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	project, err := h.projectService.UpdateProject(r.Context(), ports.ProjectParamsInput{
		ProjectID:   projectID,
		ActorID:     claims.UserID,
		Name:        req.Name,
		Platform:    req.Platform,
		Category:    req.Category,
		Domain:      req.Domain,
		Status:      req.Status,
		Description: req.Description,
	})
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project updated",
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteJSON(w, http.StatusOK, toProjectDTO(project))
}

// HandleDeleteProject handles DELETE /projects/{projectID}
func (h *ProjectHandler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.getClaims(w, r)
	if !ok {
		return
	}

	projectID, err := h.parseProjectID(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := h.projectService.DeleteProject(r.Context(), projectID, claims.UserID); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("project deleted",
		"project_id", projectID,
		"user_id", claims.UserID,
	)

	WriteNoContent(w)
}

// HandleFacets handles GET /projects/facets
func (h *ProjectHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.getClaims(w, r); !ok {
		return
	}

	facets, err := h.projectService.Facets(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ProjectFacetsResponse{
		Platforms:  facets.Platforms,
		Categories: facets.Categories,
	})
}

// --- Helper methods ---

// getClaims extracts and validates user claims from the request context
func (h *ProjectHandler) getClaims(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
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

// parseProjectID extracts and validates the project ID from the URL
func (h *ProjectHandler) parseProjectID(r *http.Request) (int64, error) {
	projectIDStr := chi.URLParam(r, "projectID")
	projectID, err := strconv.ParseInt(projectIDStr, 10, 64)
	if err != nil || projectID <= 0 {
		v := validation.NewValidator()
		v.Custom("projectID", false, "Invalid project ID")
		return 0, v.Errors()
	}
	return projectID, nil
}
