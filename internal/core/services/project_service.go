package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
	"github.com/hijibiji-app/opencrm/internal/core/utils"
)

// ProjectService implements the project catalog.
type ProjectService struct {
	projects ports.ProjectRepository
	users    ports.UserRepository
}

var _ ports.ProjectService = (*ProjectService)(nil)

// NewProjectService creates a new project service.
func NewProjectService(projects ports.ProjectRepository, users ports.UserRepository) *ProjectService {
	return &ProjectService{projects: projects, users: users}
}

// CreateProject adds a project to the catalog.
func (s *ProjectService) CreateProject(ctx context.Context, params ports.ProjectParamsInput) (*domain.Project, error) {
	project, err := domain.NewProject(domain.ProjectParams{
		Name:        params.Name,
		Platform:    params.Platform,
		Category:    params.Category,
		Domain:      params.Domain,
		Status:      domain.ProjectStatus(params.Status),
		Description: params.Description,
		CreatorID:   params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	return s.projects.Create(ctx, project)
}

// GetProject fetches one project.
func (s *ProjectService) GetProject(ctx context.Context, projectID int64) (*domain.Project, error) {
	return s.projects.GetByID(ctx, projectID)
}

// UpdateProject applies changes to a catalog project.
func (s *ProjectService) UpdateProject(ctx context.Context, params ports.ProjectParamsInput) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, params.ProjectID)
	if err != nil {
		return nil, err
	}

	if err := project.Update(domain.ProjectParams{
		Name:        params.Name,
		Platform:    params.Platform,
		Category:    params.Category,
		Domain:      params.Domain,
		Status:      domain.ProjectStatus(params.Status),
		Description: params.Description,
	}); err != nil {
		return nil, err
	}

	return s.projects.Update(ctx, project)
}

// DeleteProject removes a project. Only admins may delete catalog entries.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID int64, actorID uuid.UUID) error {
	actor, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return apperrors.ErrForbidden
	}

	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return err
	}
	return s.projects.Delete(ctx, projectID)
}

// ListProjects lists the catalog with optional search and facet filters.
func (s *ProjectService) ListProjects(ctx context.Context, params ports.ListProjectsParams) ([]*domain.Project, error) {
	if params.Status != nil && !domain.ValidProjectStatus(domain.ProjectStatus(*params.Status)) {
		return nil, apperrors.ErrInvalidProjectStatus
	}

	return s.projects.ListPaginated(ctx, ports.ListProjectsRepoParams{
		Limit:    int32(params.Limit),
		Offset:   int32(params.Offset),
		Search:   utils.ToNullText(params.Search),
		Platform: utils.ToNullText(params.Platform),
		Category: utils.ToNullText(params.Category),
		Status:   utils.ToNullText(params.Status),
	})
}

// Facets returns the distinct platform and category values present in the
// catalog, for filter dropdowns.
func (s *ProjectService) Facets(ctx context.Context) (*ports.ProjectFacets, error) {
	platforms, err := s.projects.DistinctPlatforms(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.projects.DistinctCategories(ctx)
	if err != nil {
		return nil, err
	}

	return &ports.ProjectFacets{
		Platforms:  platforms,
		Categories: categories,
	}, nil
}
