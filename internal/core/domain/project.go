package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

// ProjectStatus represents the lifecycle state of a catalog project.
type ProjectStatus string

const (
	ProjectActive      ProjectStatus = "active"
	ProjectInactive    ProjectStatus = "inactive"
	ProjectMaintenance ProjectStatus = "maintenance"
)

// ValidProjectStatus reports whether the value is a known project status.
func ValidProjectStatus(status ProjectStatus) bool {
	switch status {
	case ProjectActive, ProjectInactive, ProjectMaintenance:
		return true
	}
	return false
}

const MaxProjectFieldLength = 255

// Project is a catalog entry for a delivered or maintained site/application.
type Project struct {
	ID          int64
	Name        string
	Platform    string
	Category    string
	Domain      string
	Status      ProjectStatus
	Description string
	CreatorID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ProjectParams holds the input for creating or updating a project.
type ProjectParams struct {
	Name        string
	Platform    string
	Category    string
	Domain      string
	Status      ProjectStatus
	Description string
	CreatorID   uuid.UUID
}

// NewProject validates params and builds a new catalog project.
func NewProject(params ProjectParams) (*Project, error) {
	if err := validateProjectParams(params); err != nil {
		return nil, err
	}

	return &Project{
		Name:        params.Name,
		Platform:    params.Platform,
		Category:    params.Category,
		Domain:      params.Domain,
		Status:      params.Status,
		Description: params.Description,
		CreatorID:   params.CreatorID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Update applies validated changes to the project.
func (p *Project) Update(params ProjectParams) error {
	params.CreatorID = p.CreatorID
	if err := validateProjectParams(params); err != nil {
		return err
	}

	p.Name = params.Name
	p.Platform = params.Platform
	p.Category = params.Category
	p.Domain = params.Domain
	p.Status = params.Status
	p.Description = params.Description
	now := time.Now().UTC()
	p.UpdatedAt = &now
	return nil
}

func validateProjectParams(params ProjectParams) error {
	if params.Name == "" {
		return apperrors.ErrProjectNameRequired
	}
	if len(params.Name) > MaxProjectFieldLength ||
		len(params.Platform) > MaxProjectFieldLength ||
		len(params.Category) > MaxProjectFieldLength ||
		len(params.Domain) > MaxProjectFieldLength {
		return apperrors.ErrBadRequest
	}
	if !ValidProjectStatus(params.Status) {
		return apperrors.ErrInvalidProjectStatus
	}
	return nil
}
