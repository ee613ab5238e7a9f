package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
)

// TeamMemberRole is a role scoped to a single team.
type TeamMemberRole string

const (
	TeamRoleAdmin  TeamMemberRole = "admin"
	TeamRoleMember TeamMemberRole = "member"
)

// ValidTeamRole reports whether the value is a known team member role.
func ValidTeamRole(role TeamMemberRole) bool {
	return role == TeamRoleAdmin || role == TeamRoleMember
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

const MaxTeamNameLength = 255

// Team groups users for shared time tracking.
type Team struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	LogoPath    string
	OwnerID     uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// TeamMember is one user's membership in a team.
type TeamMember struct {
	TeamID   int64
	UserID   uuid.UUID
	FullName string
	Email    string
	Role     TeamMemberRole
	JoinedAt time.Time
}

// TeamParams holds the input for creating or updating a team.
type TeamParams struct {
	Name        string
	Slug        string
	Description string
	LogoPath    string
	OwnerID     uuid.UUID
}

// NewTeam validates params and builds a new team.
func NewTeam(params TeamParams) (*Team, error) {
	if err := validateTeamParams(params); err != nil {
		return nil, err
	}

	return &Team{
		Name:        params.Name,
		Slug:        params.Slug,
		Description: params.Description,
		LogoPath:    params.LogoPath,
		OwnerID:     params.OwnerID,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// Rename applies validated updates to the team's descriptive fields.
func (t *Team) Rename(params TeamParams) error {
	params.OwnerID = t.OwnerID
	if err := validateTeamParams(params); err != nil {
		return err
	}

	t.Name = params.Name
	t.Slug = params.Slug
	t.Description = params.Description
	if params.LogoPath != "" {
		t.LogoPath = params.LogoPath
	}
	now := time.Now().UTC()
	t.UpdatedAt = &now
	return nil
}

// IsOwnedBy reports whether the given user owns the team.
func (t *Team) IsOwnedBy(userID uuid.UUID) bool {
	return t.OwnerID == userID
}

func validateTeamParams(params TeamParams) error {
	if params.Name == "" {
		return apperrors.ErrTeamNameRequired
	}
	if len(params.Name) > MaxTeamNameLength {
		return apperrors.ErrBadRequest
	}
	if params.Slug == "" {
		return apperrors.ErrTeamSlugRequired
	}
	if !slugPattern.MatchString(params.Slug) {
		return apperrors.ErrTeamSlugRequired
	}
	return nil
}
