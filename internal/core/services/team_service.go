package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	apperrors "github.com/hijibiji-app/opencrm/internal/core/errors"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// TeamService implements team management and its membership policy.
type TeamService struct {
	teams ports.TeamRepository
	users ports.UserRepository
}

var _ ports.TeamService = (*TeamService)(nil)

// NewTeamService creates a new team service.
func NewTeamService(teams ports.TeamRepository, users ports.UserRepository) *TeamService {
	return &TeamService{teams: teams, users: users}
}

// CreateTeam creates a team and enrolls the creator as its owner and an
// admin member.
func (s *TeamService) CreateTeam(ctx context.Context, params ports.CreateTeamParams) (*domain.Team, error) {
	team, err := domain.NewTeam(domain.TeamParams{
		Name:        params.Name,
		Slug:        params.Slug,
		Description: params.Description,
		LogoPath:    params.LogoPath,
		OwnerID:     params.ActorID,
	})
	if err != nil {
		return nil, err
	}

	if err := s.ensureSlugFree(ctx, team.Slug, 0); err != nil {
		return nil, err
	}

	created, err := s.teams.Create(ctx, team)
	if err != nil {
		return nil, err
	}

	if err := s.teams.AddMember(ctx, created.ID, params.ActorID, domain.TeamRoleAdmin); err != nil {
		return nil, err
	}
	return created, nil
}

// GetTeam returns a team with its member roster.
func (s *TeamService) GetTeam(ctx context.Context, teamID int64, actorID uuid.UUID) (*domain.Team, []*domain.TeamMember, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.teams.ListMembers(ctx, teamID)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// UpdateTeam renames a team. Requires a team admin.
func (s *TeamService) UpdateTeam(ctx context.Context, params ports.UpdateTeamParams) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, params.TeamID)
	if err != nil {
		return nil, err
	}

	if err := s.requireTeamAdmin(ctx, team, params.ActorID); err != nil {
		return nil, err
	}

	if params.Slug != team.Slug {
		if err := s.ensureSlugFree(ctx, params.Slug, team.ID); err != nil {
			return nil, err
		}
	}

	if err := team.Rename(domain.TeamParams{
		Name:        params.Name,
		Slug:        params.Slug,
		Description: params.Description,
		LogoPath:    params.LogoPath,
	}); err != nil {
		return nil, err
	}

	return s.teams.Update(ctx, team)
}

// DeleteTeam removes a team. Only the owner may delete.
func (s *TeamService) DeleteTeam(ctx context.Context, teamID int64, actorID uuid.UUID) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if !team.IsOwnedBy(actorID) {
		return apperrors.ErrForbidden
	}
	return s.teams.Delete(ctx, teamID)
}

// ListTeams lists teams with pagination.
func (s *TeamService) ListTeams(ctx context.Context, limit, offset int) ([]*domain.Team, error) {
	return s.teams.ListPaginated(ctx, int32(limit), int32(offset))
}

// AddMember enrolls a user, looked up by email, into the team.
func (s *TeamService) AddMember(ctx context.Context, params ports.TeamMemberParams) error {
	team, err := s.teams.GetByID(ctx, params.TeamID)
	if err != nil {
		return err
	}

	if err := s.requireTeamAdmin(ctx, team, params.ActorID); err != nil {
		return err
	}

	if !domain.ValidTeamRole(params.Role) {
		return apperrors.ErrInvalidMemberRole
	}

	user, err := s.users.GetByEmail(ctx, params.Email)
	if err != nil {
		return err
	}

	if _, err := s.teams.GetMember(ctx, params.TeamID, user.ID); err == nil {
		return apperrors.ErrAlreadyMember
	} else if !errors.Is(err, apperrors.ErrNotMember) {
		return err
	}

	return s.teams.AddMember(ctx, params.TeamID, user.ID, params.Role)
}

// UpdateMemberRole changes a member's team role. The owner's membership is
// immutable.
func (s *TeamService) UpdateMemberRole(ctx context.Context, teamID int64, memberID, actorID uuid.UUID, role domain.TeamMemberRole) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.requireTeamAdmin(ctx, team, actorID); err != nil {
		return err
	}

	if !domain.ValidTeamRole(role) {
		return apperrors.ErrInvalidMemberRole
	}
	if team.IsOwnedBy(memberID) {
		return apperrors.ErrOwnerImmutable
	}

	if _, err := s.teams.GetMember(ctx, teamID, memberID); err != nil {
		return err
	}
	return s.teams.UpdateMemberRole(ctx, teamID, memberID, role)
}

// RemoveMember removes a member from the team. The owner cannot be removed.
func (s *TeamService) RemoveMember(ctx context.Context, teamID int64, memberID, actorID uuid.UUID) error {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return err
	}

	if err := s.requireTeamAdmin(ctx, team, actorID); err != nil {
		return err
	}

	if team.IsOwnedBy(memberID) {
		return apperrors.ErrOwnerImmutable
	}

	if _, err := s.teams.GetMember(ctx, teamID, memberID); err != nil {
		return err
	}
	return s.teams.RemoveMember(ctx, teamID, memberID)
}

// CanManageMembers reports whether the user is a team admin: the owner or a
// member holding the admin team role.
func (s *TeamService) CanManageMembers(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return false, err
	}
	return s.isTeamAdmin(ctx, team, userID)
}

func (s *TeamService) requireTeamAdmin(ctx context.Context, team *domain.Team, userID uuid.UUID) error {
	ok, err := s.isTeamAdmin(ctx, team, userID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.ErrForbidden
	}
	return nil
}

func (s *TeamService) isTeamAdmin(ctx context.Context, team *domain.Team, userID uuid.UUID) (bool, error) {
	if team.IsOwnedBy(userID) {
		return true, nil
	}

	member, err := s.teams.GetMember(ctx, team.ID, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotMember) {
			return false, nil
		}
		return false, err
	}
	return member.Role == domain.TeamRoleAdmin, nil
}

func (s *TeamService) ensureSlugFree(ctx context.Context, slug string, selfID int64) error {
	existing, err := s.teams.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, apperrors.ErrTeamNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return apperrors.ErrSlugTaken
	}
	return nil
}
