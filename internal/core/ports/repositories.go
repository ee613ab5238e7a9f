package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
)

// TimeEntryFilter scopes aggregate queries. A nil field means "all".
type TimeEntryFilter struct {
	UserID *uuid.UUID
	TeamID *int64
}

// UserRepository is the port for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

// TimeEntryRepository is the port for offline time entry persistence and the
// aggregate queries the dashboard is built on.
type TimeEntryRepository interface {
	Create(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.OfflineTimeEntry, error)
	Update(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error)
	Delete(ctx context.Context, id int64) error
	ListPaginated(ctx context.Context, filter TimeEntryFilter, limit, offset int32) ([]*domain.OfflineTimeEntry, error)
	ListRecent(ctx context.Context, filter TimeEntryFilter, limit int32) ([]*domain.OfflineTimeEntry, error)
	SumForDate(ctx context.Context, filter TimeEntryFilter, date time.Time) (int, error)
	SumForMonth(ctx context.Context, filter TimeEntryFilter, year int, month time.Month) (int, error)
	DailySums(ctx context.Context, filter TimeEntryFilter, from, to time.Time) ([]domain.ActivityPoint, error)
	CountActiveUsersOn(ctx context.Context, date time.Time) (int64, error)
}

// TeamRepository is the port for team and membership persistence.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	GetByID(ctx context.Context, id int64) (*domain.Team, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) (*domain.Team, error)
	Delete(ctx context.Context, id int64) error
	ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Team, error)
	AddMember(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error
	UpdateMemberRole(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error
	RemoveMember(ctx context.Context, teamID int64, userID uuid.UUID) error
	GetMember(ctx context.Context, teamID int64, userID uuid.UUID) (*domain.TeamMember, error)
	ListMembers(ctx context.Context, teamID int64) ([]*domain.TeamMember, error)
}

// ListProjectsRepoParams carries pagination and optional filters for the
// project catalog. pgtype.Text fields are NULL when the filter is absent.
type ListProjectsRepoParams struct {
	Limit    int32
	Offset   int32
	Search   pgtype.Text
	Platform pgtype.Text
	Category pgtype.Text
	Status   pgtype.Text
}

// ProjectRepository is the port for project catalog persistence.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) (*domain.Project, error)
	GetByID(ctx context.Context, id int64) (*domain.Project, error)
	Update(ctx context.Context, project *domain.Project) (*domain.Project, error)
	Delete(ctx context.Context, id int64) error
	ListPaginated(ctx context.Context, params ListProjectsRepoParams) ([]*domain.Project, error)
	DistinctPlatforms(ctx context.Context) ([]string, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

// ReelRepository is the port for reel persistence.
type ReelRepository interface {
	Create(ctx context.Context, reel *domain.Reel) (*domain.Reel, error)
	GetByID(ctx context.Context, id int64) (*domain.Reel, error)
	Delete(ctx context.Context, id int64) error
	ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Reel, error)
}
