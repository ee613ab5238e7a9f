package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
)

// AuthService defines the port for authentication business logic.
type AuthService interface {
	Register(ctx context.Context, fullName, email, password string) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

// UpdateProfileParams defines the input for updating the authenticated
// user's profile. Nil pointers leave the field unchanged.
type UpdateProfileParams struct {
	UserID      uuid.UUID
	FullName    *string
	Email       *string
	SSMAPIToken *string
}

// ProfileService defines the port for the authenticated user's settings.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (*domain.User, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword string) error
}

// TimeReportClient fetches total worked minutes from the remote time source
// for the identity behind the token, over an inclusive date range.
type TimeReportClient interface {
	MonthlyMinutes(ctx context.Context, token string, from, to time.Time) (int, error)
}

// Cache is a key-value store with per-entry time-to-live. Entries may be
// evicted at any time; callers must treat it purely as an optimization.
type Cache interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// OnlineMinutesProvider returns the current month's online minutes for a
// user. Implementations must be fail-open: remote failures read as zero and
// are never surfaced to the caller.
type OnlineMinutesProvider interface {
	MonthlyOnlineMinutes(ctx context.Context, user *domain.User, now time.Time) int
}

// PaceService computes the monthly pace report.
type PaceService interface {
	MonthlyPace(ctx context.Context, user *domain.User, offlineMinutes int, now time.Time) (*domain.MonthlyPaceReport, error)
}

// DashboardService assembles the dashboard page data.
type DashboardService interface {
	Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DashboardOverview, error)
}

// CreateTimeEntryParams defines the input for recording a time entry.
type CreateTimeEntryParams struct {
	ActorID         uuid.UUID
	TeamID          *int64
	Date            time.Time
	StartTime       *time.Time
	DurationMinutes int
	Note            string
}

// UpdateTimeEntryParams defines the input for amending a time entry.
type UpdateTimeEntryParams struct {
	EntryID         int64
	ActorID         uuid.UUID
	Date            time.Time
	DurationMinutes int
	Note            string
}

// ListTimeEntriesParams defines the input for listing time entries.
type ListTimeEntriesParams struct {
	ActorID uuid.UUID
	TeamID  *int64
	Limit   int
	Offset  int
}

// MonthlySummaryParams defines the input for the monthly summary view.
type MonthlySummaryParams struct {
	ActorID uuid.UUID
	Year    int
	Month   time.Month
}

// TimeEntryService defines the core operations for offline time tracking.
type TimeEntryService interface {
	CreateEntry(ctx context.Context, params CreateTimeEntryParams) (*domain.OfflineTimeEntry, error)
	GetEntry(ctx context.Context, entryID int64, actorID uuid.UUID) (*domain.OfflineTimeEntry, error)
	ListEntries(ctx context.Context, params ListTimeEntriesParams) ([]*domain.OfflineTimeEntry, error)
	UpdateEntry(ctx context.Context, params UpdateTimeEntryParams) (*domain.OfflineTimeEntry, error)
	DeleteEntry(ctx context.Context, entryID int64, actorID uuid.UUID) error
	MonthlySummary(ctx context.Context, params MonthlySummaryParams) (*domain.MonthlySummary, error)
}

// CreateTeamParams defines the input for creating a team.
type CreateTeamParams struct {
	ActorID     uuid.UUID
	Name        string
	Slug        string
	Description string
	LogoPath    string
}

// UpdateTeamParams defines the input for updating a team.
type UpdateTeamParams struct {
	TeamID      int64
	ActorID     uuid.UUID
	Name        string
	Slug        string
	Description string
	LogoPath    string
}

// TeamMemberParams defines the input for adding a member by email.
type TeamMemberParams struct {
	TeamID  int64
	ActorID uuid.UUID
	Email   string
	Role    domain.TeamMemberRole
}

// TeamService defines team management including membership and its policy:
// update/manage-members require a team admin, delete requires the owner, and
// the owner's membership is immutable.
type TeamService interface {
	CreateTeam(ctx context.Context, params CreateTeamParams) (*domain.Team, error)
	GetTeam(ctx context.Context, teamID int64, actorID uuid.UUID) (*domain.Team, []*domain.TeamMember, error)
	UpdateTeam(ctx context.Context, params UpdateTeamParams) (*domain.Team, error)
	DeleteTeam(ctx context.Context, teamID int64, actorID uuid.UUID) error
	ListTeams(ctx context.Context, limit, offset int) ([]*domain.Team, error)
	AddMember(ctx context.Context, params TeamMemberParams) error
	UpdateMemberRole(ctx context.Context, teamID int64, memberID, actorID uuid.UUID, role domain.TeamMemberRole) error
	RemoveMember(ctx context.Context, teamID int64, memberID, actorID uuid.UUID) error
	CanManageMembers(ctx context.Context, teamID int64, userID uuid.UUID) (bool, error)
}

// ProjectParamsInput defines the input for creating or updating a project.
type ProjectParamsInput struct {
	ProjectID   int64
	ActorID     uuid.UUID
	Name        string
	Platform    string
	Category    string
	Domain      string
	Status      string
	Description string
}

// ListProjectsParams defines the input for listing the project catalog.
type ListProjectsParams struct {
	Limit    int
	Offset   int
	Search   *string
	Platform *string
	Category *string
	Status   *string
}

// ProjectFacets lists the distinct filter values present in the catalog.
type ProjectFacets struct {
	Platforms  []string
	Categories []string
}

// ProjectService defines the project catalog operations.
type ProjectService interface {
	CreateProject(ctx context.Context, params ProjectParamsInput) (*domain.Project, error)
	GetProject(ctx context.Context, projectID int64) (*domain.Project, error)
	UpdateProject(ctx context.Context, params ProjectParamsInput) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID int64, actorID uuid.UUID) error
	ListProjects(ctx context.Context, params ListProjectsParams) ([]*domain.Project, error)
	Facets(ctx context.Context) (*ProjectFacets, error)
}

// CreateReelParams defines the input for posting a reel.
type CreateReelParams struct {
	ActorID  uuid.UUID
	Type     domain.ReelType
	Caption  string
	Content  string
	FilePath string
}

// ReelService defines the reel feed operations.
type ReelService interface {
	CreateReel(ctx context.Context, params CreateReelParams) (*domain.Reel, error)
	ListReels(ctx context.Context, limit, offset int) ([]*domain.Reel, error)
	DeleteReel(ctx context.Context, reelID int64, actorID uuid.UUID) error
}

// EventBroadcaster defines the port for pushing real-time events to
// connected dashboard clients.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
