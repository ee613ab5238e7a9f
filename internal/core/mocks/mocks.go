package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/hijibiji-app/opencrm/internal/core/domain"
	"github.com/hijibiji-app/opencrm/internal/core/ports"
)

// MockUserRepository is a mock implementation of ports.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockTimeEntryRepository is a mock implementation of ports.TimeEntryRepository
type MockTimeEntryRepository struct {
	mock.Mock
}

func NewMockTimeEntryRepository() *MockTimeEntryRepository {
	return &MockTimeEntryRepository{}
}

func (m *MockTimeEntryRepository) Create(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfflineTimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) GetByID(ctx context.Context, id int64) (*domain.OfflineTimeEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfflineTimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) Update(ctx context.Context, entry *domain.OfflineTimeEntry) (*domain.OfflineTimeEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OfflineTimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTimeEntryRepository) ListPaginated(ctx context.Context, filter ports.TimeEntryFilter, limit, offset int32) ([]*domain.OfflineTimeEntry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OfflineTimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) ListRecent(ctx context.Context, filter ports.TimeEntryFilter, limit int32) ([]*domain.OfflineTimeEntry, error) {
	args := m.Called(ctx, filter, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OfflineTimeEntry), args.Error(1)
}

func (m *MockTimeEntryRepository) SumForDate(ctx context.Context, filter ports.TimeEntryFilter, date time.Time) (int, error) {
	args := m.Called(ctx, filter, date)
	return args.Int(0), args.Error(1)
}

func (m *MockTimeEntryRepository) SumForMonth(ctx context.Context, filter ports.TimeEntryFilter, year int, month time.Month) (int, error) {
	args := m.Called(ctx, filter, year, month)
	return args.Int(0), args.Error(1)
}

func (m *MockTimeEntryRepository) DailySums(ctx context.Context, filter ports.TimeEntryFilter, from, to time.Time) ([]domain.ActivityPoint, error) {
	args := m.Called(ctx, filter, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityPoint), args.Error(1)
}

func (m *MockTimeEntryRepository) CountActiveUsersOn(ctx context.Context, date time.Time) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

// MockTeamRepository is a mock implementation of ports.TeamRepository
type MockTeamRepository struct {
	mock.Mock
}

func NewMockTeamRepository() *MockTeamRepository {
	return &MockTeamRepository{}
}

func (m *MockTeamRepository) Create(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) GetByID(ctx context.Context, id int64) (*domain.Team, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) GetBySlug(ctx context.Context, slug string) (*domain.Team, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Update(ctx context.Context, team *domain.Team) (*domain.Team, error) {
	args := m.Called(ctx, team)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTeamRepository) ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Team, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Team), args.Error(1)
}

func (m *MockTeamRepository) AddMember(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockTeamRepository) UpdateMemberRole(ctx context.Context, teamID int64, userID uuid.UUID, role domain.TeamMemberRole) error {
	args := m.Called(ctx, teamID, userID, role)
	return args.Error(0)
}

func (m *MockTeamRepository) RemoveMember(ctx context.Context, teamID int64, userID uuid.UUID) error {
	args := m.Called(ctx, teamID, userID)
	return args.Error(0)
}

func (m *MockTeamRepository) GetMember(ctx context.Context, teamID int64, userID uuid.UUID) (*domain.TeamMember, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TeamMember), args.Error(1)
}

func (m *MockTeamRepository) ListMembers(ctx context.Context, teamID int64) ([]*domain.TeamMember, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.TeamMember), args.Error(1)
}

// MockProjectRepository is a mock implementation of ports.ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{}
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) GetByID(ctx context.Context, id int64) (*domain.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Update(ctx context.Context, project *domain.Project) (*domain.Project, error) {
	args := m.Called(ctx, project)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepository) ListPaginated(ctx context.Context, params ports.ListProjectsRepoParams) ([]*domain.Project, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Project), args.Error(1)
}

func (m *MockProjectRepository) DistinctPlatforms(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockProjectRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockReelRepository is a mock implementation of ports.ReelRepository
type MockReelRepository struct {
	mock.Mock
}

func NewMockReelRepository() *MockReelRepository {
	return &MockReelRepository{}
}

func (m *MockReelRepository) Create(ctx context.Context, reel *domain.Reel) (*domain.Reel, error) {
	args := m.Called(ctx, reel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reel), args.Error(1)
}

func (m *MockReelRepository) GetByID(ctx context.Context, id int64) (*domain.Reel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reel), args.Error(1)
}

func (m *MockReelRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReelRepository) ListPaginated(ctx context.Context, limit, offset int32) ([]*domain.Reel, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Reel), args.Error(1)
}

// MockTimeReportClient is a mock implementation of ports.TimeReportClient
type MockTimeReportClient struct {
	mock.Mock
}

func NewMockTimeReportClient() *MockTimeReportClient {
	return &MockTimeReportClient{}
}

func (m *MockTimeReportClient) MonthlyMinutes(ctx context.Context, token string, from, to time.Time) (int, error) {
	args := m.Called(ctx, token, from, to)
	return args.Int(0), args.Error(1)
}

// MockCache is a mock implementation of ports.Cache
type MockCache struct {
	mock.Mock
}

func NewMockCache() *MockCache {
	return &MockCache{}
}

func (m *MockCache) Get(key string) (interface{}, bool) {
	args := m.Called(key)
	return args.Get(0), args.Bool(1)
}

func (m *MockCache) Set(key string, value interface{}, ttl time.Duration) {
	m.Called(key, value, ttl)
}

// MockOnlineMinutesProvider is a mock implementation of ports.OnlineMinutesProvider
type MockOnlineMinutesProvider struct {
	mock.Mock
}

func NewMockOnlineMinutesProvider() *MockOnlineMinutesProvider {
	return &MockOnlineMinutesProvider{}
}

func (m *MockOnlineMinutesProvider) MonthlyOnlineMinutes(ctx context.Context, user *domain.User, now time.Time) int {
	args := m.Called(ctx, user, now)
	return args.Int(0)
}

// MockPaceService is a mock implementation of ports.PaceService
type MockPaceService struct {
	mock.Mock
}

func NewMockPaceService() *MockPaceService {
	return &MockPaceService{}
}

func (m *MockPaceService) MonthlyPace(ctx context.Context, user *domain.User, offlineMinutes int, now time.Time) (*domain.MonthlyPaceReport, error) {
	args := m.Called(ctx, user, offlineMinutes, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyPaceReport), args.Error(1)
}

// MockDashboardService is a mock implementation of ports.DashboardService
type MockDashboardService struct {
	mock.Mock
}

func NewMockDashboardService() *MockDashboardService {
	return &MockDashboardService{}
}

func (m *MockDashboardService) Overview(ctx context.Context, userID uuid.UUID, now time.Time) (*domain.DashboardOverview, error) {
	args := m.Called(ctx, userID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DashboardOverview), args.Error(1)
}

// MockEventBroadcaster is a mock implementation of ports.EventBroadcaster
type MockEventBroadcaster struct {
	mock.Mock
}

func NewMockEventBroadcaster() *MockEventBroadcaster {
	return &MockEventBroadcaster{}
}

func (m *MockEventBroadcaster) Broadcast(event domain.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// Compile-time interface checks
var (
	_ ports.UserRepository        = (*MockUserRepository)(nil)
	_ ports.TimeEntryRepository   = (*MockTimeEntryRepository)(nil)
	_ ports.TeamRepository        = (*MockTeamRepository)(nil)
	_ ports.ProjectRepository     = (*MockProjectRepository)(nil)
	_ ports.ReelRepository        = (*MockReelRepository)(nil)
	_ ports.TimeReportClient      = (*MockTimeReportClient)(nil)
	_ ports.Cache                 = (*MockCache)(nil)
	_ ports.OnlineMinutesProvider = (*MockOnlineMinutesProvider)(nil)
	_ ports.PaceService           = (*MockPaceService)(nil)
	_ ports.DashboardService      = (*MockDashboardService)(nil)
	_ ports.EventBroadcaster      = (*MockEventBroadcaster)(nil)
)
