package accreditation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*accreditation.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accreditation.Project), args.Error(1)
}

func (m *MockProjectRepository) FindByCode(ctx context.Context, code string) (*accreditation.Project, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accreditation.Project), args.Error(1)
}

func (m *MockProjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accreditation.Project, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accreditation.Project), args.Error(1)
}

func (m *MockProjectRepository) Save(ctx context.Context, project *accreditation.Project) error {
	args := m.Called(ctx, project)
	return args.Error(0)
}

func (m *MockProjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

// Test helpers
var testUserID = uuid.New()

func testWindow(start, end string) accreditation.Window {
	s, _ := time.Parse("2006-01-02", start)
	e, _ := time.Parse("2006-01-02", end)
	return accreditation.Window{Start: s, End: e}
}

func createTestProject() *accreditation.Project {
	project, _ := accreditation.NewProject(
		"Doha Expo", "EXPO26", "Annual exposition",
		testWindow("2026-01-01", "2026-01-10"),
		testWindow("2026-01-10", "2026-01-20"),
		testWindow("2026-01-20", "2026-01-25"),
		[]string{"Media", "Production", "VIP"},
		testUserID,
	)
	project.ClearDomainEvents()
	return project
}

func createProjectRequest() CreateProjectRequest {
	bumpIn := testWindow("2026-01-01", "2026-01-10")
	live := testWindow("2026-01-10", "2026-01-20")
	bumpOut := testWindow("2026-01-20", "2026-01-25")
	return CreateProjectRequest{
		Name:         "Doha Expo",
		Code:         "EXPO26",
		Description:  "Annual exposition",
		AccessGroups: []string{"Media", "Production", "VIP"},
		BumpIn:       WindowInput{Start: bumpIn.Start, End: bumpIn.End},
		Live:         WindowInput{Start: live.Start, End: live.End},
		BumpOut:      WindowInput{Start: bumpOut.Start, End: bumpOut.End},
	}
}

func TestProjectService_Create(t *testing.T) {
	t.Run("create project successfully", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()

		repo.On("FindByCode", ctx, "EXPO26").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*accreditation.Project")).Return(nil)

		result, err := service.Create(ctx, testUserID, createProjectRequest())

		require.NoError(t, err)
		assert.Equal(t, "Doha Expo", result.Name)
		assert.Equal(t, "EXPO26", result.Code)
		assert.True(t, result.Active)
		assert.Equal(t, []string{"Media", "Production", "VIP"}, result.AccessGroups)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code is rejected", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()

		repo.On("FindByCode", ctx, "EXPO26").Return(createTestProject(), nil)

		_, err := service.Create(ctx, testUserID, createProjectRequest())

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "DUPLICATE_CODE", domainErr.Code)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("live window ending before it starts is rejected", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()

		repo.On("FindByCode", ctx, "EXPO26").Return(nil, shared.ErrNotFound)

		req := createProjectRequest()
		req.Live = WindowInput{Start: req.Live.End, End: req.Live.Start}

		_, err := service.Create(ctx, testUserID, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_WINDOW", domainErr.Code)
	})

	t.Run("events are published after save", func(t *testing.T) {
		repo := new(MockProjectRepository)
		publisher := new(MockEventPublisher)
		service := NewProjectService(repo)
		service.SetEventPublisher(publisher)
		ctx := context.Background()

		repo.On("FindByCode", ctx, "EXPO26").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*accreditation.Project")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(nil)

		_, err := service.Create(ctx, testUserID, createProjectRequest())

		require.NoError(t, err)
		publisher.AssertNumberOfCalls(t, "Publish", 1)
	})

	t.Run("publisher failure does not fail the command", func(t *testing.T) {
		repo := new(MockProjectRepository)
		publisher := new(MockEventPublisher)
		service := NewProjectService(repo)
		service.SetEventPublisher(publisher)
		ctx := context.Background()

		repo.On("FindByCode", ctx, "EXPO26").Return(nil, shared.ErrNotFound)
		repo.On("Save", ctx, mock.AnythingOfType("*accreditation.Project")).Return(nil)
		publisher.On("Publish", ctx, mock.Anything).Return(errors.New("bus down"))

		result, err := service.Create(ctx, testUserID, createProjectRequest())

		require.NoError(t, err)
		assert.NotNil(t, result)
	})
}

func TestProjectService_Update(t *testing.T) {
	t.Run("update project successfully", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()

		project := createTestProject()
		repo.On("FindByID", ctx, project.ID).Return(project, nil)
		repo.On("Save", ctx, project).Return(nil)

		req := UpdateProjectRequest{
			Name:         "Doha Expo 2026",
			Description:  "Updated",
			AccessGroups: []string{"Media", "VIP"},
			BumpIn:       WindowInput{Start: project.BumpIn.Start, End: project.BumpIn.End},
			Live:         WindowInput{Start: project.Live.Start, End: project.Live.End},
			BumpOut:      WindowInput{Start: project.BumpOut.Start, End: project.BumpOut.End},
		}

		result, err := service.Update(ctx, project.ID, req)

		require.NoError(t, err)
		assert.Equal(t, "Doha Expo 2026", result.Name)
		assert.Equal(t, []string{"Media", "VIP"}, result.AccessGroups)
		repo.AssertExpectations(t)
	})

	t.Run("unknown project returns not found", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()
		id := uuid.New()

		repo.On("FindByID", ctx, id).Return(nil, shared.ErrNotFound)

		_, err := service.Update(ctx, id, UpdateProjectRequest{})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProjectService_List(t *testing.T) {
	t.Run("defaults pagination", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Page == 1 && f.PageSize == 20
		})).Return([]accreditation.Project{*createTestProject()}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(1), nil)

		results, total, err := service.List(ctx, ProjectListFilter{})

		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Equal(t, int64(1), total)
	})

	t.Run("active and access group filters are forwarded", func(t *testing.T) {
		repo := new(MockProjectRepository)
		service := NewProjectService(repo)
		ctx := context.Background()
		active := true

		repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
			return f.Filters["active"] == true && f.Filters["access_group"] == "Media"
		})).Return([]accreditation.Project{}, nil)
		repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

		_, _, err := service.List(ctx, ProjectListFilter{Active: &active, AccessGroup: "Media"})

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})
}

func TestProjectService_Deactivate(t *testing.T) {
	repo := new(MockProjectRepository)
	service := NewProjectService(repo)
	ctx := context.Background()

	project := createTestProject()
	repo.On("FindByID", ctx, project.ID).Return(project, nil)
	repo.On("Save", ctx, project).Return(nil)

	result, err := service.Deactivate(ctx, project.ID)

	require.NoError(t, err)
	assert.False(t, result.Active)

	repo.On("FindByID", ctx, project.ID).Return(project, nil)
	result, err = service.Activate(ctx, project.ID)

	require.NoError(t, err)
	assert.True(t, result.Active)
}
