package accreditation

import (
	"context"

	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/shared"
	"github.com/google/uuid"
)

// ProjectService handles project business operations
type ProjectService struct {
	projectRepo    accreditation.ProjectRepository
	eventPublisher shared.EventPublisher
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo accreditation.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProjectService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new project
func (s *ProjectService) Create(ctx context.Context, userID uuid.UUID, req CreateProjectRequest) (*ProjectResponse, error) {
	// Reject duplicate codes before hitting the unique index
	if _, err := s.projectRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "A project with this code already exists")
	} else if err != shared.ErrNotFound {
		return nil, err
	}

	project, err := accreditation.NewProject(
		req.Name,
		req.Code,
		req.Description,
		accreditation.Window{Start: req.BumpIn.Start, End: req.BumpIn.End},
		accreditation.Window{Start: req.Live.Start, End: req.Live.End},
		accreditation.Window{Start: req.BumpOut.Start, End: req.BumpOut.End},
		req.AccessGroups,
		userID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, project)

	response := ToProjectResponse(project)
	return &response, nil
}

// Update updates a project
func (s *ProjectService) Update(ctx context.Context, projectID uuid.UUID, req UpdateProjectRequest) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := project.Update(
		req.Name,
		req.Description,
		accreditation.Window{Start: req.BumpIn.Start, End: req.BumpIn.End},
		accreditation.Window{Start: req.Live.Start, End: req.Live.End},
		accreditation.Window{Start: req.BumpOut.Start, End: req.BumpOut.End},
		req.AccessGroups,
	); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

// GetByID retrieves a project by ID
func (s *ProjectService) GetByID(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(project)
	return &response, nil
}

// GetByCode retrieves a project by its unique code
func (s *ProjectService) GetByCode(ctx context.Context, code string) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToProjectResponse(project)
	return &response, nil
}

// List retrieves a list of projects with filtering and pagination
func (s *ProjectService) List(ctx context.Context, filter ProjectListFilter) ([]ProjectResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.AccessGroup != "" {
		domainFilter.Filters["access_group"] = filter.AccessGroup
	}

	projects, err := s.projectRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.projectRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProjectResponses(projects), total, nil
}

// Activate marks a project as active
func (s *ProjectService) Activate(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.setActive(ctx, projectID, true)
}

// Deactivate marks a project as inactive
func (s *ProjectService) Deactivate(ctx context.Context, projectID uuid.UUID) (*ProjectResponse, error) {
	return s.setActive(ctx, projectID, false)
}

func (s *ProjectService) setActive(ctx context.Context, projectID uuid.UUID, active bool) (*ProjectResponse, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if active {
		project.Activate()
	} else {
		project.Deactivate()
	}

	if err := s.projectRepo.Save(ctx, project); err != nil {
		return nil, err
	}

	response := ToProjectResponse(project)
	return &response, nil
}

func (s *ProjectService) publishEvents(ctx context.Context, project *accreditation.Project) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range project.GetDomainEvents() {
		// Event handling is asynchronous; bus failures never fail the command path
		_ = s.eventPublisher.Publish(ctx, event)
	}
	project.ClearDomainEvents()
}
