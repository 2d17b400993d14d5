package handler

import (
	"time"

	accapp "github.com/becreativeqatar/bceportal/internal/application/accreditation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProjectHandler handles accreditation project API endpoints
type ProjectHandler struct {
	BaseHandler
	projectService *accapp.ProjectService
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService *accapp.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// PhaseWindowRequest represents a phase window in requests
// @Description Start and end of a project phase window
type PhaseWindowRequest struct {
	Start time.Time `json:"start" binding:"required" example:"2026-01-01T00:00:00Z"`
	End   time.Time `json:"end" binding:"required" example:"2026-01-10T23:59:59Z"`
}

// CreateProjectRequest represents a request to create a project
// @Description Request body for creating an accreditation project
type CreateProjectRequest struct {
	Name         string             `json:"name" binding:"required,min=1,max=200" example:"Doha Expo 2026"`
	Code         string             `json:"code" binding:"required,min=1,max=50" example:"EXPO26"`
	Description  string             `json:"description" example:"Main expo accreditation"`
	AccessGroups []string           `json:"access_groups" binding:"required,min=1" example:"Media,Production,VIP"`
	BumpIn       PhaseWindowRequest `json:"bump_in" binding:"required"`
	Live         PhaseWindowRequest `json:"live" binding:"required"`
	BumpOut      PhaseWindowRequest `json:"bump_out" binding:"required"`
}

// UpdateProjectRequest represents a request to update a project
// @Description Request body for updating an accreditation project
type UpdateProjectRequest struct {
	Name         string             `json:"name" binding:"required,min=1,max=200" example:"Doha Expo 2026"`
	Description  string             `json:"description" example:"Main expo accreditation"`
	AccessGroups []string           `json:"access_groups" binding:"required,min=1" example:"Media,Production,VIP"`
	BumpIn       PhaseWindowRequest `json:"bump_in" binding:"required"`
	Live         PhaseWindowRequest `json:"live" binding:"required"`
	BumpOut      PhaseWindowRequest `json:"bump_out" binding:"required"`
}

// ProjectListFilter represents filter parameters for project list
// @Description Project list filter
type ProjectListFilter struct {
	Search      string `form:"search"`
	Active      *bool  `form:"active"`
	AccessGroup string `form:"access_group"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int    `form:"page,omitempty" binding:"omitempty,min=1" example:"1"`
	PageSize    int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100" example:"20"`
}

func toWindowInput(w PhaseWindowRequest) accapp.WindowInput {
	return accapp.WindowInput{Start: w.Start, End: w.End}
}

// Create godoc
// @ID           createProject
// @Summary      Create a new accreditation project
// @Description  Create a new project with access groups and phase windows
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        request body CreateProjectRequest true "Project creation request"
// @Success      201 {object} APIResponse[accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, _ := getUserID(c)

	appReq := accapp.CreateProjectRequest{
		Name:         req.Name,
		Code:         req.Code,
		Description:  req.Description,
		AccessGroups: req.AccessGroups,
		BumpIn:       toWindowInput(req.BumpIn),
		Live:         toWindowInput(req.Live),
		BumpOut:      toWindowInput(req.BumpOut),
	}

	project, err := h.projectService.Create(c.Request.Context(), userID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, project)
}

// List godoc
// @ID           listProjects
// @Summary      List accreditation projects
// @Description  List projects with pagination and filters
// @Tags         projects
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name or code"
// @Param        active query bool false "Filter by active state"
// @Param        access_group query string false "Filter by access group"
// @Success      200 {object} APIResponse[[]accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var filter ProjectListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appFilter := accapp.ProjectListFilter{
		Page:        filter.Page,
		PageSize:    filter.PageSize,
		OrderBy:     filter.OrderBy,
		OrderDir:    filter.OrderDir,
		Search:      filter.Search,
		Active:      filter.Active,
		AccessGroup: filter.AccessGroup,
	}

	projects, total, err := h.projectService.List(c.Request.Context(), appFilter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, projects, total, page, pageSize)
}

// GetByID godoc
// @ID           getProject
// @Summary      Get a project by ID
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// GetByCode godoc
// @ID           getProjectByCode
// @Summary      Get a project by code
// @Tags         projects
// @Produce      json
// @Param        code path string true "Project code"
// @Success      200 {object} APIResponse[accapp.ProjectResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /projects/code/{code} [get]
func (h *ProjectHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Project code is required")
		return
	}

	project, err := h.projectService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// Update godoc
// @ID           updateProject
// @Summary      Update a project
// @Description  Update project details and phase windows
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        request body UpdateProjectRequest true "Project update request"
// @Success      200 {object} APIResponse[accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /projects/{id} [put]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var req UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := accapp.UpdateProjectRequest{
		Name:         req.Name,
		Description:  req.Description,
		AccessGroups: req.AccessGroups,
		BumpIn:       toWindowInput(req.BumpIn),
		Live:         toWindowInput(req.Live),
		BumpOut:      toWindowInput(req.BumpOut),
	}

	project, err := h.projectService.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// Activate godoc
// @ID           activateProject
// @Summary      Activate a project
// @Description  Make the project available for record creation and imports
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /projects/{id}/activate [post]
func (h *ProjectHandler) Activate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}

// Deactivate godoc
// @ID           deactivateProject
// @Summary      Deactivate a project
// @Description  Stop record creation and imports for the project
// @Tags         projects
// @Produce      json
// @Param        id path string true "Project ID"
// @Success      200 {object} APIResponse[accapp.ProjectResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /projects/{id}/deactivate [post]
func (h *ProjectHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	project, err := h.projectService.Deactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, project)
}
