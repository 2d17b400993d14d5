package handler

import (
	"context"
	"time"

	accapp "github.com/becreativeqatar/bceportal/internal/application/accreditation"
	"github.com/becreativeqatar/bceportal/internal/domain/accreditation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecordHandler handles accreditation record API endpoints
type RecordHandler struct {
	BaseHandler
	recordService *accapp.RecordService
	scanService   *accapp.ScanService
}

// NewRecordHandler creates a new RecordHandler
func NewRecordHandler(recordService *accapp.RecordService, scanService *accapp.ScanService) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		scanService:   scanService,
	}
}

// PersonRequest represents person details in record requests
// @Description Person details for an accreditation record
type PersonRequest struct {
	FirstName    string `json:"first_name" binding:"required,min=1,max=100" example:"Aisha"`
	LastName     string `json:"last_name" binding:"required,min=1,max=100" example:"Al-Thani"`
	Organization string `json:"organization" binding:"required,min=1,max=200" example:"Qatar TV"`
	JobTitle     string `json:"job_title" binding:"required,min=1,max=200" example:"Camera Operator"`
	AccessGroup  string `json:"access_group" binding:"required,min=1,max=100" example:"Media"`
}

// IdentificationRequest represents identification details in record requests.
// Exactly one of the QID or passport field groups must be populated.
// @Description Identification document details
type IdentificationRequest struct {
	Type            string     `json:"type" binding:"required,oneof=QID PASSPORT" example:"QID"`
	QIDNumber       string     `json:"qid_number" binding:"omitempty,qid" example:"28412345678"`
	QIDExpiry       *time.Time `json:"qid_expiry"`
	PassportNumber  string     `json:"passport_number" binding:"max=50" example:"P1234567"`
	PassportCountry string     `json:"passport_country" binding:"max=100" example:"GBR"`
	PassportExpiry  *time.Time `json:"passport_expiry"`
	HayyaVisaNumber string     `json:"hayya_visa_number" binding:"max=50" example:"HY-99887766"`
	HayyaVisaExpiry *time.Time `json:"hayya_visa_expiry"`
}

// CreateRecordRequest represents a request to create an accreditation record
// @Description Request body for creating an accreditation record
type CreateRecordRequest struct {
	ProjectID      uuid.UUID             `json:"project_id" binding:"required"`
	Person         PersonRequest         `json:"person" binding:"required"`
	Identification IdentificationRequest `json:"identification" binding:"required"`
	PhotoURL       string                `json:"photo_url" binding:"omitempty,url,max=500"`
}

// UpdateRecordRequest represents a request to update a draft record
// @Description Request body for updating an accreditation record
type UpdateRecordRequest struct {
	Person         *PersonRequest         `json:"person"`
	Identification *IdentificationRequest `json:"identification"`
	PhotoURL       *string                `json:"photo_url" binding:"omitempty,max=500"`
}

// SetGrantRequest represents a request to set a per-phase access grant
// @Description Request body for setting a phase access grant
type SetGrantRequest struct {
	Phase         string     `json:"phase" binding:"required,oneof=BUMP_IN LIVE BUMP_OUT" example:"LIVE"`
	Enabled       bool       `json:"enabled" example:"true"`
	OverrideStart *time.Time `json:"override_start"`
	OverrideEnd   *time.Time `json:"override_end"`
}

// RejectRecordRequest represents a request to reject a pending record
// @Description Request body for rejecting a record
type RejectRecordRequest struct {
	Reason string `json:"reason" binding:"max=500" example:"Photo does not meet requirements"`
}

// RevokeRecordRequest represents a request to revoke an approved record
// @Description Request body for revoking a record
type RevokeRecordRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500" example:"Badge reported lost"`
}

// RecordListFilter represents filter parameters for record list
// @Description Record list filter
type RecordListFilter struct {
	Search      string `form:"search"`
	ProjectID   string `form:"project_id"`
	Status      string `form:"status"`
	AccessGroup string `form:"access_group"`
	Revoked     *bool  `form:"revoked"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Page        int    `form:"page,omitempty" binding:"omitempty,min=1" example:"1"`
	PageSize    int    `form:"page_size,omitempty" binding:"omitempty,min=1,max=100" example:"20"`
}

func toPersonInput(p PersonRequest) accapp.PersonInput {
	return accapp.PersonInput{
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		Organization: p.Organization,
		JobTitle:     p.JobTitle,
		AccessGroup:  p.AccessGroup,
	}
}

func toIdentificationInput(i IdentificationRequest) accapp.IdentificationInput {
	return accapp.IdentificationInput{
		Type:            i.Type,
		QIDNumber:       i.QIDNumber,
		QIDExpiry:       i.QIDExpiry,
		PassportNumber:  i.PassportNumber,
		PassportCountry: i.PassportCountry,
		PassportExpiry:  i.PassportExpiry,
		HayyaVisaNumber: i.HayyaVisaNumber,
		HayyaVisaExpiry: i.HayyaVisaExpiry,
	}
}

// Create godoc
// @ID           createRecord
// @Summary      Create a new accreditation record
// @Description  Create a draft accreditation record in a project
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        request body CreateRecordRequest true "Record creation request"
// @Success      201 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records [post]
func (h *RecordHandler) Create(c *gin.Context) {
	var req CreateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, _ := getUserID(c)

	appReq := accapp.CreateRecordRequest{
		ProjectID:      req.ProjectID,
		Person:         toPersonInput(req.Person),
		Identification: toIdentificationInput(req.Identification),
		PhotoURL:       req.PhotoURL,
	}

	record, err := h.recordService.Create(c.Request.Context(), userID, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, record)
}

// List godoc
// @ID           listRecords
// @Summary      List accreditation records
// @Description  List records with pagination and filters
// @Tags         records
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        project_id query string false "Filter by project"
// @Param        status query string false "Filter by status (DRAFT, PENDING, APPROVED, REJECTED)"
// @Param        access_group query string false "Filter by access group"
// @Param        revoked query bool false "Filter by revocation state"
// @Param        search query string false "Search by name or accreditation number"
// @Success      200 {object} APIResponse[[]accapp.RecordListItemResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /records [get]
func (h *RecordHandler) List(c *gin.Context) {
	var filter RecordListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appFilter := accapp.RecordListFilter{
		Page:        filter.Page,
		PageSize:    filter.PageSize,
		OrderBy:     filter.OrderBy,
		OrderDir:    filter.OrderDir,
		Search:      filter.Search,
		AccessGroup: filter.AccessGroup,
		Revoked:     filter.Revoked,
	}
	if filter.ProjectID != "" {
		projectID, err := uuid.Parse(filter.ProjectID)
		if err != nil {
			h.BadRequest(c, "Invalid project ID")
			return
		}
		appFilter.ProjectID = &projectID
	}
	if filter.Status != "" {
		appFilter.Status = &filter.Status
	}

	records, total, err := h.recordService.List(c.Request.Context(), appFilter)
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
	h.SuccessWithMeta(c, records, total, page, pageSize)
}

// GetByID godoc
// @ID           getRecord
// @Summary      Get a record by ID
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /records/{id} [get]
func (h *RecordHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	record, err := h.recordService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// GetByNumber godoc
// @ID           getRecordByNumber
// @Summary      Get a record by accreditation number
// @Tags         records
// @Produce      json
// @Param        number path string true "Accreditation number"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /records/number/{number} [get]
func (h *RecordHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Accreditation number is required")
		return
	}

	record, err := h.recordService.GetByNumber(c.Request.Context(), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Update godoc
// @ID           updateRecord
// @Summary      Update a record
// @Description  Update person, identification or photo on a draft or rejected record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body UpdateRecordRequest true "Record update request"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req UpdateRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := accapp.UpdateRecordRequest{PhotoURL: req.PhotoURL}
	if req.Person != nil {
		person := toPersonInput(*req.Person)
		appReq.Person = &person
	}
	if req.Identification != nil {
		ident := toIdentificationInput(*req.Identification)
		appReq.Identification = &ident
	}

	record, err := h.recordService.Update(c.Request.Context(), id, appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Delete godoc
// @ID           deleteRecord
// @Summary      Delete a draft record
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      204 "No Content"
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	if err := h.recordService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Submit godoc
// @ID           submitRecord
// @Summary      Submit a record for approval
// @Description  Move a draft or rejected record to pending review
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id}/submit [post]
func (h *RecordHandler) Submit(c *gin.Context) {
	h.lifecycle(c, h.recordService.Submit)
}

// Approve godoc
// @ID           approveRecord
// @Summary      Approve a pending record
// @Description  Approve the record and issue its QR token
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id}/approve [post]
func (h *RecordHandler) Approve(c *gin.Context) {
	h.lifecycle(c, h.recordService.Approve)
}

// Reject godoc
// @ID           rejectRecord
// @Summary      Reject a pending record
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body RejectRecordRequest false "Rejection reason"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id}/reject [post]
func (h *RecordHandler) Reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req RejectRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	record, err := h.recordService.Reject(c.Request.Context(), id, userID, accapp.RejectRecordRequest{Reason: req.Reason})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// Revoke godoc
// @ID           revokeRecord
// @Summary      Revoke an approved record
// @Description  Mark an approved record as revoked; the badge stops scanning as valid
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body RevokeRecordRequest true "Revocation reason"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id}/revoke [post]
func (h *RecordHandler) Revoke(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req RevokeRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	record, err := h.recordService.Revoke(c.Request.Context(), id, userID, accapp.RevokeRecordRequest{Reason: req.Reason})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// SetGrant godoc
// @ID           setRecordGrant
// @Summary      Set a per-phase access grant
// @Description  Enable or disable access for a phase, optionally overriding the project window
// @Tags         records
// @Accept       json
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        request body SetGrantRequest true "Grant settings"
// @Success      200 {object} APIResponse[accapp.RecordResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /records/{id}/grants [put]
func (h *RecordHandler) SetGrant(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var req SetGrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	record, err := h.recordService.SetGrant(c.Request.Context(), id, accapp.GrantInput{
		Phase:         req.Phase,
		Enabled:       req.Enabled,
		OverrideStart: req.OverrideStart,
		OverrideEnd:   req.OverrideEnd,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}

// CountByStatus godoc
// @ID           countRecordsByStatus
// @Summary      Count records in a project by status
// @Tags         records
// @Produce      json
// @Param        project_id query string true "Project ID"
// @Param        status query string true "Record status"
// @Success      200 {object} APIResponse[CountData]
// @Failure      400 {object} ErrorResponse
// @Router       /records/stats/count [get]
func (h *RecordHandler) CountByStatus(c *gin.Context) {
	projectID, err := uuid.Parse(c.Query("project_id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	status := accreditation.RecordStatus(c.Query("status"))
	if !status.IsValid() {
		h.BadRequest(c, "Invalid record status")
		return
	}

	count, err := h.recordService.CountByStatus(c.Request.Context(), projectID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: count})
}

// ListScans godoc
// @ID           listRecordScans
// @Summary      List scan log entries for a record
// @Tags         records
// @Produce      json
// @Param        id path string true "Record ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]accapp.ScanLogResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /records/{id}/scans [get]
func (h *RecordHandler) ListScans(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	var paging ListPagingQuery
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	logs, total, err := h.scanService.ListByRecord(c.Request.Context(), id, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := paging.Page
	if page <= 0 {
		page = 1
	}
	pageSize := paging.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	h.SuccessWithMeta(c, logs, total, page, pageSize)
}

// ListPagingQuery holds page/page_size query parameters
type ListPagingQuery struct {
	Page     int `form:"page,omitempty" binding:"omitempty,min=1"`
	PageSize int `form:"page_size,omitempty" binding:"omitempty,min=1,max=100"`
}

func (h *RecordHandler) lifecycle(c *gin.Context, fn func(ctx context.Context, recordID, userID uuid.UUID) (*accapp.RecordResponse, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	record, err := fn(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, record)
}
