package handler

import (
	"io"
	"net/http"
	"time"

	importapp "github.com/becreativeqatar/bceportal/internal/application/import"
	csvimport "github.com/becreativeqatar/bceportal/internal/infrastructure/import"
	"github.com/becreativeqatar/bceportal/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxImportFileSize bounds uploaded CSV files before they hit the service layer
const maxImportFileSize = 5 * 1024 * 1024

// AccreditationImportHandler handles bulk accreditation import endpoints
type AccreditationImportHandler struct {
	BaseHandler
	importService *importapp.AccreditationImportService
}

// NewAccreditationImportHandler creates a new AccreditationImportHandler
func NewAccreditationImportHandler(importService *importapp.AccreditationImportService) *AccreditationImportHandler {
	return &AccreditationImportHandler{
		importService: importService,
	}
}

// Template godoc
//
//	@Summary		Download the accreditation import template
//	@Description	Returns the CSV template with header and example rows for bulk accreditation import
//	@Tags			import
//	@ID				accreditationImportTemplate
//	@Produce		text/csv
//	@Success		200	{string}	string	"CSV template"
//	@Router			/import/template [get]
func (h *AccreditationImportHandler) Template(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="accreditation_import_template.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(importapp.TemplateCSV()))
}

// Validate godoc
//
//	@Summary		Validate an accreditation CSV file
//	@Description	Parses and validates an uploaded CSV file against the project's access groups without importing anything
//	@Tags			import
//	@ID				validateAccreditationImport
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			id		path		string	true	"Project ID"
//	@Param			file	formData	file	true	"CSV file to validate"
//	@Success		200		{object}	APIResponse[dto.AccreditationImportValidateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		413		{object}	ErrorResponse
//	@Failure		415		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/projects/{id}/import/validate [post]
func (h *AccreditationImportHandler) Validate(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	defer file.Close()

	if header.Size > maxImportFileSize {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodePayloadTooLarge, "file exceeds maximum size of 5MB")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType != "" && contentType != "text/csv" && contentType != "application/octet-stream" &&
		contentType != "text/plain" && contentType != "application/vnd.ms-excel" {
		h.Error(c, http.StatusUnsupportedMediaType, dto.ErrCodeValidation, "file must be a CSV file")
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxImportFileSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	session, result, err := h.importService.Validate(c.Request.Context(), projectID, userID, header.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.AccreditationImportValidateResponse{
		SessionID:   session.ID.String(),
		State:       string(session.State),
		TotalRows:   result.TotalRows,
		ValidRows:   result.ValidRows,
		ErrorRows:   result.ErrorRows,
		Errors:      result.Errors,
		Preview:     result.Preview,
		IsTruncated: result.IsTruncated,
		TotalErrors: result.TotalErrors,
	})
}

// Commit godoc
//
//	@Summary		Commit a bulk accreditation import
//	@Description	Creates draft accreditation records from the reviewed rows; duplicates are skipped or reported per row
//	@Tags			import
//	@ID				commitAccreditationImport
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string									true	"Project ID"
//	@Param			request	body		dto.AccreditationImportCommitRequest	true	"Rows to import"
//	@Success		200		{object}	APIResponse[dto.AccreditationImportCommitResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/projects/{id}/import/commit [post]
func (h *AccreditationImportHandler) Commit(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "User identity required")
		return
	}

	var req dto.AccreditationImportCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request: "+err.Error())
		return
	}

	result, err := h.importService.Commit(c.Request.Context(), projectID, userID, req.Rows, req.SkipDuplicates)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, dto.AccreditationImportCommitResponse{
		TotalRows:    result.TotalRows,
		ImportedRows: result.ImportedRows,
		SkippedRows:  result.SkippedRows,
		FailedRows:   result.FailedRows,
		Errors:       result.Errors,
		IsTruncated:  result.IsTruncated,
		TotalErrors:  result.TotalErrors,
	})
}

// GetSession godoc
//
//	@Summary		Get an import session
//	@Description	Returns the validation state of a previously uploaded file
//	@Tags			import
//	@ID				getImportSession
//	@Produce		json
//	@Param			session_id	path		string	true	"Import session ID"
//	@Success		200			{object}	APIResponse[dto.ImportSessionResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Router			/import/sessions/{session_id} [get]
func (h *AccreditationImportHandler) GetSession(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.importService.GetSession(sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toImportSessionResponse(session))
}

// ListSessions godoc
//
//	@Summary		List import sessions for a project
//	@Tags			import
//	@ID				listImportSessions
//	@Produce		json
//	@Param			id		path		string	true	"Project ID"
//	@Param			limit	query		int		false	"Maximum sessions to return"	default(20)
//	@Success		200		{object}	APIResponse[[]dto.ImportSessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Router			/projects/{id}/import/sessions [get]
func (h *AccreditationImportHandler) ListSessions(c *gin.Context) {
	projectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var query struct {
		Limit int `form:"limit,omitempty" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sessions, err := h.importService.ListSessions(projectID, query.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]dto.ImportSessionResponse, len(sessions))
	for i, session := range sessions {
		responses[i] = toImportSessionResponse(session)
	}
	h.Success(c, responses)
}

func toImportSessionResponse(session *csvimport.ImportSession) dto.ImportSessionResponse {
	return dto.ImportSessionResponse{
		ID:        session.ID.String(),
		ProjectID: session.ProjectID.String(),
		FileName:  session.FileName,
		FileSize:  session.FileSize,
		State:     string(session.State),
		TotalRows: session.TotalRows,
		ValidRows: session.ValidRows,
		ErrorRows: session.ErrorRows,
		CreatedAt: session.CreatedAt.Format(time.RFC3339),
		UpdatedAt: session.UpdatedAt.Format(time.RFC3339),
	}
}

// RegisterRoutes registers all accreditation import routes
func (h *AccreditationImportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	imports := rg.Group("/import")
	{
		imports.GET("/template", h.Template)
		imports.GET("/sessions/:session_id", h.GetSession)
	}
	projects := rg.Group("/projects/:id/import")
	{
		projects.POST("/validate", h.Validate)
		projects.POST("/commit", h.Commit)
		projects.GET("/sessions", h.ListSessions)
	}
}
