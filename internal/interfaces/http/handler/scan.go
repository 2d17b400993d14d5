package handler

import (
	accapp "github.com/becreativeqatar/bceportal/internal/application/accreditation"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ScanHandler handles QR scan verification API endpoints
type ScanHandler struct {
	BaseHandler
	scanService *accapp.ScanService
}

// NewScanHandler creates a new ScanHandler
func NewScanHandler(scanService *accapp.ScanService) *ScanHandler {
	return &ScanHandler{
		scanService: scanService,
	}
}

// VerifyScanRequest represents a scan verification request from a gate device
// @Description Scan verification request; input is a raw token or a verify URL
type VerifyScanRequest struct {
	Input      string `json:"input" binding:"required" example:"2f4c9a1e-8b3d-4e6f-9a7b-1c5d8e2f4a6b"`
	DeviceInfo string `json:"device_info" binding:"max=200" example:"gate-7"`
	Location   string `json:"location" binding:"max=200" example:"North entrance"`
}

// Verify godoc
// @ID           verifyScan
// @Summary      Verify a scanned QR token
// @Description  Validate a badge token against approval state, revocation and phase windows, appending a scan log entry
// @Tags         scans
// @Accept       json
// @Produce      json
// @Param        request body VerifyScanRequest true "Scan verification request"
// @Success      200 {object} APIResponse[accapp.ScanVerificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /scans/verify [post]
func (h *ScanHandler) Verify(c *gin.Context) {
	var req VerifyScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	appReq := accapp.VerifyScanRequest{
		Input:      req.Input,
		DeviceInfo: req.DeviceInfo,
		Location:   req.Location,
	}
	if userID, err := getUserID(c); err == nil {
		appReq.ScannedBy = &userID
	}

	result, err := h.scanService.Verify(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// VerifyToken godoc
// @ID           verifyScanToken
// @Summary      Verify a QR token by URL
// @Description  Same as scan verification but with the token in the path, matching the URL encoded in badge QR codes
// @Tags         scans
// @Produce      json
// @Param        token path string true "QR token"
// @Success      200 {object} APIResponse[accapp.ScanVerificationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /scans/verify/{token} [get]
func (h *ScanHandler) VerifyToken(c *gin.Context) {
	appReq := accapp.VerifyScanRequest{
		Input:      c.Param("token"),
		DeviceInfo: c.GetHeader("User-Agent"),
	}
	if userID, err := getUserID(c); err == nil {
		appReq.ScannedBy = &userID
	}

	result, err := h.scanService.Verify(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListByProject godoc
// @ID           listProjectScans
// @Summary      List scan log entries for a project
// @Tags         scans
// @Produce      json
// @Param        id path string true "Project ID"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]accapp.ScanLogResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /projects/{id}/scans [get]
func (h *ScanHandler) ListByProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid project ID")
		return
	}

	var paging ListPagingQuery
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	logs, err := h.scanService.ListByProject(c.Request.Context(), id, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, logs)
}
