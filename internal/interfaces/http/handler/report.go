package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// ReportHandler handles fund report endpoints
type ReportHandler struct {
	BaseHandler
	reportService *fundapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *fundapp.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Create attaches a quarterly report to a fund
func (h *ReportHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	var req fundapp.CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	report, err := h.reportService.Create(c.Request.Context(), actor, fundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, report)
}

// ListByFund lists a fund's reports with pagination
func (h *ReportHandler) ListByFund(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	fundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid fund ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	reports, total, err := h.reportService.ListByFund(c.Request.Context(), actor, fundID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, reports, total, filter.Page, filter.PageSize)
}

// Delete removes a fund report
func (h *ReportHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid report ID format")
		return
	}

	if err := h.reportService.Delete(c.Request.Context(), actor, reportID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
