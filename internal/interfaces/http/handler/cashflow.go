package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// CashflowHandler handles fund cashflow endpoints
type CashflowHandler struct {
	BaseHandler
	cashflowService *fundapp.CashflowService
}

// NewCashflowHandler creates a new CashflowHandler
func NewCashflowHandler(cashflowService *fundapp.CashflowService) *CashflowHandler {
	return &CashflowHandler{
		cashflowService: cashflowService,
	}
}

// Create records a cashflow against a fund
func (h *CashflowHandler) Create(c *gin.Context) {
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

	var req fundapp.CreateCashflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cashflow, err := h.cashflowService.Create(c.Request.Context(), actor, fundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, cashflow)
}

// GetByID retrieves a cashflow with its per-investor lines
func (h *CashflowHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	cashflowID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cashflow ID format")
		return
	}

	cashflow, err := h.cashflowService.GetByID(c.Request.Context(), actor, cashflowID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cashflow)
}

// ListByFund lists a fund's cashflows with pagination
func (h *CashflowHandler) ListByFund(c *gin.Context) {
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

	cashflows, total, err := h.cashflowService.ListByFund(c.Request.Context(), actor, fundID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, cashflows, total, filter.Page, filter.PageSize)
}

// FinishLine marks a single cashflow line as settled
func (h *CashflowHandler) FinishLine(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cashflow line ID format")
		return
	}

	line, err := h.cashflowService.FinishLine(c.Request.Context(), actor, lineID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, line)
}
