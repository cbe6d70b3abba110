package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// InvestorHandler handles fund investor endpoints
type InvestorHandler struct {
	BaseHandler
	investorService *fundapp.InvestorService
}

// NewInvestorHandler creates a new InvestorHandler
func NewInvestorHandler(investorService *fundapp.InvestorService) *InvestorHandler {
	return &InvestorHandler{
		investorService: investorService,
	}
}

// Create adds an investor to a fund
func (h *InvestorHandler) Create(c *gin.Context) {
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

	var req fundapp.CreateInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	investor, err := h.investorService.Create(c.Request.Context(), actor, fundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, investor)
}

// GetByID retrieves an investor by its ID
func (h *InvestorHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investor ID format")
		return
	}

	investor, err := h.investorService.GetByID(c.Request.Context(), actor, investorID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, investor)
}

// ListByFund lists a fund's investors with pagination
func (h *InvestorHandler) ListByFund(c *gin.Context) {
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

	investors, total, err := h.investorService.ListByFund(c.Request.Context(), actor, fundID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, investors, total, filter.Page, filter.PageSize)
}

// Sign records the fund subscription agreement signature for an investor
func (h *InvestorHandler) Sign(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investor ID format")
		return
	}

	var req fundapp.SignInvestorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	investor, err := h.investorService.Sign(c.Request.Context(), actor, investorID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, investor)
}

// Delete removes an investor from its fund
func (h *InvestorHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	investorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid investor ID format")
		return
	}

	if err := h.investorService.Delete(c.Request.Context(), actor, investorID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
