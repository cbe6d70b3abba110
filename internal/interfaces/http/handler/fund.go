package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	fundapp "github.com/rmcsharry/hq-api/internal/application/fund"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
)

// FundHandler handles fund-related API endpoints
type FundHandler struct {
	BaseHandler
	fundService *fundapp.FundService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *fundapp.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// Create creates a new fund
func (h *FundHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req fundapp.CreateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fund, err := h.fundService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, fund)
}

// GetByID retrieves a fund by its ID
func (h *FundHandler) GetByID(c *gin.Context) {
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

	fund, err := h.fundService.GetByID(c.Request.Context(), actor, fundID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fund)
}

// List lists funds with pagination and optional state filtering
func (h *FundHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter fundapp.FundListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	funds, total, err := h.fundService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, funds, total, filter.Page, filter.PageSize)
}

// Update updates a fund's mutable fields
func (h *FundHandler) Update(c *gin.Context) {
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

	var req fundapp.UpdateFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	fund, err := h.fundService.Update(c.Request.Context(), actor, fundID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fund)
}

// Close transitions a fund to the closed state
func (h *FundHandler) Close(c *gin.Context) {
	h.transition(c, h.fundService.Close)
}

// Reopen returns a closed fund to the open state
func (h *FundHandler) Reopen(c *gin.Context) {
	h.transition(c, h.fundService.Reopen)
}

// Delete removes a fund and cascades over its dependent records
func (h *FundHandler) Delete(c *gin.Context) {
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

	if err := h.fundService.Delete(c.Request.Context(), actor, fundID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs one of the fund state transitions
func (h *FundHandler) transition(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID) (*fundapp.FundResponse, error)) {
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

	fund, err := fn(c.Request.Context(), actor, fundID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, fund)
}
