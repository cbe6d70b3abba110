package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	mandateapp "github.com/rmcsharry/hq-api/internal/application/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
)

// MandateHandler handles mandate-related API endpoints
type MandateHandler struct {
	BaseHandler
	mandateService *mandateapp.MandateService
}

// NewMandateHandler creates a new MandateHandler
func NewMandateHandler(mandateService *mandateapp.MandateService) *MandateHandler {
	return &MandateHandler{
		mandateService: mandateService,
	}
}

// Create creates a new mandate in the prospect state
func (h *MandateHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req mandateapp.CreateMandateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mandate, err := h.mandateService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, mandate)
}

// GetByID retrieves a mandate by its ID
func (h *MandateHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	mandate, err := h.mandateService.GetByID(c.Request.Context(), actor, mandateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, mandate)
}

// List lists mandates visible through the actor's mandate groups
func (h *MandateHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter mandateapp.MandateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mandates, total, err := h.mandateService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, mandates, total, filter.Page, filter.PageSize)
}

// Update updates a mandate's mutable fields
func (h *MandateHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	var req mandateapp.UpdateMandateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mandate, err := h.mandateService.Update(c.Request.Context(), actor, mandateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, mandate)
}

// BecomeClient transitions a prospect mandate to the client state
func (h *MandateHandler) BecomeClient(c *gin.Context) {
	h.transition(c, h.mandateService.BecomeClient)
}

// Cancel transitions a mandate to the cancelled state
func (h *MandateHandler) Cancel(c *gin.Context) {
	h.transition(c, h.mandateService.Cancel)
}

// BecomeProspect returns a cancelled mandate to the prospect state
func (h *MandateHandler) BecomeProspect(c *gin.Context) {
	h.transition(c, h.mandateService.BecomeProspect)
}

// AddMember links a contact to the mandate in a typed role
func (h *MandateHandler) AddMember(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	var req mandateapp.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	mandate, err := h.mandateService.AddMember(c.Request.Context(), actor, mandateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, mandate)
}

// RemoveMember unlinks a member from the mandate
func (h *MandateHandler) RemoveMember(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	memberID, err := uuid.Parse(c.Param("member_id"))
	if err != nil {
		h.BadRequest(c, "Invalid member ID format")
		return
	}

	if err := h.mandateService.RemoveMember(c.Request.Context(), actor, mandateID, memberID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a mandate and cascades over its dependent records
func (h *MandateHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	if err := h.mandateService.Delete(c.Request.Context(), actor, mandateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs one of the mandate state transitions
func (h *MandateHandler) transition(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID) (*mandateapp.MandateResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	mandateID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid mandate ID format")
		return
	}

	mandate, err := fn(c.Request.Context(), actor, mandateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, mandate)
}
