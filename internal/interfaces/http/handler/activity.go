package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	mandateapp "github.com/rmcsharry/hq-api/internal/application/mandate"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// ActivityHandler handles activity API endpoints (meetings, calls, emails
// and notes recorded against mandates)
type ActivityHandler struct {
	BaseHandler
	activityService *mandateapp.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *mandateapp.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// Create records a new activity
func (h *ActivityHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req mandateapp.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, activity)
}

// GetByID retrieves an activity by its ID
func (h *ActivityHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := h.activityService.GetByID(c.Request.Context(), actor, activityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activity)
}

// ListByMandate lists activities recorded against a mandate
func (h *ActivityHandler) ListByMandate(c *gin.Context) {
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

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	activities, total, err := h.activityService.ListByMandate(c.Request.Context(), actor, mandateID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// ListByContact lists activities a contact participated in
func (h *ActivityHandler) ListByContact(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	contactID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid contact ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	activities, total, err := h.activityService.ListByContact(c.Request.Context(), actor, contactID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// Update updates an activity
func (h *ActivityHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	var req mandateapp.UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	activity, err := h.activityService.Update(c.Request.Context(), actor, activityID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activity)
}

// Delete removes an activity
func (h *ActivityHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	if err := h.activityService.Delete(c.Request.Context(), actor, activityID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
