package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	identityapp "github.com/rmcsharry/hq-api/internal/application/identity"
)

// UserGroupHandler handles role-carrying user group endpoints
type UserGroupHandler struct {
	BaseHandler
	groupService *identityapp.UserGroupService
}

// NewUserGroupHandler creates a new UserGroupHandler
func NewUserGroupHandler(groupService *identityapp.UserGroupService) *UserGroupHandler {
	return &UserGroupHandler{
		groupService: groupService,
	}
}

// Create creates a user group
func (h *UserGroupHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.CreateUserGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID retrieves a user group with its members and roles
func (h *UserGroupHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), actor, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List lists user groups with pagination
func (h *UserGroupHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter identityapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groups, total, err := h.groupService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, filter.Page, filter.PageSize)
}

// Update changes a user group's name, roles or membership
func (h *UserGroupHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	var req identityapp.UpdateUserGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), actor, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete removes a user group
func (h *UserGroupHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), actor, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// MandateGroupHandler handles mandate group endpoints
type MandateGroupHandler struct {
	BaseHandler
	groupService *identityapp.MandateGroupService
}

// NewMandateGroupHandler creates a new MandateGroupHandler
func NewMandateGroupHandler(groupService *identityapp.MandateGroupService) *MandateGroupHandler {
	return &MandateGroupHandler{
		groupService: groupService,
	}
}

// Create creates a mandate group
func (h *MandateGroupHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req identityapp.CreateMandateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID retrieves a mandate group
func (h *MandateGroupHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), actor, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List lists mandate groups with pagination
func (h *MandateGroupHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter identityapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groups, total, err := h.groupService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, filter.Page, filter.PageSize)
}

// Update changes a mandate group's name or mandate membership
func (h *MandateGroupHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	var req identityapp.UpdateMandateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), actor, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// Delete removes a mandate group
func (h *MandateGroupHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid group ID format")
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), actor, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
