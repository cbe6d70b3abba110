package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	listapp "github.com/rmcsharry/hq-api/internal/application/list"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
)

// ListHandler handles curated contact/mandate list endpoints
type ListHandler struct {
	BaseHandler
	listService *listapp.Service
}

// NewListHandler creates a new ListHandler
func NewListHandler(listService *listapp.Service) *ListHandler {
	return &ListHandler{
		listService: listService,
	}
}

// Create creates a list
func (h *ListHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req listapp.CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.listService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves a list with its items
func (h *ListHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list ID format")
		return
	}

	result, err := h.listService.GetByID(c.Request.Context(), actor, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// List lists the caller's lists, archived ones only on request
func (h *ListHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var filter listapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lists, total, err := h.listService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, lists, total, filter.Page, filter.PageSize)
}

// Update renames a list or changes its comment
func (h *ListHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list ID format")
		return
	}

	var req listapp.UpdateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.listService.Update(c.Request.Context(), actor, listID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Archive hides a list from default listings
func (h *ListHandler) Archive(c *gin.Context) {
	h.transition(c, h.listService.Archive)
}

// Unarchive restores an archived list
func (h *ListHandler) Unarchive(c *gin.Context) {
	h.transition(c, h.listService.Unarchive)
}

// AddItem adds a contact or mandate to a list
func (h *ListHandler) AddItem(c *gin.Context) {
	h.item(c, h.listService.AddItem)
}

// RemoveItem removes a contact or mandate from a list
func (h *ListHandler) RemoveItem(c *gin.Context) {
	h.item(c, h.listService.RemoveItem)
}

// Delete removes a list and its items
func (h *ListHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list ID format")
		return
	}

	if err := h.listService.Delete(c.Request.Context(), actor, listID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// transition runs an archive state change
func (h *ListHandler) transition(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID) (*listapp.ListResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list ID format")
		return
	}

	result, err := fn(c.Request.Context(), actor, listID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// item runs an item add or remove against a list
func (h *ListHandler) item(c *gin.Context, fn func(context.Context, authz.Actor, uuid.UUID, listapp.ItemRequest) (*listapp.ListResponse, error)) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid list ID format")
		return
	}

	var req listapp.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := fn(c.Request.Context(), actor, listID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
