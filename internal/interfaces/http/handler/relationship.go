package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/rmcsharry/hq-api/internal/application/contact"
)

// RelationshipHandler handles contact relationship API endpoints
type RelationshipHandler struct {
	BaseHandler
	relationshipService *contactapp.RelationshipService
}

// NewRelationshipHandler creates a new RelationshipHandler
func NewRelationshipHandler(relationshipService *contactapp.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{
		relationshipService: relationshipService,
	}
}

// Create links two contacts in a typed relationship
func (h *RelationshipHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req contactapp.CreateRelationshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	relationship, err := h.relationshipService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, relationship)
}

// ListByContact lists relationships where the contact is either side
func (h *RelationshipHandler) ListByContact(c *gin.Context) {
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

	relationships, err := h.relationshipService.ListByContact(c.Request.Context(), actor, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, relationships)
}

// Delete removes a relationship
func (h *RelationshipHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	relationshipID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid relationship ID format")
		return
	}

	if err := h.relationshipService.Delete(c.Request.Context(), actor, relationshipID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
