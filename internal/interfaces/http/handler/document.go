package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	documentapp "github.com/rmcsharry/hq-api/internal/application/document"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// DocumentHandler handles document metadata and transfer endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.Service
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.Service) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
	}
}

// InitiateUpload registers a document and returns a presigned upload URL
func (h *DocumentHandler) InitiateUpload(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req documentapp.InitiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documentService.InitiateUpload(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GetByID retrieves document metadata
func (h *DocumentHandler) GetByID(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	document, err := h.documentService.GetByID(c.Request.Context(), actor, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, document)
}

// ListByOwner lists the documents attached to an owning record
func (h *DocumentHandler) ListByOwner(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var query OwnerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owner, err := query.ownerRef()
	if err != nil {
		h.BadRequest(c, "Invalid owner reference")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	documents, total, err := h.documentService.ListByOwner(c.Request.Context(), actor, owner, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, documents, total, filter.Page, filter.PageSize)
}

// Download returns a short-lived presigned download URL
func (h *DocumentHandler) Download(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	download, err := h.documentService.Download(c.Request.Context(), actor, documentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, download)
}

// Update changes document metadata
func (h *DocumentHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	var req documentapp.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	document, err := h.documentService.Update(c.Request.Context(), actor, documentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, document)
}

// Delete removes a document and its stored object
func (h *DocumentHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	documentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid document ID format")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), actor, documentID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
