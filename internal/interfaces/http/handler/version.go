package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditapp "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// VersionHandler serves change-history endpoints for audited resources
type VersionHandler struct {
	BaseHandler
	historyService *auditapp.HistoryService
}

// NewVersionHandler creates a new VersionHandler
func NewVersionHandler(historyService *auditapp.HistoryService) *VersionHandler {
	return &VersionHandler{
		historyService: historyService,
	}
}

// History returns a handler listing the versions recorded for one record of
// the given item type, for example "Contact" or "Mandate".
func (h *VersionHandler) History(itemType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.serve(c, itemType, h.historyService.HistoryFor)
	}
}

// CombinedHistory returns a handler listing the merged timeline of an
// aggregate and the child records that point at it.
func (h *VersionHandler) CombinedHistory(itemType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.serve(c, itemType, h.historyService.CombinedHistoryFor)
	}
}

func (h *VersionHandler) serve(c *gin.Context, itemType string, fetch func(context.Context, string, uuid.UUID, shared.Filter) ([]auditapp.VersionResponse, int64, error)) {
	if _, ok := getActor(c); !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid record ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	versions, total, err := fetch(c.Request.Context(), itemType, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, versions, total, filter.Page, filter.PageSize)
}
