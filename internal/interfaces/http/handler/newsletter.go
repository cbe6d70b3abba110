package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	newsletterapp "github.com/rmcsharry/hq-api/internal/application/newsletter"
	"github.com/rmcsharry/hq-api/internal/interfaces/http/dto"
)

// NewsletterHandler handles newsletter subscription endpoints
type NewsletterHandler struct {
	BaseHandler
	subscriberService *newsletterapp.SubscriberService
}

// NewNewsletterHandler creates a new NewsletterHandler
func NewNewsletterHandler(subscriberService *newsletterapp.SubscriberService) *NewsletterHandler {
	return &NewsletterHandler{
		subscriberService: subscriberService,
	}
}

// Subscribe registers a newsletter subscriber and sends the double opt-in
// email. Public endpoint.
func (h *NewsletterHandler) Subscribe(c *gin.Context) {
	var req newsletterapp.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscriber, err := h.subscriberService.Subscribe(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, subscriber)
}

// Confirm completes the double opt-in using the emailed token. Public endpoint.
func (h *NewsletterHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	subscriber, err := h.subscriberService.Confirm(c.Request.Context(), req.Token)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, subscriber)
}

// List lists subscribers with pagination
func (h *NewsletterHandler) List(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	filter := toFilter(req)

	subscribers, total, err := h.subscriberService.List(c.Request.Context(), actor, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, subscribers, total, filter.Page, filter.PageSize)
}

// Delete removes a subscriber
func (h *NewsletterHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	subscriberID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subscriber ID format")
		return
	}

	if err := h.subscriberService.Delete(c.Request.Context(), actor, subscriberID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
