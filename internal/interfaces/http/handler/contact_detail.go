package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/rmcsharry/hq-api/internal/application/contact"
)

// ContactDetailHandler handles communication details, tax details and
// compliance details of contacts
type ContactDetailHandler struct {
	BaseHandler
	detailService     *contactapp.DetailService
	taxService        *contactapp.TaxDetailService
	complianceService *contactapp.ComplianceDetailService
}

// NewContactDetailHandler creates a new ContactDetailHandler
func NewContactDetailHandler(detailService *contactapp.DetailService, taxService *contactapp.TaxDetailService, complianceService *contactapp.ComplianceDetailService) *ContactDetailHandler {
	return &ContactDetailHandler{
		detailService:     detailService,
		taxService:        taxService,
		complianceService: complianceService,
	}
}

// CreateDetail adds a communication detail (phone, email, fax) to a contact
func (h *ContactDetailHandler) CreateDetail(c *gin.Context) {
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

	var req contactapp.SaveContactDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	detail, err := h.detailService.Create(c.Request.Context(), actor, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, detail)
}

// ListDetails lists a contact's communication details
func (h *ContactDetailHandler) ListDetails(c *gin.Context) {
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

	details, err := h.detailService.ListByContact(c.Request.Context(), actor, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, details)
}

// UpdateDetail updates a communication detail
func (h *ContactDetailHandler) UpdateDetail(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	detailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid detail ID format")
		return
	}

	var req contactapp.SaveContactDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	detail, err := h.detailService.Update(c.Request.Context(), actor, detailID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// DeleteDetail removes a communication detail
func (h *ContactDetailHandler) DeleteDetail(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	detailID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid detail ID format")
		return
	}

	if err := h.detailService.Delete(c.Request.Context(), actor, detailID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// GetTaxDetail returns a contact's tax detail record
func (h *ContactDetailHandler) GetTaxDetail(c *gin.Context) {
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

	detail, err := h.taxService.GetByContact(c.Request.Context(), actor, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// SaveTaxDetail creates or replaces a contact's tax detail record
func (h *ContactDetailHandler) SaveTaxDetail(c *gin.Context) {
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

	var req contactapp.SaveTaxDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	detail, err := h.taxService.Save(c.Request.Context(), actor, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// GetComplianceDetail returns a contact's KYC compliance record
func (h *ContactDetailHandler) GetComplianceDetail(c *gin.Context) {
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

	detail, err := h.complianceService.GetByContact(c.Request.Context(), actor, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}

// SaveComplianceDetail creates or replaces a contact's KYC compliance record
func (h *ContactDetailHandler) SaveComplianceDetail(c *gin.Context) {
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

	var req contactapp.SaveComplianceDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	detail, err := h.complianceService.Save(c.Request.Context(), actor, contactID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, detail)
}
