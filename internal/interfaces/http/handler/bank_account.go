package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bankingapp "github.com/rmcsharry/hq-api/internal/application/banking"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// OwnerQuery identifies the owning record for polymorphic attachments
type OwnerQuery struct {
	OwnerType string `form:"owner_type" binding:"required"`
	OwnerID   string `form:"owner_id" binding:"required,uuid"`
}

// ownerRef resolves the query parameters to a validated owner reference
func (q OwnerQuery) ownerRef() (shared.OwnerRef, error) {
	id, err := uuid.Parse(q.OwnerID)
	if err != nil {
		return shared.OwnerRef{}, err
	}
	return shared.NewOwnerRef(shared.OwnerKind(q.OwnerType), id)
}

// BankAccountHandler handles bank account endpoints
type BankAccountHandler struct {
	BaseHandler
	bankAccountService *bankingapp.BankAccountService
}

// NewBankAccountHandler creates a new BankAccountHandler
func NewBankAccountHandler(bankAccountService *bankingapp.BankAccountService) *BankAccountHandler {
	return &BankAccountHandler{
		bankAccountService: bankAccountService,
	}
}

// Create attaches a bank account to a mandate or fund
func (h *BankAccountHandler) Create(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req bankingapp.SaveBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.bankAccountService.Create(c.Request.Context(), actor, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// ListByOwner lists the bank accounts of a mandate or fund
func (h *BankAccountHandler) ListByOwner(c *gin.Context) {
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

	accounts, err := h.bankAccountService.ListByOwner(c.Request.Context(), actor, owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}

// Update replaces a bank account's details
func (h *BankAccountHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bank account ID format")
		return
	}

	var req bankingapp.SaveBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.bankAccountService.Update(c.Request.Context(), actor, accountID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, account)
}

// Delete removes a bank account
func (h *BankAccountHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bank account ID format")
		return
	}

	if err := h.bankAccountService.Delete(c.Request.Context(), actor, accountID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
