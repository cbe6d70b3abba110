package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	contactapp "github.com/rmcsharry/hq-api/internal/application/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// AddressHandler handles contact address API endpoints
type AddressHandler struct {
	BaseHandler
	addressService *contactapp.AddressService
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(addressService *contactapp.AddressService) *AddressHandler {
	return &AddressHandler{
		addressService: addressService,
	}
}

// Create adds an address to a contact
func (h *AddressHandler) Create(c *gin.Context) {
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

	var req contactapp.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	owner, err := shared.NewOwnerRef(shared.OwnerContact, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	address, err := h.addressService.Create(c.Request.Context(), actor, owner, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, address)
}

// ListByContact lists a contact's addresses
func (h *AddressHandler) ListByContact(c *gin.Context) {
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

	owner, err := shared.NewOwnerRef(shared.OwnerContact, contactID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	addresses, err := h.addressService.ListByOwner(c.Request.Context(), actor, owner)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, addresses)
}

// Update updates an address, including its legal/primary designations
func (h *AddressHandler) Update(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid address ID format")
		return
	}

	var req contactapp.SaveAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	address, err := h.addressService.Update(c.Request.Context(), actor, addressID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, address)
}

// Delete removes an address. Addresses designated as a contact's legal or
// primary address are refused.
func (h *AddressHandler) Delete(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		h.Unauthorized(c, "Authentication required")
		return
	}

	addressID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid address ID format")
		return
	}

	if err := h.addressService.Delete(c.Request.Context(), actor, addressID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
