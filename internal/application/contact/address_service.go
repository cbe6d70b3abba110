package contact

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// AddressService handles addresses and their designation back-references.
// Saving an address with legal_address=true swaps the owner's single
// back-reference to it; false clears the reference only when it currently
// points at this address; nil leaves it alone.
type AddressService struct {
	addressRepo contact.AddressRepository
	contactRepo contact.Repository
	authorizer  *authorization.Authorizer
	recorder    *appaudit.Recorder
	uow         shared.UnitOfWork
}

// NewAddressService creates a new AddressService
func NewAddressService(addressRepo contact.AddressRepository, contactRepo contact.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *AddressService {
	return &AddressService{
		addressRepo: addressRepo,
		contactRepo: contactRepo,
		authorizer:  authorizer,
		recorder:    recorder,
		uow:         uow,
	}
}

// Create creates an address for the given owner
func (s *AddressService) Create(ctx context.Context, actor authz.Actor, owner shared.OwnerRef, req SaveAddressRequest) (*AddressResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindAddress, Owner: &owner}); err != nil {
		return nil, err
	}

	address, err := contact.NewAddress(owner, req.StreetAndNumber, req.PostalCode, req.City, req.Country)
	if err != nil {
		return nil, err
	}
	address.Category = req.Category
	address.Addition = req.Addition
	address.State = req.State

	var owning *contact.Contact
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.addressRepo.Save(ctx, address); err != nil {
			return err
		}
		if err := s.recorder.Created(ctx, "Address", address.ID, actorID(actor), addressSnapshot(address), ownerParent(owner)); err != nil {
			return err
		}
		owning, err = s.applyDesignations(ctx, actor, address, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := toAddressResponse(address, owning)
	return &response, nil
}

// Update modifies an address and re-applies the designation flags
func (s *AddressService) Update(ctx context.Context, actor authz.Actor, addressID uuid.UUID, req SaveAddressRequest) (*AddressResponse, error) {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindAddress, ID: addressID, Owner: &address.Owner}); err != nil {
		return nil, err
	}

	before := addressSnapshot(address)
	if err := address.Update(req.StreetAndNumber, req.PostalCode, req.City, req.State, req.Country, req.Addition); err != nil {
		return nil, err
	}
	address.Category = req.Category

	var owning *contact.Contact
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.addressRepo.Save(ctx, address); err != nil {
			return err
		}
		if err := s.recorder.Updated(ctx, "Address", address.ID, actorID(actor), before, addressSnapshot(address), ownerParent(address.Owner)); err != nil {
			return err
		}
		owning, err = s.applyDesignations(ctx, actor, address, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := toAddressResponse(address, owning)
	return &response, nil
}

// ListByOwner returns the owner's addresses
func (s *AddressService) ListByOwner(ctx context.Context, actor authz.Actor, owner shared.OwnerRef) ([]AddressResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindAddress, Owner: &owner}); err != nil {
		return nil, err
	}
	addresses, err := s.addressRepo.FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	var owning *contact.Contact
	if owner.Kind == shared.OwnerContact {
		if owning, err = s.contactRepo.FindByID(ctx, owner.ID); err != nil {
			return nil, err
		}
	}

	responses := make([]AddressResponse, len(addresses))
	for i, a := range addresses {
		responses[i] = toAddressResponse(a, owning)
	}
	return responses, nil
}

// Delete removes an address. Designation back-references pointing at it
// are cleared first.
func (s *AddressService) Delete(ctx context.Context, actor authz.Actor, addressID uuid.UUID) error {
	address, err := s.addressRepo.FindByID(ctx, addressID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindAddress, ID: addressID, Owner: &address.Owner}); err != nil {
		return err
	}

	return s.uow.Run(ctx, func(ctx context.Context) error {
		if address.Owner.Kind == shared.OwnerContact {
			owning, err := s.contactRepo.FindByID(ctx, address.Owner.ID)
			if err != nil {
				return err
			}
			owning.ClearLegalAddress(addressID)
			owning.ClearPrimaryContactAddress(addressID)
			if err := s.contactRepo.Save(ctx, owning); err != nil {
				return err
			}
		}

		if err := s.addressRepo.Delete(ctx, addressID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Address", address.ID, actorID(actor), addressSnapshot(address), ownerParent(address.Owner))
	})
}

// applyDesignations swaps or clears the contact's designation back-
// references per the request flags and returns the owning contact when
// the owner is one.
func (s *AddressService) applyDesignations(ctx context.Context, actor authz.Actor, address *contact.Address, req SaveAddressRequest) (*contact.Contact, error) {
	if address.Owner.Kind != shared.OwnerContact {
		return nil, nil
	}
	owning, err := s.contactRepo.FindByID(ctx, address.Owner.ID)
	if err != nil {
		return nil, err
	}
	if req.LegalAddress == nil && req.PrimaryContactAddress == nil {
		return owning, nil
	}

	before := designationSnapshot(owning)
	if req.LegalAddress != nil {
		if *req.LegalAddress {
			owning.DesignateLegalAddress(address.ID)
		} else {
			owning.ClearLegalAddress(address.ID)
		}
	}
	if req.PrimaryContactAddress != nil {
		if *req.PrimaryContactAddress {
			owning.DesignatePrimaryContactAddress(address.ID)
		} else {
			owning.ClearPrimaryContactAddress(address.ID)
		}
	}

	if err := s.contactRepo.Save(ctx, owning); err != nil {
		return nil, err
	}
	if err := s.recorder.Updated(ctx, "Contact", owning.ID, actorID(actor), before, designationSnapshot(owning), nil); err != nil {
		return nil, err
	}
	return owning, nil
}

func designationSnapshot(c *contact.Contact) audit.Snapshot {
	return audit.Snapshot{
		"legal_address_id":           uuidOrNil(c.LegalAddressID),
		"primary_contact_address_id": uuidOrNil(c.PrimaryContactAddressID),
	}
}

func addressSnapshot(a *contact.Address) audit.Snapshot {
	return audit.Snapshot{
		"category":          a.Category,
		"addition":          a.Addition,
		"street_and_number": a.StreetAndNum,
		"postal_code":       a.PostalCode,
		"city":              a.City,
		"state":             a.State,
		"country":           a.Country,
	}
}

func toAddressResponse(a *contact.Address, owning *contact.Contact) AddressResponse {
	resp := AddressResponse{
		ID:              a.ID,
		OwnerType:       a.Owner.Kind.String(),
		OwnerID:         a.Owner.ID,
		Category:        a.Category,
		Addition:        a.Addition,
		StreetAndNumber: a.StreetAndNum,
		PostalCode:      a.PostalCode,
		City:            a.City,
		State:           a.State,
		Country:         a.Country,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if owning != nil {
		resp.LegalAddress = owning.LegalAddressID != nil && *owning.LegalAddressID == a.ID
		resp.PrimaryContactAddress = owning.PrimaryContactAddressID != nil && *owning.PrimaryContactAddressID == a.ID
	}
	return resp
}

func ownerParent(owner shared.OwnerRef) *audit.ParentRef {
	return &audit.ParentRef{ItemType: owner.Kind.String(), ItemID: owner.ID}
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}
