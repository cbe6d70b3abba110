package contact

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	appcascade "github.com/rmcsharry/hq-api/internal/application/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ContactService handles contact business operations. Mutations run in a
// unit of work so the row and its version record commit together.
type ContactService struct {
	contactRepo contact.Repository
	authorizer  *authorization.Authorizer
	recorder    *appaudit.Recorder
	deleter     *appcascade.Service
	uow         shared.UnitOfWork
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo contact.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, deleter *appcascade.Service, uow shared.UnitOfWork) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		authorizer:  authorizer,
		recorder:    recorder,
		deleter:     deleter,
		uow:         uow,
	}
}

// Create creates a person or organization contact
func (s *ContactService) Create(ctx context.Context, actor authz.Actor, req CreateContactRequest) (*ContactResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindContact}); err != nil {
		return nil, err
	}

	var (
		c   *contact.Contact
		err error
	)
	switch contact.ContactType(req.ContactType) {
	case contact.TypePerson:
		c, err = contact.NewPerson(req.FirstName, req.LastName, contact.Gender(req.Gender))
	case contact.TypeOrganization:
		c, err = contact.NewOrganization(req.OrganizationName, req.OrganizationType)
	default:
		return nil, shared.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	c.Comment = req.Comment
	if c.IsPerson() {
		c.DateOfBirth = req.DateOfBirth
		c.Nationality = req.Nationality
		c.Profession = req.Profession
		c.MaritalState = req.MaritalState
		c.HealthInsured = req.HealthInsured
		c.CareInsured = req.CareInsured
	} else {
		c.OrganizationCategory = req.OrganizationCategory
		c.CommercialRegister = req.CommercialRegister
		c.VATNumber = req.VATNumber
		c.LEI = req.LEI
	}
	if err := c.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.contactRepo.Save(ctx, c); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Contact", c.ID, actorID(actor), contactSnapshot(c), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, actor authz.Actor, contactID uuid.UUID) (*ContactResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindContact, ID: contactID}); err != nil {
		return nil, err
	}
	c, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	response := ToContactResponse(c)
	return &response, nil
}

// List retrieves contacts with filtering and pagination
func (s *ContactService) List(ctx context.Context, actor authz.Actor, filter ContactListFilter) ([]ContactResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindContact}); err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "last_name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.ContactType != "" {
		domainFilter.Filters["contact_type"] = filter.ContactType
	}

	contacts, total, err := s.contactRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToContactResponses(contacts), total, nil
}

// Update modifies a contact
func (s *ContactService) Update(ctx context.Context, actor authz.Actor, contactID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindContact, ID: contactID}); err != nil {
		return nil, err
	}
	c, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}
	before := contactSnapshot(c)

	if req.Comment != nil {
		c.Comment = *req.Comment
	}
	if req.FirstName != nil {
		c.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		c.LastName = *req.LastName
	}
	if req.Gender != nil {
		c.Gender = contact.Gender(*req.Gender)
	}
	if req.DateOfBirth != nil {
		c.DateOfBirth = req.DateOfBirth
	}
	if req.DateOfDeath != nil {
		c.DateOfDeath = req.DateOfDeath
	}
	if req.Nationality != nil {
		c.Nationality = *req.Nationality
	}
	if req.Profession != nil {
		c.Profession = *req.Profession
	}
	if req.MaritalState != nil {
		c.MaritalState = *req.MaritalState
	}
	if req.HealthInsured != nil {
		c.HealthInsured = req.HealthInsured
	}
	if req.CareInsured != nil {
		c.CareInsured = req.CareInsured
	}
	if req.OrganizationName != nil {
		c.OrganizationName = *req.OrganizationName
	}
	if req.OrganizationType != nil {
		c.OrganizationType = *req.OrganizationType
	}
	if req.OrganizationCategory != nil {
		c.OrganizationCategory = *req.OrganizationCategory
	}
	if req.CommercialRegister != nil {
		c.CommercialRegister = *req.CommercialRegister
	}
	if req.VATNumber != nil {
		c.VATNumber = *req.VATNumber
	}
	if req.LEI != nil {
		c.LEI = *req.LEI
	}

	if err := c.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.contactRepo.Save(ctx, c); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Contact", c.ID, actorID(actor), before, contactSnapshot(c), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(c)
	return &response, nil
}

// Delete removes a contact and its dependents per the deletion policy.
// Contacts still referenced as mandate members or investors are restricted
// and cannot be deleted.
func (s *ContactService) Delete(ctx context.Context, actor authz.Actor, contactID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindContact, ID: contactID}); err != nil {
		return err
	}
	c, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.deleter.Delete(ctx, cascade.Ref{Entity: "Contact", ID: contactID}); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Contact", c.ID, actorID(actor), contactSnapshot(c), nil)
	})
}

func contactSnapshot(c *contact.Contact) audit.Snapshot {
	snap := audit.Snapshot{
		"contact_type": c.ContactType.String(),
		"comment":      c.Comment,
	}
	if c.IsPerson() {
		snap["first_name"] = c.FirstName
		snap["last_name"] = c.LastName
		snap["gender"] = string(c.Gender)
		snap["nationality"] = c.Nationality
		snap["profession"] = c.Profession
		snap["marital_state"] = c.MaritalState
	} else {
		snap["organization_name"] = c.OrganizationName
		snap["organization_type"] = c.OrganizationType
		snap["organization_category"] = c.OrganizationCategory
		snap["commercial_register"] = c.CommercialRegister
		snap["vat_number"] = c.VATNumber
		snap["lei"] = c.LEI
	}
	return snap
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func contactParent(contactID uuid.UUID) *audit.ParentRef {
	return &audit.ParentRef{ItemType: "Contact", ItemID: contactID}
}
