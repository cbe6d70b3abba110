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

// DetailService handles contact details (email, phone, fax, website) and
// the primary email/phone designations on the owning contact.
type DetailService struct {
	detailRepo  contact.DetailRepository
	contactRepo contact.Repository
	authorizer  *authorization.Authorizer
	recorder    *appaudit.Recorder
	uow         shared.UnitOfWork
}

// NewDetailService creates a new DetailService
func NewDetailService(detailRepo contact.DetailRepository, contactRepo contact.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *DetailService {
	return &DetailService{
		detailRepo:  detailRepo,
		contactRepo: contactRepo,
		authorizer:  authorizer,
		recorder:    recorder,
		uow:         uow,
	}
}

// Create adds a contact detail, optionally designating it primary
func (s *DetailService) Create(ctx context.Context, actor authz.Actor, contactID uuid.UUID, req SaveContactDetailRequest) (*ContactDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindContactDetail}); err != nil {
		return nil, err
	}

	detail, err := contact.NewContactDetail(contactID, contact.DetailCategory(req.Category), req.Value)
	if err != nil {
		return nil, err
	}
	var primary bool
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.detailRepo.Save(ctx, detail); err != nil {
			return err
		}
		if err := s.recorder.Created(ctx, "ContactDetail", detail.ID, actorID(actor), detailSnapshot(detail), contactParent(contactID)); err != nil {
			return err
		}
		primary, err = s.applyPrimary(ctx, detail, req.Primary)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToContactDetailResponse(detail, primary)
	return &response, nil
}

// ListByContact returns a contact's details
func (s *DetailService) ListByContact(ctx context.Context, actor authz.Actor, contactID uuid.UUID) ([]ContactDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindContactDetail}); err != nil {
		return nil, err
	}
	details, err := s.detailRepo.FindByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	owning, err := s.contactRepo.FindByID(ctx, contactID)
	if err != nil {
		return nil, err
	}

	responses := make([]ContactDetailResponse, len(details))
	for i, d := range details {
		responses[i] = ToContactDetailResponse(d, isPrimary(owning, d))
	}
	return responses, nil
}

// Update modifies a contact detail
func (s *DetailService) Update(ctx context.Context, actor authz.Actor, detailID uuid.UUID, req SaveContactDetailRequest) (*ContactDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindContactDetail, ID: detailID}); err != nil {
		return nil, err
	}
	detail, err := s.detailRepo.FindByID(ctx, detailID)
	if err != nil {
		return nil, err
	}

	before := detailSnapshot(detail)
	detail.Category = contact.DetailCategory(req.Category)
	detail.Value = req.Value
	if err := detail.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	var primary bool
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.detailRepo.Save(ctx, detail); err != nil {
			return err
		}
		if err := s.recorder.Updated(ctx, "ContactDetail", detail.ID, actorID(actor), before, detailSnapshot(detail), contactParent(detail.ContactID)); err != nil {
			return err
		}
		primary, err = s.applyPrimary(ctx, detail, req.Primary)
		return err
	})
	if err != nil {
		return nil, err
	}

	response := ToContactDetailResponse(detail, primary)
	return &response, nil
}

// Delete removes a contact detail, clearing a primary designation that
// points at it.
func (s *DetailService) Delete(ctx context.Context, actor authz.Actor, detailID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindContactDetail, ID: detailID}); err != nil {
		return err
	}
	detail, err := s.detailRepo.FindByID(ctx, detailID)
	if err != nil {
		return err
	}

	return s.uow.Run(ctx, func(ctx context.Context) error {
		owning, err := s.contactRepo.FindByID(ctx, detail.ContactID)
		if err != nil {
			return err
		}
		changed := false
		if owning.PrimaryEmailID != nil && *owning.PrimaryEmailID == detailID {
			owning.PrimaryEmailID = nil
			changed = true
		}
		if owning.PrimaryPhoneID != nil && *owning.PrimaryPhoneID == detailID {
			owning.PrimaryPhoneID = nil
			changed = true
		}
		if changed {
			if err := s.contactRepo.Save(ctx, owning); err != nil {
				return err
			}
		}

		if err := s.detailRepo.Delete(ctx, detailID); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "ContactDetail", detail.ID, actorID(actor), detailSnapshot(detail), contactParent(detail.ContactID))
	})
}

// applyPrimary swaps the contact's primary email/phone back-reference.
// Only email and phone categories carry a designation.
func (s *DetailService) applyPrimary(ctx context.Context, detail *contact.ContactDetail, primary bool) (bool, error) {
	if detail.Category != contact.DetailEmail && detail.Category != contact.DetailPhone {
		return false, nil
	}
	owning, err := s.contactRepo.FindByID(ctx, detail.ContactID)
	if err != nil {
		return false, err
	}

	ref := &owning.PrimaryEmailID
	if detail.Category == contact.DetailPhone {
		ref = &owning.PrimaryPhoneID
	}

	switch {
	case primary:
		id := detail.ID
		*ref = &id
	case *ref != nil && **ref == detail.ID:
		*ref = nil
	default:
		return false, nil
	}
	if err := s.contactRepo.Save(ctx, owning); err != nil {
		return false, err
	}
	return primary, nil
}

func isPrimary(c *contact.Contact, d *contact.ContactDetail) bool {
	switch d.Category {
	case contact.DetailEmail:
		return c.PrimaryEmailID != nil && *c.PrimaryEmailID == d.ID
	case contact.DetailPhone:
		return c.PrimaryPhoneID != nil && *c.PrimaryPhoneID == d.ID
	}
	return false
}

func detailSnapshot(d *contact.ContactDetail) audit.Snapshot {
	return audit.Snapshot{
		"category": string(d.Category),
		"value":    d.Value,
	}
}
