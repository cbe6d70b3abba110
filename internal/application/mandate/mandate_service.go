package mandate

import (
	"context"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	appcascade "github.com/rmcsharry/hq-api/internal/application/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// MandateService handles mandate business operations
type MandateService struct {
	mandateRepo      mandate.Repository
	mandateGroupRepo identity.MandateGroupRepository
	authorizer       *authorization.Authorizer
	recorder         *appaudit.Recorder
	deleter          *appcascade.Service
	uow              shared.UnitOfWork
}

// NewMandateService creates a new MandateService
func NewMandateService(mandateRepo mandate.Repository, mandateGroupRepo identity.MandateGroupRepository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, deleter *appcascade.Service, uow shared.UnitOfWork) *MandateService {
	return &MandateService{
		mandateRepo:      mandateRepo,
		mandateGroupRepo: mandateGroupRepo,
		authorizer:       authorizer,
		recorder:         recorder,
		deleter:          deleter,
		uow:              uow,
	}
}

// Create creates a mandate with its consultant team, owners and groups
func (s *MandateService) Create(ctx context.Context, actor authz.Actor, req CreateMandateRequest) (*MandateResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindMandate, MandateGroupIDs: req.MandateGroupIDs}); err != nil {
		return nil, err
	}

	m, err := mandate.NewMandate(req.Category)
	if err != nil {
		return nil, err
	}
	m.Comment = req.Comment
	m.Validity = shared.DateRange{ValidFrom: req.ValidFrom, ValidTo: req.ValidTo}
	if err := m.AssignConsultants(req.PrimaryConsultantID, req.SecondaryConsultantID, req.AssistantID, req.BookkeeperID); err != nil {
		return nil, err
	}
	m.SetMandateGroups(req.MandateGroupIDs)
	for _, contactID := range req.Owners {
		if _, err := m.AddMember(contactID, mandate.MemberOwner); err != nil {
			return nil, err
		}
	}

	if err := s.validateGroups(ctx, m); err != nil {
		return nil, err
	}
	if err := m.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.mandateRepo.Save(ctx, m); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Mandate", m.ID, actorID(actor), mandateSnapshot(m), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToMandateResponse(m)
	return &response, nil
}

// GetByID retrieves a mandate, subject to the actor's mandate group scope
func (s *MandateService) GetByID(ctx context.Context, actor authz.Actor, mandateID uuid.UUID) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return nil, err
	}
	response := ToMandateResponse(m)
	return &response, nil
}

// List retrieves the mandates visible to the actor. The result and the
// total count reflect only the permitted set.
func (s *MandateService) List(ctx context.Context, actor authz.Actor, filter MandateListFilter) ([]MandateResponse, int64, error) {
	visibleGroups := s.authorizer.VisibleMandateGroups(actor, authz.ActionRead)
	if visibleGroups != nil && len(visibleGroups) == 0 {
		return []MandateResponse{}, 0, nil
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	mandates, total, err := s.mandateRepo.FindVisible(ctx, visibleGroups, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToMandateResponses(mandates), total, nil
}

// Update modifies a mandate
func (s *MandateService) Update(ctx context.Context, actor authz.Actor, mandateID uuid.UUID, req UpdateMandateRequest) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return nil, err
	}
	before := mandateSnapshot(m)

	if req.Category != nil {
		m.Category = *req.Category
	}
	if req.Comment != nil {
		m.Comment = *req.Comment
	}
	if req.ValidFrom != nil || req.ValidTo != nil {
		validity := m.Validity
		if req.ValidFrom != nil {
			validity.ValidFrom = req.ValidFrom
		}
		if req.ValidTo != nil {
			validity.ValidTo = req.ValidTo
		}
		m.Validity = validity
	}
	if req.PrimaryConsultantID != nil || req.SecondaryConsultantID != nil || req.AssistantID != nil || req.BookkeeperID != nil {
		primary := m.PrimaryConsultantID
		secondary := m.SecondaryConsultantID
		assistant := m.AssistantID
		bookkeeper := m.BookkeeperID
		if req.PrimaryConsultantID != nil {
			primary = req.PrimaryConsultantID
		}
		if req.SecondaryConsultantID != nil {
			secondary = req.SecondaryConsultantID
		}
		if req.AssistantID != nil {
			assistant = req.AssistantID
		}
		if req.BookkeeperID != nil {
			bookkeeper = req.BookkeeperID
		}
		if err := m.AssignConsultants(primary, secondary, assistant, bookkeeper); err != nil {
			return nil, err
		}
	}
	if req.MandateGroupIDs != nil {
		m.SetMandateGroups(*req.MandateGroupIDs)
		if err := s.validateGroups(ctx, m); err != nil {
			return nil, err
		}
	}

	if err := m.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.mandateRepo.Save(ctx, m); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Mandate", m.ID, actorID(actor), before, mandateSnapshot(m), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToMandateResponse(m)
	return &response, nil
}

// BecomeClient transitions the mandate to client. The consultant guard
// failure leaves the mandate unchanged and is reported as a validation
// error list.
func (s *MandateService) BecomeClient(ctx context.Context, actor authz.Actor, mandateID uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, actor, mandateID, func(m *mandate.Mandate) error { return m.BecomeClient() })
}

// Cancel transitions the mandate to cancelled
func (s *MandateService) Cancel(ctx context.Context, actor authz.Actor, mandateID uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, actor, mandateID, func(m *mandate.Mandate) error { return m.Cancel() })
}

// BecomeProspect moves the mandate back to prospect
func (s *MandateService) BecomeProspect(ctx context.Context, actor authz.Actor, mandateID uuid.UUID) (*MandateResponse, error) {
	return s.transition(ctx, actor, mandateID, func(m *mandate.Mandate) error { return m.BecomeProspect() })
}

func (s *MandateService) transition(ctx context.Context, actor authz.Actor, mandateID uuid.UUID, event func(*mandate.Mandate) error) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return nil, err
	}
	before := mandateSnapshot(m)

	if err := event(m); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.mandateRepo.Save(ctx, m); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Mandate", m.ID, actorID(actor), before, mandateSnapshot(m), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToMandateResponse(m)
	return &response, nil
}

// AddMember links a contact to the mandate
func (s *MandateService) AddMember(ctx context.Context, actor authz.Actor, mandateID uuid.UUID, req AddMemberRequest) (*MandateResponse, error) {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return nil, err
	}

	member, err := m.AddMember(req.ContactID, mandate.MemberType(req.MemberType))
	if err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.mandateRepo.Save(ctx, m); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "MandateMember", member.ID, actorID(actor), audit.Snapshot{
			"mandate_id":  member.MandateID.String(),
			"contact_id":  member.ContactID.String(),
			"member_type": string(member.MemberType),
		}, mandateParent(mandateID))
	})
	if err != nil {
		return nil, err
	}

	response := ToMandateResponse(m)
	return &response, nil
}

// RemoveMember removes a membership row from the mandate
func (s *MandateService) RemoveMember(ctx context.Context, actor authz.Actor, mandateID, memberID uuid.UUID) error {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return err
	}
	if err := m.RemoveMember(memberID); err != nil {
		return err
	}
	return s.mandateRepo.Save(ctx, m)
}

// Delete removes a mandate and its dependents per the deletion policy
func (s *MandateService) Delete(ctx context.Context, actor authz.Actor, mandateID uuid.UUID) error {
	m, err := s.mandateRepo.FindByID(ctx, mandateID)
	if err != nil {
		return err
	}
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindMandate, ID: mandateID, MandateGroupIDs: m.MandateGroupIDs}); err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.deleter.Delete(ctx, cascade.Ref{Entity: "Mandate", ID: mandateID}); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Mandate", m.ID, actorID(actor), mandateSnapshot(m), nil)
	})
}

// validateGroups loads the assigned mandate groups and enforces the
// at-least-one-organization-group invariant.
func (s *MandateService) validateGroups(ctx context.Context, m *mandate.Mandate) error {
	groups, err := s.mandateGroupRepo.FindByIDs(ctx, m.MandateGroupIDs)
	if err != nil {
		return err
	}
	groupTypes := make(map[uuid.UUID]identity.MandateGroupType, len(groups))
	for _, g := range groups {
		groupTypes[g.ID] = g.GroupType
	}
	return m.ValidateGroups(groupTypes).ErrOrNil()
}

func mandateSnapshot(m *mandate.Mandate) audit.Snapshot {
	return audit.Snapshot{
		"category":                m.Category,
		"comment":                 m.Comment,
		"state":                   m.State.String(),
		"primary_consultant_id":   uuidOrNil(m.PrimaryConsultantID),
		"secondary_consultant_id": uuidOrNil(m.SecondaryConsultantID),
		"assistant_id":            uuidOrNil(m.AssistantID),
		"bookkeeper_id":           uuidOrNil(m.BookkeeperID),
	}
}

func mandateParent(mandateID uuid.UUID) *audit.ParentRef {
	return &audit.ParentRef{ItemType: "Mandate", ItemID: mandateID}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}

func uuidOrNil(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
