package contact

import (
	"context"
	"errors"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// TaxDetailService handles the 1:1 tax profile of contacts. The profile is
// created lazily on first save.
type TaxDetailService struct {
	taxRepo    contact.TaxDetailRepository
	authorizer *authorization.Authorizer
	recorder   *appaudit.Recorder
	uow        shared.UnitOfWork
}

// NewTaxDetailService creates a new TaxDetailService
func NewTaxDetailService(taxRepo contact.TaxDetailRepository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *TaxDetailService {
	return &TaxDetailService{
		taxRepo:    taxRepo,
		authorizer: authorizer,
		recorder:   recorder,
		uow:        uow,
	}
}

// GetByContact retrieves a contact's tax profile
func (s *TaxDetailService) GetByContact(ctx context.Context, actor authz.Actor, contactID uuid.UUID) (*TaxDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindTaxDetail}); err != nil {
		return nil, err
	}
	detail, err := s.taxRepo.FindByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	response := ToTaxDetailResponse(detail)
	return &response, nil
}

// Save creates or replaces a contact's tax profile
func (s *TaxDetailService) Save(ctx context.Context, actor authz.Actor, contactID uuid.UUID, req SaveTaxDetailRequest) (*TaxDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindTaxDetail}); err != nil {
		return nil, err
	}

	detail, err := s.taxRepo.FindByContact(ctx, contactID)
	created := false
	if errors.Is(err, shared.ErrNotFound) {
		if detail, err = contact.NewTaxDetail(contactID); err != nil {
			return nil, err
		}
		created = true
	} else if err != nil {
		return nil, err
	}
	before := taxSnapshot(detail)

	detail.TaxIdentification = req.TaxIdentification
	detail.TaxNumber = req.TaxNumber
	detail.TaxOffice = req.TaxOffice
	detail.CommonReporting = req.CommonReporting
	detail.USPerson = req.USPerson
	detail.USTaxNumber = req.USTaxNumber
	detail.ForeignTaxNumbers = detail.ForeignTaxNumbers[:0]
	for _, n := range req.ForeignTaxNumbers {
		if err := detail.AddForeignTaxNumber(n.Country, n.TaxNumber); err != nil {
			return nil, err
		}
	}
	if err := detail.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.taxRepo.Save(ctx, detail); err != nil {
			return err
		}
		if created {
			return s.recorder.Created(ctx, "TaxDetail", detail.ID, actorID(actor), taxSnapshot(detail), contactParent(contactID))
		}
		return s.recorder.Updated(ctx, "TaxDetail", detail.ID, actorID(actor), before, taxSnapshot(detail), contactParent(contactID))
	})
	if err != nil {
		return nil, err
	}

	response := ToTaxDetailResponse(detail)
	return &response, nil
}

func taxSnapshot(d *contact.TaxDetail) audit.Snapshot {
	return audit.Snapshot{
		"tax_identification": d.TaxIdentification,
		"tax_number":         d.TaxNumber,
		"tax_office":         d.TaxOffice,
		"common_reporting":   d.CommonReporting,
		"us_person":          d.USPerson,
		"us_tax_number":      d.USTaxNumber,
	}
}

// ComplianceDetailService handles the 1:1 regulatory profile of contacts
type ComplianceDetailService struct {
	complianceRepo contact.ComplianceDetailRepository
	authorizer     *authorization.Authorizer
	recorder       *appaudit.Recorder
	uow            shared.UnitOfWork
}

// NewComplianceDetailService creates a new ComplianceDetailService
func NewComplianceDetailService(complianceRepo contact.ComplianceDetailRepository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *ComplianceDetailService {
	return &ComplianceDetailService{
		complianceRepo: complianceRepo,
		authorizer:     authorizer,
		recorder:       recorder,
		uow:            uow,
	}
}

// GetByContact retrieves a contact's regulatory profile
func (s *ComplianceDetailService) GetByContact(ctx context.Context, actor authz.Actor, contactID uuid.UUID) (*ComplianceDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindComplianceDetail}); err != nil {
		return nil, err
	}
	detail, err := s.complianceRepo.FindByContact(ctx, contactID)
	if err != nil {
		return nil, err
	}
	response := ToComplianceDetailResponse(detail)
	return &response, nil
}

// Save creates or replaces a contact's regulatory profile
func (s *ComplianceDetailService) Save(ctx context.Context, actor authz.Actor, contactID uuid.UUID, req SaveComplianceDetailRequest) (*ComplianceDetailResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindComplianceDetail}); err != nil {
		return nil, err
	}

	detail, err := s.complianceRepo.FindByContact(ctx, contactID)
	created := false
	if errors.Is(err, shared.ErrNotFound) {
		if detail, err = contact.NewComplianceDetail(contactID); err != nil {
			return nil, err
		}
		created = true
	} else if err != nil {
		return nil, err
	}
	before := complianceSnapshot(detail)

	if req.Wphg != "" {
		detail.Wphg = contact.WphgClassification(req.Wphg)
	}
	detail.WphgValidAt = shared.DateRange{ValidFrom: req.WphgValidFrom, ValidTo: req.WphgValidTo}
	if req.Kagb != "" {
		detail.Kagb = contact.KagbClassification(req.Kagb)
	}
	detail.PoliticallyExposed = req.PoliticallyExposed
	detail.Occupation = req.Occupation
	detail.OccupationRole = req.OccupationRole
	detail.RetirementAge = req.RetirementAge
	if err := detail.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.complianceRepo.Save(ctx, detail); err != nil {
			return err
		}
		if created {
			return s.recorder.Created(ctx, "ComplianceDetail", detail.ID, actorID(actor), complianceSnapshot(detail), contactParent(contactID))
		}
		return s.recorder.Updated(ctx, "ComplianceDetail", detail.ID, actorID(actor), before, complianceSnapshot(detail), contactParent(contactID))
	})
	if err != nil {
		return nil, err
	}

	response := ToComplianceDetailResponse(detail)
	return &response, nil
}

func complianceSnapshot(d *contact.ComplianceDetail) audit.Snapshot {
	return audit.Snapshot{
		"wphg":                string(d.Wphg),
		"kagb":                string(d.Kagb),
		"politically_exposed": d.PoliticallyExposed,
		"occupation":          d.Occupation,
		"occupation_role":     d.OccupationRole,
	}
}
