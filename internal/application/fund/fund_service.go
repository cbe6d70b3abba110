package fund

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	appcascade "github.com/rmcsharry/hq-api/internal/application/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/cascade"
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// FundService handles fund business operations
type FundService struct {
	fundRepo   fund.Repository
	authorizer *authorization.Authorizer
	recorder   *appaudit.Recorder
	deleter    *appcascade.Service
	uow        shared.UnitOfWork
}

// NewFundService creates a new FundService
func NewFundService(fundRepo fund.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, deleter *appcascade.Service, uow shared.UnitOfWork) *FundService {
	return &FundService{
		fundRepo:   fundRepo,
		authorizer: authorizer,
		recorder:   recorder,
		deleter:    deleter,
		uow:        uow,
	}
}

// Create creates a new open fund
func (s *FundService) Create(ctx context.Context, actor authz.Actor, req CreateFundRequest) (*FundResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindFund}); err != nil {
		return nil, err
	}

	f, err := fund.NewFund(req.Name, req.FundType, req.Currency, req.IssuingYear)
	if err != nil {
		return nil, err
	}
	f.Company = req.Company
	f.Comment = req.Comment

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.fundRepo.Save(ctx, f); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Fund", f.ID, actorID(actor), fundSnapshot(f), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToFundResponse(f)
	return &response, nil
}

// GetByID retrieves a fund
func (s *FundService) GetByID(ctx context.Context, actor authz.Actor, fundID uuid.UUID) (*FundResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindFund, ID: fundID}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	response := ToFundResponse(f)
	return &response, nil
}

// List retrieves funds with pagination
func (s *FundService) List(ctx context.Context, actor authz.Actor, filter FundListFilter) ([]FundResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindFund}); err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
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
	if filter.State != "" {
		domainFilter.Filters["state"] = filter.State
	}
	if filter.FundType != "" {
		domainFilter.Filters["fund_type"] = filter.FundType
	}

	funds, total, err := s.fundRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToFundResponses(funds), total, nil
}

// Update modifies a fund
func (s *FundService) Update(ctx context.Context, actor authz.Actor, fundID uuid.UUID, req UpdateFundRequest) (*FundResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindFund, ID: fundID}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	before := fundSnapshot(f)

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.FundType != nil {
		f.FundType = *req.FundType
	}
	if req.Currency != nil {
		f.Currency = *req.Currency
	}
	if req.IssuingYear != nil {
		f.IssuingYear = *req.IssuingYear
	}
	if req.Company != nil {
		f.Company = *req.Company
	}
	if req.Comment != nil {
		f.Comment = *req.Comment
	}
	if err := f.Validate().ErrOrNil(); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.fundRepo.Save(ctx, f); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Fund", f.ID, actorID(actor), before, fundSnapshot(f), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToFundResponse(f)
	return &response, nil
}

// Close closes the fund for new investors
func (s *FundService) Close(ctx context.Context, actor authz.Actor, fundID uuid.UUID) (*FundResponse, error) {
	return s.transition(ctx, actor, fundID, func(f *fund.Fund) error { return f.Close() })
}

// Reopen opens a closed fund again
func (s *FundService) Reopen(ctx context.Context, actor authz.Actor, fundID uuid.UUID) (*FundResponse, error) {
	return s.transition(ctx, actor, fundID, func(f *fund.Fund) error { return f.Reopen() })
}

func (s *FundService) transition(ctx context.Context, actor authz.Actor, fundID uuid.UUID, event func(*fund.Fund) error) (*FundResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindFund, ID: fundID}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	before := fundSnapshot(f)

	if err := event(f); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.fundRepo.Save(ctx, f); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Fund", f.ID, actorID(actor), before, fundSnapshot(f), nil)
	})
	if err != nil {
		return nil, err
	}

	response := ToFundResponse(f)
	return &response, nil
}

// Delete removes a fund and its dependents per the deletion policy. Funds
// with investors or cashflows are protected and cannot be deleted.
func (s *FundService) Delete(ctx context.Context, actor authz.Actor, fundID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindFund, ID: fundID}); err != nil {
		return err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.deleter.Delete(ctx, cascade.Ref{Entity: "Fund", ID: fundID}); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Fund", f.ID, actorID(actor), fundSnapshot(f), nil)
	})
}

func fundSnapshot(f *fund.Fund) audit.Snapshot {
	return audit.Snapshot{
		"name":         f.Name,
		"fund_type":    f.FundType,
		"state":        f.State.String(),
		"currency":     f.Currency,
		"issuing_year": f.IssuingYear,
		"company":      f.Company,
		"comment":      f.Comment,
	}
}

func fundParent(fundID uuid.UUID) *audit.ParentRef {
	return &audit.ParentRef{ItemType: "Fund", ItemID: fundID}
}

func actorID(actor authz.Actor) *uuid.UUID {
	if actor.UserID == uuid.Nil {
		return nil
	}
	id := actor.UserID
	return &id
}
