package fund

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
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// InvestorService handles fund participation operations
type InvestorService struct {
	investorRepo fund.InvestorRepository
	fundRepo     fund.Repository
	authorizer   *authorization.Authorizer
	recorder     *appaudit.Recorder
	deleter      *appcascade.Service
	uow          shared.UnitOfWork
}

// NewInvestorService creates a new InvestorService
func NewInvestorService(investorRepo fund.InvestorRepository, fundRepo fund.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, deleter *appcascade.Service, uow shared.UnitOfWork) *InvestorService {
	return &InvestorService{
		investorRepo: investorRepo,
		fundRepo:     fundRepo,
		authorizer:   authorizer,
		recorder:     recorder,
		deleter:      deleter,
		uow:          uow,
	}
}

// Create adds an investor to an open fund. Closed funds do not accept new
// investors.
func (s *InvestorService) Create(ctx context.Context, actor authz.Actor, fundID uuid.UUID, req CreateInvestorRequest) (*InvestorResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindInvestor}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}
	if !f.AcceptsInvestors() {
		return nil, shared.NewDomainError("FUND_CLOSED", "Fund is closed for new investors")
	}

	investor, err := fund.NewInvestor(f.ID, req.MandateID, req.ContactID, req.AmountTotal)
	if err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.investorRepo.Save(ctx, investor); err != nil {
			return err
		}
		return s.recorder.Created(ctx, "Investor", investor.ID, actorID(actor), investorSnapshot(investor), fundParent(f.ID))
	})
	if err != nil {
		return nil, err
	}

	response := ToInvestorResponse(investor)
	return &response, nil
}

// GetByID retrieves an investor
func (s *InvestorService) GetByID(ctx context.Context, actor authz.Actor, investorID uuid.UUID) (*InvestorResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindInvestor, ID: investorID}); err != nil {
		return nil, err
	}
	investor, err := s.investorRepo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	response := ToInvestorResponse(investor)
	return &response, nil
}

// ListByFund returns a fund's investors
func (s *InvestorService) ListByFund(ctx context.Context, actor authz.Actor, fundID uuid.UUID, filter shared.Filter) ([]InvestorResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindInvestor}); err != nil {
		return nil, 0, err
	}
	investors, total, err := s.investorRepo.FindByFund(ctx, fundID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToInvestorResponses(investors), total, nil
}

// Sign attaches the subscription agreement document and transitions the
// investor to signed. A signed investor always carries an investment date.
func (s *InvestorService) Sign(ctx context.Context, actor authz.Actor, investorID uuid.UUID, req SignInvestorRequest) (*InvestorResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindInvestor, ID: investorID}); err != nil {
		return nil, err
	}
	investor, err := s.investorRepo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	before := investorSnapshot(investor)

	if err := investor.AttachSubscriptionAgreement(req.FundSubscriptionAgreementID); err != nil {
		return nil, err
	}
	if req.InvestmentDate != nil {
		investor.InvestmentDate = req.InvestmentDate
	}
	if err := investor.Sign(time.Now()); err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.investorRepo.Save(ctx, investor); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "Investor", investor.ID, actorID(actor), before, investorSnapshot(investor), fundParent(investor.FundID))
	})
	if err != nil {
		return nil, err
	}

	response := ToInvestorResponse(investor)
	return &response, nil
}

// Delete removes an investor. Investors with cashflow lines are protected
// by the deletion policy.
func (s *InvestorService) Delete(ctx context.Context, actor authz.Actor, investorID uuid.UUID) error {
	if err := s.authorizer.Ensure(actor, authz.ActionDestroy, authz.Resource{Kind: authz.KindInvestor, ID: investorID}); err != nil {
		return err
	}
	investor, err := s.investorRepo.FindByID(ctx, investorID)
	if err != nil {
		return err
	}
	return s.uow.Run(ctx, func(ctx context.Context) error {
		if _, err := s.deleter.Delete(ctx, cascade.Ref{Entity: "Investor", ID: investorID}); err != nil {
			return err
		}
		return s.recorder.Destroyed(ctx, "Investor", investor.ID, actorID(actor), investorSnapshot(investor), fundParent(investor.FundID))
	})
}

func investorSnapshot(i *fund.Investor) audit.Snapshot {
	return audit.Snapshot{
		"fund_id":         i.FundID.String(),
		"mandate_id":      i.MandateID.String(),
		"contact_id":      i.ContactID.String(),
		"state":           i.State.String(),
		"amount_total":    i.AmountTotal.String(),
		"investment_date": timeOrNil(i.InvestmentDate),
	}
}

func timeOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
