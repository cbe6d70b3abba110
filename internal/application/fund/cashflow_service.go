package fund

import (
	"context"

	"github.com/google/uuid"
	appaudit "github.com/rmcsharry/hq-api/internal/application/audit"
	"github.com/rmcsharry/hq-api/internal/application/authorization"
	"github.com/rmcsharry/hq-api/internal/domain/audit"
	"github.com/rmcsharry/hq-api/internal/domain/authz"
	"github.com/rmcsharry/hq-api/internal/domain/fund"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// CashflowService handles cashflow batch operations. Every mutation runs in
// a unit of work: the batch, its investor lines and the version records
// commit together or not at all.
type CashflowService struct {
	cashflowRepo fund.CashflowRepository
	investorRepo fund.InvestorRepository
	fundRepo     fund.Repository
	authorizer   *authorization.Authorizer
	recorder     *appaudit.Recorder
	uow          shared.UnitOfWork
}

// NewCashflowService creates a new CashflowService
func NewCashflowService(cashflowRepo fund.CashflowRepository, investorRepo fund.InvestorRepository, fundRepo fund.Repository, authorizer *authorization.Authorizer, recorder *appaudit.Recorder, uow shared.UnitOfWork) *CashflowService {
	return &CashflowService{
		cashflowRepo: cashflowRepo,
		investorRepo: investorRepo,
		fundRepo:     fundRepo,
		authorizer:   authorizer,
		recorder:     recorder,
		uow:          uow,
	}
}

// Create records a cashflow batch for a fund. Every line must reference a
// signed investor of the fund; one bad line rejects the whole batch.
func (s *CashflowService) Create(ctx context.Context, actor authz.Actor, fundID uuid.UUID, req CreateCashflowRequest) (*CashflowResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindFundCashflow}); err != nil {
		return nil, err
	}
	f, err := s.fundRepo.FindByID(ctx, fundID)
	if err != nil {
		return nil, err
	}

	batch, err := fund.NewFundCashflow(f.ID, req.Number, req.ValutaDate)
	if err != nil {
		return nil, err
	}

	err = s.uow.Run(ctx, func(ctx context.Context) error {
		for _, lineReq := range req.Lines {
			investor, err := s.investorRepo.FindByID(ctx, lineReq.InvestorID)
			if err != nil {
				return err
			}
			amounts := fund.LineAmounts{
				CapitalCall:  lineReq.CapitalCall,
				Distribution: lineReq.Distribution,
				Dividends:    lineReq.DistributionDividends,
				Interest:     lineReq.DistributionInterest,
			}
			if _, err := batch.AddLine(investor, amounts); err != nil {
				return err
			}
		}
		if err := s.cashflowRepo.Save(ctx, batch); err != nil {
			return err
		}
		if err := s.recorder.Created(ctx, "FundCashflow", batch.ID, actorID(actor), cashflowSnapshot(batch), fundParent(f.ID)); err != nil {
			return err
		}
		for i := range batch.Cashflows {
			line := &batch.Cashflows[i]
			if err := s.recorder.Created(ctx, "InvestorCashflow", line.ID, actorID(actor), lineSnapshot(line), fundParent(f.ID)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToCashflowResponse(batch)
	return &response, nil
}

// GetByID retrieves a cashflow batch with its lines
func (s *CashflowService) GetByID(ctx context.Context, actor authz.Actor, cashflowID uuid.UUID) (*CashflowResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindFundCashflow, ID: cashflowID}); err != nil {
		return nil, err
	}
	batch, err := s.cashflowRepo.FindByID(ctx, cashflowID)
	if err != nil {
		return nil, err
	}
	response := ToCashflowResponse(batch)
	return &response, nil
}

// ListByFund returns a fund's cashflow batches
func (s *CashflowService) ListByFund(ctx context.Context, actor authz.Actor, fundID uuid.UUID, filter shared.Filter) ([]CashflowResponse, int64, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionRead, authz.Resource{Kind: authz.KindFundCashflow}); err != nil {
		return nil, 0, err
	}
	batches, total, err := s.cashflowRepo.FindByFund(ctx, fundID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToCashflowResponses(batches), total, nil
}

// FinishLine marks one investor line as finished
func (s *CashflowService) FinishLine(ctx context.Context, actor authz.Actor, lineID uuid.UUID) (*CashflowLineResponse, error) {
	if err := s.authorizer.Ensure(actor, authz.ActionWrite, authz.Resource{Kind: authz.KindInvestorCashflow, ID: lineID}); err != nil {
		return nil, err
	}
	line, err := s.cashflowRepo.FindLineByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	batch, err := s.cashflowRepo.FindByID(ctx, line.FundCashflowID)
	if err != nil {
		return nil, err
	}
	before := lineSnapshot(line)
	if err := line.Finish(); err != nil {
		return nil, err
	}
	err = s.uow.Run(ctx, func(ctx context.Context) error {
		if err := s.cashflowRepo.SaveLine(ctx, line); err != nil {
			return err
		}
		return s.recorder.Updated(ctx, "InvestorCashflow", line.ID, actorID(actor), before, lineSnapshot(line), fundParent(batch.FundID))
	})
	if err != nil {
		return nil, err
	}
	response := ToCashflowLineResponse(line)
	return &response, nil
}

func cashflowSnapshot(c *fund.FundCashflow) audit.Snapshot {
	return audit.Snapshot{
		"fund_id":     c.FundID.String(),
		"number":      c.Number,
		"valuta_date": c.ValutaDate,
		"net_amount":  c.NetCashflowAmount().String(),
	}
}

func lineSnapshot(line *fund.InvestorCashflow) audit.Snapshot {
	return audit.Snapshot{
		"investor_id":            line.InvestorID.String(),
		"state":                  line.State.String(),
		"capital_call_total":     line.CapitalCallTotal.String(),
		"distribution_total":     line.DistributionTotal.String(),
		"distribution_dividends": line.DistributionDividends.String(),
		"distribution_interest":  line.DistributionInterest.String(),
	}
}
