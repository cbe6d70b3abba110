package fund

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CashflowState is the lifecycle state of an investor cashflow
type CashflowState string

const (
	CashflowOpen     CashflowState = "open"
	CashflowFinished CashflowState = "finished"
)

// IsValid checks if the state is a known CashflowState
func (s CashflowState) IsValid() bool {
	return s == CashflowOpen || s == CashflowFinished
}

// String returns the string representation of CashflowState
func (s CashflowState) String() string {
	return string(s)
}

// InvestorCashflow is one investor's share of a fund cashflow: capital
// calls and distributions. The referenced investor must be signed and
// belong to the cashflow's fund.
type InvestorCashflow struct {
	shared.BaseEntity
	FundCashflowID        uuid.UUID
	InvestorID            uuid.UUID
	State                 CashflowState
	CapitalCallTotal      decimal.Decimal
	DistributionTotal     decimal.Decimal
	DistributionDividends decimal.Decimal
	DistributionInterest  decimal.Decimal
}

// LineAmounts are the monetary components of one investor cashflow line.
// Distribution is the total paid out; Dividends and Interest break part of
// that total down and cannot exceed it together.
type LineAmounts struct {
	CapitalCall  decimal.Decimal
	Distribution decimal.Decimal
	Dividends    decimal.Decimal
	Interest     decimal.Decimal
}

func (a LineAmounts) validate(errs *shared.ValidationErrors) {
	if a.CapitalCall.IsNegative() || a.Distribution.IsNegative() || a.Dividends.IsNegative() || a.Interest.IsNegative() {
		errs.Add("amounts", "RANGE", "cashflow amounts cannot be negative")
		return
	}
	if a.Dividends.Add(a.Interest).GreaterThan(a.Distribution) {
		errs.Add("amounts", "COMPONENTS_EXCEED_TOTAL", "dividends and interest cannot exceed the distribution total")
	}
}

// NewInvestorCashflow creates an open investor cashflow line. The investor
// aggregate is passed so the signing and fund invariants can be checked at
// construction.
func NewInvestorCashflow(fundCashflow *FundCashflow, investor *Investor, amounts LineAmounts) (*InvestorCashflow, error) {
	errs := shared.NewValidationErrors()
	if investor == nil {
		errs.AddRequired("investor")
		return nil, errs
	}
	if !investor.IsSigned() {
		errs.Add("investor", "NOT_SIGNED", "investor must be signed before cashflows can reference it")
	}
	if investor.FundID != fundCashflow.FundID {
		errs.Add("investor", "FUND_MISMATCH", "investor must belong to the cashflow's fund")
	}
	amounts.validate(errs)
	if errs.HasErrors() {
		return nil, errs
	}
	return &InvestorCashflow{
		BaseEntity:            shared.NewBaseEntity(),
		FundCashflowID:        fundCashflow.ID,
		InvestorID:            investor.ID,
		State:                 CashflowOpen,
		CapitalCallTotal:      amounts.CapitalCall,
		DistributionTotal:     amounts.Distribution,
		DistributionDividends: amounts.Dividends,
		DistributionInterest:  amounts.Interest,
	}, nil
}

// Finish transitions the cashflow to finished
func (c *InvestorCashflow) Finish() error {
	if c.State != CashflowOpen {
		return shared.ErrInvalidTransition
	}
	c.State = CashflowFinished
	c.UpdatedAt = time.Now()
	return nil
}

// NetAmount is distribution minus capital call for this line
func (c *InvestorCashflow) NetAmount() decimal.Decimal {
	return c.DistributionTotal.Sub(c.CapitalCallTotal)
}

// FundCashflow aggregates the per-investor cashflow lines of one valuta
// date. It is created with all its lines in a single transaction: either
// the whole batch persists or none of it does.
type FundCashflow struct {
	shared.BaseAggregateRoot
	FundID     uuid.UUID
	Number     int
	ValutaDate time.Time
	Cashflows  []InvestorCashflow
}

// NewFundCashflow creates an empty cashflow batch for a fund
func NewFundCashflow(fundID uuid.UUID, number int, valutaDate time.Time) (*FundCashflow, error) {
	if fundID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_FUND", "Fund ID cannot be empty")
	}
	if number < 1 {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Cashflow number must be positive")
	}
	return &FundCashflow{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FundID:            fundID,
		Number:            number,
		ValutaDate:        valutaDate,
		Cashflows:         make([]InvestorCashflow, 0),
	}, nil
}

// AddLine creates and appends an investor cashflow line
func (f *FundCashflow) AddLine(investor *Investor, amounts LineAmounts) (*InvestorCashflow, error) {
	for _, line := range f.Cashflows {
		if investor != nil && line.InvestorID == investor.ID {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Investor already has a line in this cashflow")
		}
	}
	line, err := NewInvestorCashflow(f, investor, amounts)
	if err != nil {
		return nil, err
	}
	f.Cashflows = append(f.Cashflows, *line)
	f.UpdatedAt = time.Now()
	return line, nil
}

// NetCashflowAmount is the batch total: distributions minus capital calls
func (f *FundCashflow) NetCashflowAmount() decimal.Decimal {
	total := decimal.Zero
	for _, line := range f.Cashflows {
		total = total.Add(line.NetAmount())
	}
	return total
}
