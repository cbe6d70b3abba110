package fund

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmcsharry/hq-api/internal/domain/fund"
)

// =============================================================================
// Fund DTOs
// =============================================================================

// CreateFundRequest represents a request to create a fund
type CreateFundRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	FundType    string `json:"fund_type" binding:"required,max=100"`
	Currency    string `json:"currency" binding:"required,len=3"`
	IssuingYear int    `json:"issuing_year" binding:"required"`
	Company     string `json:"company"`
	Comment     string `json:"comment"`
}

// UpdateFundRequest represents a request to update a fund
type UpdateFundRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	FundType    *string `json:"fund_type" binding:"omitempty,min=1,max=100"`
	Currency    *string `json:"currency" binding:"omitempty,len=3"`
	IssuingYear *int    `json:"issuing_year"`
	Company     *string `json:"company"`
	Comment     *string `json:"comment"`
}

// FundResponse represents a fund in API responses
type FundResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	FundType    string    `json:"fund_type"`
	State       string    `json:"state"`
	Currency    string    `json:"currency"`
	IssuingYear int       `json:"issuing_year"`
	Company     string    `json:"company"`
	Comment     string    `json:"comment"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FundListFilter represents fund list query parameters
type FundListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search   string `form:"search"`
	State    string `form:"state" binding:"omitempty,oneof=open closed"`
	FundType string `form:"fund_type"`
}

// ToFundResponse converts a domain fund to its response form
func ToFundResponse(f *fund.Fund) FundResponse {
	return FundResponse{
		ID:          f.ID,
		Name:        f.Name,
		FundType:    f.FundType,
		State:       f.State.String(),
		Currency:    f.Currency,
		IssuingYear: f.IssuingYear,
		Company:     f.Company,
		Comment:     f.Comment,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// ToFundResponses converts a slice of domain funds
func ToFundResponses(funds []*fund.Fund) []FundResponse {
	responses := make([]FundResponse, len(funds))
	for i, f := range funds {
		responses[i] = ToFundResponse(f)
	}
	return responses
}

// =============================================================================
// Investor DTOs
// =============================================================================

// CreateInvestorRequest represents a request to add an investor to a fund
type CreateInvestorRequest struct {
	MandateID   uuid.UUID       `json:"mandate_id" binding:"required"`
	ContactID   uuid.UUID       `json:"contact_id" binding:"required"`
	AmountTotal decimal.Decimal `json:"amount_total" binding:"required"`
}

// SignInvestorRequest attaches the subscription agreement and signs
type SignInvestorRequest struct {
	FundSubscriptionAgreementID uuid.UUID  `json:"fund_subscription_agreement_id" binding:"required"`
	InvestmentDate              *time.Time `json:"investment_date"`
}

// InvestorResponse represents a fund investor in API responses
type InvestorResponse struct {
	ID                          uuid.UUID       `json:"id"`
	FundID                      uuid.UUID       `json:"fund_id"`
	MandateID                   uuid.UUID       `json:"mandate_id"`
	ContactID                   uuid.UUID       `json:"contact_id"`
	State                       string          `json:"state"`
	AmountTotal                 decimal.Decimal `json:"amount_total"`
	InvestmentDate              *time.Time      `json:"investment_date"`
	FundSubscriptionAgreementID *uuid.UUID      `json:"fund_subscription_agreement_id"`
	CreatedAt                   time.Time       `json:"created_at"`
	UpdatedAt                   time.Time       `json:"updated_at"`
}

// ToInvestorResponse converts a domain investor to its response form
func ToInvestorResponse(i *fund.Investor) InvestorResponse {
	return InvestorResponse{
		ID:                          i.ID,
		FundID:                      i.FundID,
		MandateID:                   i.MandateID,
		ContactID:                   i.ContactID,
		State:                       i.State.String(),
		AmountTotal:                 i.AmountTotal,
		InvestmentDate:              i.InvestmentDate,
		FundSubscriptionAgreementID: i.FundSubscriptionAgreementID,
		CreatedAt:                   i.CreatedAt,
		UpdatedAt:                   i.UpdatedAt,
	}
}

// ToInvestorResponses converts a slice of domain investors
func ToInvestorResponses(investors []*fund.Investor) []InvestorResponse {
	responses := make([]InvestorResponse, len(investors))
	for i, inv := range investors {
		responses[i] = ToInvestorResponse(inv)
	}
	return responses
}

// =============================================================================
// Cashflow DTOs
// =============================================================================

// CashflowLineRequest is one investor's share in a cashflow batch. Dividends
// and interest break down part of the distribution total.
type CashflowLineRequest struct {
	InvestorID            uuid.UUID       `json:"investor_id" binding:"required"`
	CapitalCall           decimal.Decimal `json:"capital_call"`
	Distribution          decimal.Decimal `json:"distribution"`
	DistributionDividends decimal.Decimal `json:"distribution_dividends"`
	DistributionInterest  decimal.Decimal `json:"distribution_interest"`
}

// CreateCashflowRequest represents a request to record a cashflow batch.
// The batch and all its lines persist atomically.
type CreateCashflowRequest struct {
	Number     int                   `json:"number" binding:"required,min=1"`
	ValutaDate time.Time             `json:"valuta_date" binding:"required"`
	Lines      []CashflowLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CashflowLineResponse is one investor line of a cashflow batch
type CashflowLineResponse struct {
	ID                    uuid.UUID       `json:"id"`
	InvestorID            uuid.UUID       `json:"investor_id"`
	State                 string          `json:"state"`
	CapitalCallTotal      decimal.Decimal `json:"capital_call_total"`
	DistributionTotal     decimal.Decimal `json:"distribution_total"`
	DistributionDividends decimal.Decimal `json:"distribution_dividends"`
	DistributionInterest  decimal.Decimal `json:"distribution_interest"`
	NetAmount             decimal.Decimal `json:"net_amount"`
}

// ToCashflowLineResponse converts one investor line to its response form
func ToCashflowLineResponse(line *fund.InvestorCashflow) CashflowLineResponse {
	return CashflowLineResponse{
		ID:                    line.ID,
		InvestorID:            line.InvestorID,
		State:                 line.State.String(),
		CapitalCallTotal:      line.CapitalCallTotal,
		DistributionTotal:     line.DistributionTotal,
		DistributionDividends: line.DistributionDividends,
		DistributionInterest:  line.DistributionInterest,
		NetAmount:             line.NetAmount(),
	}
}

// CashflowResponse represents a cashflow batch in API responses
type CashflowResponse struct {
	ID         uuid.UUID              `json:"id"`
	FundID     uuid.UUID              `json:"fund_id"`
	Number     int                    `json:"number"`
	ValutaDate time.Time              `json:"valuta_date"`
	NetAmount  decimal.Decimal        `json:"net_amount"`
	Lines      []CashflowLineResponse `json:"lines"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// ToCashflowResponse converts a domain cashflow batch to its response form
func ToCashflowResponse(c *fund.FundCashflow) CashflowResponse {
	lines := make([]CashflowLineResponse, len(c.Cashflows))
	for i := range c.Cashflows {
		lines[i] = ToCashflowLineResponse(&c.Cashflows[i])
	}
	return CashflowResponse{
		ID:         c.ID,
		FundID:     c.FundID,
		Number:     c.Number,
		ValutaDate: c.ValutaDate,
		NetAmount:  c.NetCashflowAmount(),
		Lines:      lines,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

// ToCashflowResponses converts a slice of domain cashflow batches
func ToCashflowResponses(cashflows []*fund.FundCashflow) []CashflowResponse {
	responses := make([]CashflowResponse, len(cashflows))
	for i, c := range cashflows {
		responses[i] = ToCashflowResponse(c)
	}
	return responses
}

// =============================================================================
// Fund Report DTOs
// =============================================================================

// CreateReportRequest represents a request to add a fund report
type CreateReportRequest struct {
	ValutaDate  time.Time       `json:"valuta_date" binding:"required"`
	Description string          `json:"description"`
	IRR         decimal.Decimal `json:"irr"`
	TVPI        decimal.Decimal `json:"tvpi"`
	DPI         decimal.Decimal `json:"dpi"`
	RVPI        decimal.Decimal `json:"rvpi"`
}

// ReportResponse represents a fund report in API responses
type ReportResponse struct {
	ID          uuid.UUID       `json:"id"`
	FundID      uuid.UUID       `json:"fund_id"`
	ValutaDate  time.Time       `json:"valuta_date"`
	Description string          `json:"description"`
	IRR         decimal.Decimal `json:"irr"`
	TVPI        decimal.Decimal `json:"tvpi"`
	DPI         decimal.Decimal `json:"dpi"`
	RVPI        decimal.Decimal `json:"rvpi"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToReportResponse converts a domain fund report to its response form
func ToReportResponse(r *fund.FundReport) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		FundID:      r.FundID,
		ValutaDate:  r.ValutaDate,
		Description: r.Description,
		IRR:         r.IRR,
		TVPI:        r.TVPI,
		DPI:         r.DPI,
		RVPI:        r.RVPI,
		CreatedAt:   r.CreatedAt,
	}
}

// ToReportResponses converts a slice of domain fund reports
func ToReportResponses(reports []*fund.FundReport) []ReportResponse {
	responses := make([]ReportResponse, len(reports))
	for i, r := range reports {
		responses[i] = ToReportResponse(r)
	}
	return responses
}
