package fund

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Repository provides access to funds
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Fund, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Fund, int64, error)
	Save(ctx context.Context, fund *Fund) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// InvestorRepository provides access to fund investors
type InvestorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Investor, error)
	FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*Investor, int64, error)
	Save(ctx context.Context, investor *Investor) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CashflowRepository provides access to fund cashflow batches, including
// their investor lines.
type CashflowRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FundCashflow, error)
	FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*FundCashflow, int64, error)
	FindLineByID(ctx context.Context, id uuid.UUID) (*InvestorCashflow, error)
	Save(ctx context.Context, cashflow *FundCashflow) error
	SaveLine(ctx context.Context, line *InvestorCashflow) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReportRepository provides access to fund reports
type ReportRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FundReport, error)
	FindByFund(ctx context.Context, fundID uuid.UUID, filter shared.Filter) ([]*FundReport, int64, error)
	Save(ctx context.Context, report *FundReport) error
	Delete(ctx context.Context, id uuid.UUID) error
}
