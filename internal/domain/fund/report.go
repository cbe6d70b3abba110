package fund

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// FundReport is a periodic performance report of a fund
type FundReport struct {
	shared.BaseEntity
	FundID      uuid.UUID
	ValutaDate  time.Time
	Description string
	IRR         decimal.Decimal
	TVPI        decimal.Decimal
	DPI         decimal.Decimal
	RVPI        decimal.Decimal
}

// NewFundReport creates a fund report for a valuta date
func NewFundReport(fundID uuid.UUID, valutaDate time.Time, irr, tvpi, dpi, rvpi decimal.Decimal) (*FundReport, error) {
	errs := shared.NewValidationErrors()
	if fundID == uuid.Nil {
		errs.AddRequired("fund")
	}
	if valutaDate.IsZero() {
		errs.AddRequired("valuta_date")
	}
	if tvpi.IsNegative() || dpi.IsNegative() || rvpi.IsNegative() {
		errs.Add("multiples", "RANGE", "tvpi, dpi and rvpi cannot be negative")
	}
	if errs.HasErrors() {
		return nil, errs
	}
	return &FundReport{
		BaseEntity: shared.NewBaseEntity(),
		FundID:     fundID,
		ValutaDate: valutaDate,
		IRR:        irr,
		TVPI:       tvpi,
		DPI:        dpi,
		RVPI:       rvpi,
	}, nil
}
