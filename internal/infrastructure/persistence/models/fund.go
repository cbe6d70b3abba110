package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rmcsharry/hq-api/internal/domain/fund"
)

// FundModel is the persistence model for the Fund aggregate root.
type FundModel struct {
	AggregateModel
	Name           string     `gorm:"type:varchar(200);not null;index"`
	FundType       string     `gorm:"type:varchar(50);not null;index"`
	State          fund.State `gorm:"type:varchar(20);not null;index"`
	Currency       string     `gorm:"type:varchar(3);not null"`
	IssuingYear    int        `gorm:"not null"`
	Company        string     `gorm:"type:varchar(200)"`
	Comment        string     `gorm:"type:text"`
	LegalAddressID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (FundModel) TableName() string {
	return "funds"
}

// ToDomain converts the persistence model to a domain Fund entity.
func (m *FundModel) ToDomain() *fund.Fund {
	return &fund.Fund{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		FundType:          m.FundType,
		State:             m.State,
		Currency:          m.Currency,
		IssuingYear:       m.IssuingYear,
		Company:           m.Company,
		Comment:           m.Comment,
		LegalAddressID:    m.LegalAddressID,
	}
}

// FromDomain populates the persistence model from a domain Fund entity.
func (m *FundModel) FromDomain(f *fund.Fund) {
	m.FromDomainAggregateRoot(f.BaseAggregateRoot)
	m.Name = f.Name
	m.FundType = f.FundType
	m.State = f.State
	m.Currency = f.Currency
	m.IssuingYear = f.IssuingYear
	m.Company = f.Company
	m.Comment = f.Comment
	m.LegalAddressID = f.LegalAddressID
}

// FundModelFromDomain creates a new persistence model from a domain Fund entity.
func FundModelFromDomain(f *fund.Fund) *FundModel {
	m := &FundModel{}
	m.FromDomain(f)
	return m
}

// InvestorModel is the persistence model for the Investor aggregate root.
type InvestorModel struct {
	AggregateModel
	FundID         uuid.UUID          `gorm:"type:uuid;not null;index"`
	MandateID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ContactID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	State          fund.InvestorState `gorm:"type:varchar(20);not null;index"`
	AmountTotal    decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	InvestmentDate *time.Time

	FundSubscriptionAgreementID *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InvestorModel) TableName() string {
	return "investors"
}

// ToDomain converts the persistence model to a domain Investor entity.
func (m *InvestorModel) ToDomain() *fund.Investor {
	return &fund.Investor{
		BaseAggregateRoot:           m.ToDomainAggregateRoot(),
		FundID:                      m.FundID,
		MandateID:                   m.MandateID,
		ContactID:                   m.ContactID,
		State:                       m.State,
		AmountTotal:                 m.AmountTotal,
		InvestmentDate:              m.InvestmentDate,
		FundSubscriptionAgreementID: m.FundSubscriptionAgreementID,
	}
}

// FromDomain populates the persistence model from a domain Investor entity.
func (m *InvestorModel) FromDomain(inv *fund.Investor) {
	m.FromDomainAggregateRoot(inv.BaseAggregateRoot)
	m.FundID = inv.FundID
	m.MandateID = inv.MandateID
	m.ContactID = inv.ContactID
	m.State = inv.State
	m.AmountTotal = inv.AmountTotal
	m.InvestmentDate = inv.InvestmentDate
	m.FundSubscriptionAgreementID = inv.FundSubscriptionAgreementID
}

// InvestorModelFromDomain creates a new persistence model from a domain Investor entity.
func InvestorModelFromDomain(inv *fund.Investor) *InvestorModel {
	m := &InvestorModel{}
	m.FromDomain(inv)
	return m
}

// FundCashflowModel is the persistence model for the FundCashflow
// aggregate root. Per-investor lines are child rows loaded with the batch.
type FundCashflowModel struct {
	AggregateModel
	FundID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cashflow_fund_number,priority:1"`
	Number     int       `gorm:"not null;uniqueIndex:idx_cashflow_fund_number,priority:2"`
	ValutaDate time.Time `gorm:"not null;index"`

	Cashflows []InvestorCashflowModel `gorm:"foreignKey:FundCashflowID;references:ID"`
}

// TableName returns the table name for GORM
func (FundCashflowModel) TableName() string {
	return "fund_cashflows"
}

// ToDomain converts the persistence model to a domain FundCashflow entity.
func (m *FundCashflowModel) ToDomain() *fund.FundCashflow {
	cf := &fund.FundCashflow{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FundID:            m.FundID,
		Number:            m.Number,
		ValutaDate:        m.ValutaDate,
		Cashflows:         make([]fund.InvestorCashflow, len(m.Cashflows)),
	}
	for i, line := range m.Cashflows {
		cf.Cashflows[i] = *line.ToDomain()
	}
	return cf
}

// FromDomain populates the persistence model from a domain FundCashflow entity.
func (m *FundCashflowModel) FromDomain(cf *fund.FundCashflow) {
	m.FromDomainAggregateRoot(cf.BaseAggregateRoot)
	m.FundID = cf.FundID
	m.Number = cf.Number
	m.ValutaDate = cf.ValutaDate
	m.Cashflows = make([]InvestorCashflowModel, len(cf.Cashflows))
	for i, line := range cf.Cashflows {
		m.Cashflows[i] = *InvestorCashflowModelFromDomain(&line)
	}
}

// FundCashflowModelFromDomain creates a new persistence model from a domain FundCashflow entity.
func FundCashflowModelFromDomain(cf *fund.FundCashflow) *FundCashflowModel {
	m := &FundCashflowModel{}
	m.FromDomain(cf)
	return m
}

// InvestorCashflowModel is the persistence model for a single investor's
// line within a cashflow batch.
type InvestorCashflowModel struct {
	BaseModel
	FundCashflowID        uuid.UUID          `gorm:"type:uuid;not null;index"`
	InvestorID            uuid.UUID          `gorm:"type:uuid;not null;index"`
	State                 fund.CashflowState `gorm:"type:varchar(20);not null"`
	CapitalCallTotal      decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DistributionTotal     decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DistributionDividends decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
	DistributionInterest  decimal.Decimal    `gorm:"type:decimal(18,2);not null;default:0"`
}

// TableName returns the table name for GORM
func (InvestorCashflowModel) TableName() string {
	return "investor_cashflows"
}

// ToDomain converts the persistence model to a domain InvestorCashflow entity.
func (m *InvestorCashflowModel) ToDomain() *fund.InvestorCashflow {
	return &fund.InvestorCashflow{
		BaseEntity:            m.BaseModel.ToDomain(),
		FundCashflowID:        m.FundCashflowID,
		InvestorID:            m.InvestorID,
		State:                 m.State,
		CapitalCallTotal:      m.CapitalCallTotal,
		DistributionTotal:     m.DistributionTotal,
		DistributionDividends: m.DistributionDividends,
		DistributionInterest:  m.DistributionInterest,
	}
}

// InvestorCashflowModelFromDomain creates a new persistence model from a domain InvestorCashflow entity.
func InvestorCashflowModelFromDomain(line *fund.InvestorCashflow) *InvestorCashflowModel {
	m := &InvestorCashflowModel{}
	m.FromDomainBaseEntity(line.BaseEntity)
	m.FundCashflowID = line.FundCashflowID
	m.InvestorID = line.InvestorID
	m.State = line.State
	m.CapitalCallTotal = line.CapitalCallTotal
	m.DistributionTotal = line.DistributionTotal
	m.DistributionDividends = line.DistributionDividends
	m.DistributionInterest = line.DistributionInterest
	return m
}

// FundReportModel is the persistence model for a fund performance report.
type FundReportModel struct {
	BaseModel
	FundID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ValutaDate  time.Time       `gorm:"not null;index"`
	Description string          `gorm:"type:text"`
	IRR         decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0"`
	TVPI        decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0"`
	DPI         decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0"`
	RVPI        decimal.Decimal `gorm:"type:decimal(10,6);not null;default:0"`
}

// TableName returns the table name for GORM
func (FundReportModel) TableName() string {
	return "fund_reports"
}

// ToDomain converts the persistence model to a domain FundReport entity.
func (m *FundReportModel) ToDomain() *fund.FundReport {
	return &fund.FundReport{
		BaseEntity:  m.BaseModel.ToDomain(),
		FundID:      m.FundID,
		ValutaDate:  m.ValutaDate,
		Description: m.Description,
		IRR:         m.IRR,
		TVPI:        m.TVPI,
		DPI:         m.DPI,
		RVPI:        m.RVPI,
	}
}

// FundReportModelFromDomain creates a new persistence model from a domain FundReport entity.
func FundReportModelFromDomain(r *fund.FundReport) *FundReportModel {
	m := &FundReportModel{}
	m.FromDomainBaseEntity(r.BaseEntity)
	m.FundID = r.FundID
	m.ValutaDate = r.ValutaDate
	m.Description = r.Description
	m.IRR = r.IRR
	m.TVPI = r.TVPI
	m.DPI = r.DPI
	m.RVPI = r.RVPI
	return m
}
