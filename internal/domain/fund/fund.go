package fund

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// State of a fund
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
)

// IsValid checks if the state is a known State
func (s State) IsValid() bool {
	return s == StateOpen || s == StateClosed
}

// String returns the string representation of State
func (s State) String() string {
	return string(s)
}

// Fund is an investment vehicle with its investors and cashflows
type Fund struct {
	shared.BaseAggregateRoot
	Name           string
	FundType       string
	State          State
	Currency       string
	IssuingYear    int
	Company        string
	Comment        string
	LegalAddressID *uuid.UUID
}

// NewFund creates a new open fund
func NewFund(name, fundType, currency string, issuingYear int) (*Fund, error) {
	f := &Fund{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		FundType:          fundType,
		State:             StateOpen,
		Currency:          strings.ToUpper(strings.TrimSpace(currency)),
		IssuingYear:       issuingYear,
	}
	if err := f.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate collects per-field validation errors
func (f *Fund) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if f.Name == "" {
		errs.AddRequired("name")
	}
	if len(f.Currency) != 3 {
		errs.Add("currency", "FORMAT", "currency must be a 3-letter ISO code")
	}
	if f.IssuingYear < 1900 || f.IssuingYear > time.Now().Year()+1 {
		errs.Add("issuing_year", "RANGE", "issuing_year is out of range")
	}
	if !f.State.IsValid() {
		errs.Add("state", "INVALID", "unknown fund state")
	}
	return errs
}

// Close closes the fund for new investors
func (f *Fund) Close() error {
	if f.State == StateClosed {
		return shared.ErrInvalidTransition
	}
	f.State = StateClosed
	f.UpdatedAt = time.Now()
	return nil
}

// Reopen opens a closed fund again
func (f *Fund) Reopen() error {
	if f.State == StateOpen {
		return shared.ErrInvalidTransition
	}
	f.State = StateOpen
	f.UpdatedAt = time.Now()
	return nil
}

// AcceptsInvestors reports whether new investors may join the fund
func (f *Fund) AcceptsInvestors() bool {
	return f.State == StateOpen
}
