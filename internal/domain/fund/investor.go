package fund

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvestorState is the signing state of a fund investor
type InvestorState string

const (
	InvestorCreated InvestorState = "created"
	InvestorSigned  InvestorState = "signed"
)

// IsValid checks if the state is a known InvestorState
func (s InvestorState) IsValid() bool {
	return s == InvestorCreated || s == InvestorSigned
}

// String returns the string representation of InvestorState
func (s InvestorState) String() string {
	return string(s)
}

// Investor is a fund participation by a mandate. Signing requires the
// subscription agreement document to be attached; the signed state keeps
// the cross-field invariant that the investment date is present.
type Investor struct {
	shared.BaseAggregateRoot
	FundID         uuid.UUID
	MandateID      uuid.UUID
	ContactID      uuid.UUID
	State          InvestorState
	AmountTotal    decimal.Decimal
	InvestmentDate *time.Time

	// FundSubscriptionAgreementID references the signed agreement document.
	FundSubscriptionAgreementID *uuid.UUID
}

// NewInvestor creates a new unsigned investor
func NewInvestor(fundID, mandateID, contactID uuid.UUID, amountTotal decimal.Decimal) (*Investor, error) {
	errs := shared.NewValidationErrors()
	if fundID == uuid.Nil {
		errs.AddRequired("fund")
	}
	if mandateID == uuid.Nil {
		errs.AddRequired("mandate")
	}
	if contactID == uuid.Nil {
		errs.AddRequired("contact")
	}
	if amountTotal.IsNegative() {
		errs.Add("amount_total", "RANGE", "amount_total cannot be negative")
	}
	if errs.HasErrors() {
		return nil, errs
	}
	return &Investor{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FundID:            fundID,
		MandateID:         mandateID,
		ContactID:         contactID,
		State:             InvestorCreated,
		AmountTotal:       amountTotal,
	}, nil
}

// IsSigned reports whether the investor signed the subscription agreement
func (i *Investor) IsSigned() bool {
	return i.State == InvestorSigned
}

// Sign transitions the investor to signed. The investment date is set to
// now when absent; the subscription agreement document must be attached
// first.
func (i *Investor) Sign(now time.Time) error {
	if i.State != InvestorCreated {
		return shared.ErrInvalidTransition
	}
	prevDate, prevUpdated := i.InvestmentDate, i.UpdatedAt
	if i.InvestmentDate == nil {
		i.InvestmentDate = &now
	}
	i.State = InvestorSigned
	i.UpdatedAt = now
	if err := i.Validate().ErrOrNil(); err != nil {
		// Roll the whole transition back so the caller observes the prior state.
		i.State = InvestorCreated
		i.InvestmentDate = prevDate
		i.UpdatedAt = prevUpdated
		return err
	}
	return nil
}

// AttachSubscriptionAgreement links the signed agreement document
func (i *Investor) AttachSubscriptionAgreement(documentID uuid.UUID) error {
	if documentID == uuid.Nil {
		return shared.NewDomainError("INVALID_DOCUMENT", "Document ID cannot be empty")
	}
	i.FundSubscriptionAgreementID = &documentID
	i.UpdatedAt = time.Now()
	return nil
}

// Validate enforces the signed-state invariant: a signed investor always
// has an investment date and the subscription agreement document.
func (i *Investor) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if !i.State.IsValid() {
		errs.Add("state", "INVALID", "unknown investor state")
	}
	if i.State == InvestorSigned {
		if i.InvestmentDate == nil {
			errs.Add("investment_date", "REQUIRED_FOR_SIGNED", "investment_date is required for signed investors")
		}
		if i.FundSubscriptionAgreementID == nil {
			errs.Add("fund_subscription_agreement", "REQUIRED_FOR_SIGNED", "subscription agreement document is required for signed investors")
		}
	}
	return errs
}
