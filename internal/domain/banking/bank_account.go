package banking

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// BankAccount is a payment account owned by a mandate or fund. Exactly one
// of the two identifying pairs must be present: IBAN/BIC for SEPA accounts
// or account/routing number for domestic ones, never both and never a
// mixture.
type BankAccount struct {
	shared.BaseEntity
	Owner         shared.OwnerRef
	AccountType   string
	BankName      string
	Currency      string
	IBAN          string
	BIC           string
	AccountNumber string
	RoutingNumber string
}

// NewBankAccount creates a new bank account for the given owner
func NewBankAccount(owner shared.OwnerRef, bankName, currency string) (*BankAccount, error) {
	if owner.Kind != shared.OwnerMandate && owner.Kind != shared.OwnerFund {
		return nil, shared.NewDomainError("INVALID_OWNER_KIND", "Bank accounts are owned by mandates or funds")
	}
	return &BankAccount{
		BaseEntity: shared.NewBaseEntity(),
		Owner:      owner,
		BankName:   strings.TrimSpace(bankName),
		Currency:   strings.ToUpper(strings.TrimSpace(currency)),
	}, nil
}

// SetIBAN sets the SEPA identification pair
func (a *BankAccount) SetIBAN(iban, bic string) {
	a.IBAN = strings.ToUpper(strings.ReplaceAll(iban, " ", ""))
	a.BIC = strings.ToUpper(strings.TrimSpace(bic))
}

// SetDomestic sets the account/routing identification pair
func (a *BankAccount) SetDomestic(accountNumber, routingNumber string) {
	a.AccountNumber = strings.TrimSpace(accountNumber)
	a.RoutingNumber = strings.TrimSpace(routingNumber)
}

// Validate collects per-field validation errors, enforcing the mutually
// exclusive identification pairs.
func (a *BankAccount) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if a.BankName == "" {
		errs.AddRequired("bank_name")
	}
	if len(a.Currency) != 3 {
		errs.Add("currency", "FORMAT", "currency must be a 3-letter ISO code")
	}

	hasSEPA := a.IBAN != "" || a.BIC != ""
	hasDomestic := a.AccountNumber != "" || a.RoutingNumber != ""
	switch {
	case hasSEPA && hasDomestic:
		errs.Add("iban", "EXCLUSIVE", "iban/bic and account/routing number are mutually exclusive")
	case hasSEPA:
		if a.IBAN == "" {
			errs.AddRequired("iban")
		}
		if a.BIC == "" {
			errs.AddRequired("bic")
		}
	case hasDomestic:
		if a.AccountNumber == "" {
			errs.AddRequired("account_number")
		}
		if a.RoutingNumber == "" {
			errs.AddRequired("routing_number")
		}
	default:
		errs.Add("iban", "REQUIRED", "either iban/bic or account/routing number must be present")
	}
	return errs
}

// Repository provides access to bank accounts
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	FindByOwner(ctx context.Context, owner shared.OwnerRef) ([]*BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
	Delete(ctx context.Context, id uuid.UUID) error
}
