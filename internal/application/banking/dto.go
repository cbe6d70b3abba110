package banking

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/banking"
)

// SaveBankAccountRequest carries the mutable bank account fields. Exactly
// one identification pair may be filled: iban/bic or account/routing.
type SaveBankAccountRequest struct {
	OwnerType     string    `json:"owner_type" binding:"required,oneof=Mandate Fund"`
	OwnerID       uuid.UUID `json:"owner_id" binding:"required"`
	AccountType   string    `json:"account_type"`
	BankName      string    `json:"bank_name" binding:"required,max=200"`
	Currency      string    `json:"currency" binding:"required,len=3"`
	IBAN          string    `json:"iban"`
	BIC           string    `json:"bic"`
	AccountNumber string    `json:"account_number"`
	RoutingNumber string    `json:"routing_number"`
}

// BankAccountResponse represents a bank account in API responses
type BankAccountResponse struct {
	ID            uuid.UUID `json:"id"`
	OwnerType     string    `json:"owner_type"`
	OwnerID       uuid.UUID `json:"owner_id"`
	AccountType   string    `json:"account_type"`
	BankName      string    `json:"bank_name"`
	Currency      string    `json:"currency"`
	IBAN          string    `json:"iban"`
	BIC           string    `json:"bic"`
	AccountNumber string    `json:"account_number"`
	RoutingNumber string    `json:"routing_number"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToBankAccountResponse converts a domain bank account to its response form
func ToBankAccountResponse(a *banking.BankAccount) BankAccountResponse {
	return BankAccountResponse{
		ID:            a.ID,
		OwnerType:     a.Owner.Kind.String(),
		OwnerID:       a.Owner.ID,
		AccountType:   a.AccountType,
		BankName:      a.BankName,
		Currency:      a.Currency,
		IBAN:          a.IBAN,
		BIC:           a.BIC,
		AccountNumber: a.AccountNumber,
		RoutingNumber: a.RoutingNumber,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

// ToBankAccountResponses converts a slice of domain bank accounts
func ToBankAccountResponses(accounts []*banking.BankAccount) []BankAccountResponse {
	responses := make([]BankAccountResponse, len(accounts))
	for i, a := range accounts {
		responses[i] = ToBankAccountResponse(a)
	}
	return responses
}
