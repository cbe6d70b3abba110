package models

import (
	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/banking"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// BankAccountModel is the persistence model for the BankAccount entity.
// Accounts are polymorphic over mandates and funds.
type BankAccountModel struct {
	BaseModel
	OwnerType     shared.OwnerKind `gorm:"type:varchar(20);not null;index:idx_bank_account_owner,priority:1"`
	OwnerID       uuid.UUID        `gorm:"type:uuid;not null;index:idx_bank_account_owner,priority:2"`
	AccountType   string           `gorm:"type:varchar(50)"`
	BankName      string           `gorm:"type:varchar(200);not null"`
	Currency      string           `gorm:"type:varchar(3);not null"`
	IBAN          string           `gorm:"type:varchar(34)"`
	BIC           string           `gorm:"type:varchar(11)"`
	AccountNumber string           `gorm:"type:varchar(50)"`
	RoutingNumber string           `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (BankAccountModel) TableName() string {
	return "bank_accounts"
}

// ToDomain converts the persistence model to a domain BankAccount entity.
func (m *BankAccountModel) ToDomain() *banking.BankAccount {
	return &banking.BankAccount{
		BaseEntity:    m.BaseModel.ToDomain(),
		Owner:         shared.OwnerRef{Kind: m.OwnerType, ID: m.OwnerID},
		AccountType:   m.AccountType,
		BankName:      m.BankName,
		Currency:      m.Currency,
		IBAN:          m.IBAN,
		BIC:           m.BIC,
		AccountNumber: m.AccountNumber,
		RoutingNumber: m.RoutingNumber,
	}
}

// FromDomain populates the persistence model from a domain BankAccount entity.
func (m *BankAccountModel) FromDomain(a *banking.BankAccount) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.OwnerType = a.Owner.Kind
	m.OwnerID = a.Owner.ID
	m.AccountType = a.AccountType
	m.BankName = a.BankName
	m.Currency = a.Currency
	m.IBAN = a.IBAN
	m.BIC = a.BIC
	m.AccountNumber = a.AccountNumber
	m.RoutingNumber = a.RoutingNumber
}

// BankAccountModelFromDomain creates a new persistence model from a domain BankAccount entity.
func BankAccountModelFromDomain(a *banking.BankAccount) *BankAccountModel {
	m := &BankAccountModel{}
	m.FromDomain(a)
	return m
}
