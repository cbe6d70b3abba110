package contact

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ForeignTaxNumber is a tax identification issued by a non-domestic country
type ForeignTaxNumber struct {
	shared.BaseEntity
	TaxDetailID uuid.UUID
	Country     string
	TaxNumber   string
}

// TaxDetail is the 1:1 tax profile of a contact
type TaxDetail struct {
	shared.BaseEntity
	ContactID         uuid.UUID
	TaxIdentification string
	TaxNumber         string
	TaxOffice         string
	CommonReporting   bool
	USPerson          bool
	USTaxNumber       string
	ForeignTaxNumbers []ForeignTaxNumber
}

// NewTaxDetail creates the tax profile for a contact
func NewTaxDetail(contactID uuid.UUID) (*TaxDetail, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	return &TaxDetail{
		BaseEntity:        shared.NewBaseEntity(),
		ContactID:         contactID,
		ForeignTaxNumbers: make([]ForeignTaxNumber, 0),
	}, nil
}

// Validate collects per-field validation errors
func (d *TaxDetail) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if d.USPerson && d.USTaxNumber == "" {
		errs.Add("us_tax_number", "REQUIRED", "us_tax_number is required for US persons")
	}
	return errs
}

// AddForeignTaxNumber records a foreign tax identification. Duplicate
// countries are rejected.
func (d *TaxDetail) AddForeignTaxNumber(country, taxNumber string) error {
	country = strings.TrimSpace(country)
	taxNumber = strings.TrimSpace(taxNumber)
	if country == "" || taxNumber == "" {
		return shared.NewDomainError("INVALID_INPUT", "Country and tax number are required")
	}
	for _, f := range d.ForeignTaxNumbers {
		if strings.EqualFold(f.Country, country) {
			return shared.NewDomainError("ALREADY_EXISTS", "A tax number for this country already exists")
		}
	}
	d.ForeignTaxNumbers = append(d.ForeignTaxNumbers, ForeignTaxNumber{
		BaseEntity:  shared.NewBaseEntity(),
		TaxDetailID: d.ID,
		Country:     country,
		TaxNumber:   taxNumber,
	})
	return nil
}
