package contact

import (
	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// WphgClassification per the German securities trading act
type WphgClassification string

const (
	WphgNone         WphgClassification = "none"
	WphgPrivate      WphgClassification = "private"
	WphgProfessional WphgClassification = "born_professional"
	WphgSuitable     WphgClassification = "suitable_counterparty"
)

// KagbClassification per the German capital investment code
type KagbClassification string

const (
	KagbNone         KagbClassification = "none"
	KagbPrivate      KagbClassification = "private"
	KagbSemiPro      KagbClassification = "semi_professional"
	KagbProfessional KagbClassification = "professional"
)

// ComplianceDetail is the 1:1 regulatory profile of a contact
type ComplianceDetail struct {
	shared.BaseEntity
	ContactID          uuid.UUID
	Wphg               WphgClassification
	WphgValidAt        shared.DateRange
	Kagb               KagbClassification
	PoliticallyExposed bool
	Occupation         string
	OccupationRole     string
	RetirementAge      *int
}

// NewComplianceDetail creates the regulatory profile for a contact
func NewComplianceDetail(contactID uuid.UUID) (*ComplianceDetail, error) {
	if contactID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CONTACT", "Contact ID cannot be empty")
	}
	return &ComplianceDetail{
		BaseEntity: shared.NewBaseEntity(),
		ContactID:  contactID,
		Wphg:       WphgNone,
		Kagb:       KagbNone,
	}, nil
}

// Validate collects per-field validation errors
func (d *ComplianceDetail) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	d.WphgValidAt.Validate(errs)
	if d.RetirementAge != nil && (*d.RetirementAge < 50 || *d.RetirementAge > 100) {
		errs.Add("retirement_age", "RANGE", "retirement_age must be between 50 and 100")
	}
	return errs
}
