package contact

import (
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/contact"
)

// =============================================================================
// Contact DTOs
// =============================================================================

// CreateContactRequest represents a request to create a contact. Person and
// organization fields are mutually exclusive; the domain validation rejects
// fields of the wrong type.
type CreateContactRequest struct {
	ContactType string `json:"contact_type" binding:"required,oneof=person organization"`
	Comment     string `json:"comment"`

	FirstName     string     `json:"first_name" binding:"max=100"`
	LastName      string     `json:"last_name" binding:"max=100"`
	Gender        string     `json:"gender" binding:"omitempty,oneof=female male"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Nationality   string     `json:"nationality" binding:"max=100"`
	Profession    string     `json:"profession" binding:"max=200"`
	MaritalState  string     `json:"marital_state" binding:"max=50"`
	HealthInsured *bool      `json:"health_insured"`
	CareInsured   *bool      `json:"care_insured"`

	OrganizationName     string `json:"organization_name" binding:"max=200"`
	OrganizationType     string `json:"organization_type" binding:"max=100"`
	OrganizationCategory string `json:"organization_category" binding:"max=100"`
	CommercialRegister   string `json:"commercial_register" binding:"max=100"`
	VATNumber            string `json:"vat_number" binding:"max=50"`
	LEI                  string `json:"lei" binding:"max=20"`
}

// UpdateContactRequest represents a request to update a contact
type UpdateContactRequest struct {
	Comment *string `json:"comment"`

	FirstName     *string    `json:"first_name" binding:"omitempty,max=100"`
	LastName      *string    `json:"last_name" binding:"omitempty,max=100"`
	Gender        *string    `json:"gender" binding:"omitempty,oneof=female male"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	DateOfDeath   *time.Time `json:"date_of_death"`
	Nationality   *string    `json:"nationality" binding:"omitempty,max=100"`
	Profession    *string    `json:"profession" binding:"omitempty,max=200"`
	MaritalState  *string    `json:"marital_state" binding:"omitempty,max=50"`
	HealthInsured *bool      `json:"health_insured"`
	CareInsured   *bool      `json:"care_insured"`

	OrganizationName     *string `json:"organization_name" binding:"omitempty,max=200"`
	OrganizationType     *string `json:"organization_type" binding:"omitempty,max=100"`
	OrganizationCategory *string `json:"organization_category" binding:"omitempty,max=100"`
	CommercialRegister   *string `json:"commercial_register" binding:"omitempty,max=100"`
	VATNumber            *string `json:"vat_number" binding:"omitempty,max=50"`
	LEI                  *string `json:"lei" binding:"omitempty,max=20"`
}

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID          uuid.UUID `json:"id"`
	ContactType string    `json:"contact_type"`
	Name        string    `json:"name"`
	Comment     string    `json:"comment"`

	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Gender        string     `json:"gender,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath   *time.Time `json:"date_of_death,omitempty"`
	Nationality   string     `json:"nationality,omitempty"`
	Profession    string     `json:"profession,omitempty"`
	MaritalState  string     `json:"marital_state,omitempty"`
	HealthInsured *bool      `json:"health_insured,omitempty"`
	CareInsured   *bool      `json:"care_insured,omitempty"`

	OrganizationName     string `json:"organization_name,omitempty"`
	OrganizationType     string `json:"organization_type,omitempty"`
	OrganizationCategory string `json:"organization_category,omitempty"`
	CommercialRegister   string `json:"commercial_register,omitempty"`
	VATNumber            string `json:"vat_number,omitempty"`
	LEI                  string `json:"lei,omitempty"`

	LegalAddressID          *uuid.UUID `json:"legal_address_id"`
	PrimaryContactAddressID *uuid.UUID `json:"primary_contact_address_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToContactResponse converts a domain contact to its response form
func ToContactResponse(c *contact.Contact) ContactResponse {
	return ContactResponse{
		ID:                      c.ID,
		ContactType:             c.ContactType.String(),
		Name:                    c.Name(),
		Comment:                 c.Comment,
		FirstName:               c.FirstName,
		LastName:                c.LastName,
		Gender:                  string(c.Gender),
		DateOfBirth:             c.DateOfBirth,
		DateOfDeath:             c.DateOfDeath,
		Nationality:             c.Nationality,
		Profession:              c.Profession,
		MaritalState:            c.MaritalState,
		HealthInsured:           c.HealthInsured,
		CareInsured:             c.CareInsured,
		OrganizationName:        c.OrganizationName,
		OrganizationType:        c.OrganizationType,
		OrganizationCategory:    c.OrganizationCategory,
		CommercialRegister:      c.CommercialRegister,
		VATNumber:               c.VATNumber,
		LEI:                     c.LEI,
		LegalAddressID:          c.LegalAddressID,
		PrimaryContactAddressID: c.PrimaryContactAddressID,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

// ToContactResponses converts a slice of domain contacts
func ToContactResponses(contacts []*contact.Contact) []ContactResponse {
	responses := make([]ContactResponse, len(contacts))
	for i, c := range contacts {
		responses[i] = ToContactResponse(c)
	}
	return responses
}

// ContactListFilter represents filter options for the contact list
type ContactListFilter struct {
	Search      string `form:"search"`
	ContactType string `form:"contact_type" binding:"omitempty,oneof=person organization"`
	Page        int    `form:"page" binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// =============================================================================
// Address DTOs
// =============================================================================

// SaveAddressRequest represents a request to create or update an address.
// The designation flags are three-valued: true designates, false clears
// (only if currently designated), nil leaves the designation untouched.
type SaveAddressRequest struct {
	Category              string `json:"category" binding:"max=50"`
	Addition              string `json:"addition" binding:"max=200"`
	StreetAndNumber       string `json:"street_and_number" binding:"required,max=200"`
	PostalCode            string `json:"postal_code" binding:"max=20"`
	City                  string `json:"city" binding:"required,max=100"`
	State                 string `json:"state" binding:"max=100"`
	Country               string `json:"country" binding:"required,max=100"`
	LegalAddress          *bool  `json:"legal_address"`
	PrimaryContactAddress *bool  `json:"primary_contact_address"`
}

// AddressResponse represents an address in API responses
type AddressResponse struct {
	ID                    uuid.UUID `json:"id"`
	OwnerType             string    `json:"owner_type"`
	OwnerID               uuid.UUID `json:"owner_id"`
	Category              string    `json:"category"`
	Addition              string    `json:"addition"`
	StreetAndNumber       string    `json:"street_and_number"`
	PostalCode            string    `json:"postal_code"`
	City                  string    `json:"city"`
	State                 string    `json:"state"`
	Country               string    `json:"country"`
	LegalAddress          bool      `json:"legal_address"`
	PrimaryContactAddress bool      `json:"primary_contact_address"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// =============================================================================
// ContactDetail DTOs
// =============================================================================

// SaveContactDetailRequest represents a request to create or update a
// contact detail (email, phone, fax, website)
type SaveContactDetailRequest struct {
	Category string `json:"category" binding:"required,oneof=email phone fax website"`
	Value    string `json:"value" binding:"required,max=200"`
	Primary  bool   `json:"primary"`
}

// ContactDetailResponse represents a contact detail in API responses
type ContactDetailResponse struct {
	ID        uuid.UUID `json:"id"`
	ContactID uuid.UUID `json:"contact_id"`
	Category  string    `json:"category"`
	Value     string    `json:"value"`
	Primary   bool      `json:"primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToContactDetailResponse converts a domain contact detail
func ToContactDetailResponse(d *contact.ContactDetail, primary bool) ContactDetailResponse {
	return ContactDetailResponse{
		ID:        d.ID,
		ContactID: d.ContactID,
		Category:  string(d.Category),
		Value:     d.Value,
		Primary:   primary,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// =============================================================================
// TaxDetail / ComplianceDetail DTOs
// =============================================================================

// ForeignTaxNumberRequest is one (country, tax number) entry
type ForeignTaxNumberRequest struct {
	Country   string `json:"country" binding:"required,max=100"`
	TaxNumber string `json:"tax_number" binding:"required,max=50"`
}

// SaveTaxDetailRequest represents a request to update a contact's tax profile
type SaveTaxDetailRequest struct {
	TaxIdentification string                    `json:"tax_identification" binding:"max=50"`
	TaxNumber         string                    `json:"tax_number" binding:"max=50"`
	TaxOffice         string                    `json:"tax_office" binding:"max=200"`
	CommonReporting   bool                      `json:"common_reporting"`
	USPerson          bool                      `json:"us_person"`
	USTaxNumber       string                    `json:"us_tax_number" binding:"max=50"`
	ForeignTaxNumbers []ForeignTaxNumberRequest `json:"foreign_tax_numbers"`
}

// TaxDetailResponse represents a tax profile in API responses
type TaxDetailResponse struct {
	ID                uuid.UUID                 `json:"id"`
	ContactID         uuid.UUID                 `json:"contact_id"`
	TaxIdentification string                    `json:"tax_identification"`
	TaxNumber         string                    `json:"tax_number"`
	TaxOffice         string                    `json:"tax_office"`
	CommonReporting   bool                      `json:"common_reporting"`
	USPerson          bool                      `json:"us_person"`
	USTaxNumber       string                    `json:"us_tax_number"`
	ForeignTaxNumbers []ForeignTaxNumberRequest `json:"foreign_tax_numbers"`
	CreatedAt         time.Time                 `json:"created_at"`
	UpdatedAt         time.Time                 `json:"updated_at"`
}

// ToTaxDetailResponse converts a domain tax profile
func ToTaxDetailResponse(d *contact.TaxDetail) TaxDetailResponse {
	numbers := make([]ForeignTaxNumberRequest, len(d.ForeignTaxNumbers))
	for i, n := range d.ForeignTaxNumbers {
		numbers[i] = ForeignTaxNumberRequest{Country: n.Country, TaxNumber: n.TaxNumber}
	}
	return TaxDetailResponse{
		ID:                d.ID,
		ContactID:         d.ContactID,
		TaxIdentification: d.TaxIdentification,
		TaxNumber:         d.TaxNumber,
		TaxOffice:         d.TaxOffice,
		CommonReporting:   d.CommonReporting,
		USPerson:          d.USPerson,
		USTaxNumber:       d.USTaxNumber,
		ForeignTaxNumbers: numbers,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}

// SaveComplianceDetailRequest represents a request to update a contact's
// regulatory profile
type SaveComplianceDetailRequest struct {
	Wphg               string     `json:"wphg" binding:"omitempty,oneof=none private born_professional suitable_counterparty"`
	WphgValidFrom      *time.Time `json:"wphg_valid_from"`
	WphgValidTo        *time.Time `json:"wphg_valid_to"`
	Kagb               string     `json:"kagb" binding:"omitempty,oneof=none private semi_professional professional"`
	PoliticallyExposed bool       `json:"politically_exposed"`
	Occupation         string     `json:"occupation" binding:"max=200"`
	OccupationRole     string     `json:"occupation_role" binding:"max=100"`
	RetirementAge      *int       `json:"retirement_age" binding:"omitempty,min=50,max=100"`
}

// ComplianceDetailResponse represents a regulatory profile in API responses
type ComplianceDetailResponse struct {
	ID                 uuid.UUID  `json:"id"`
	ContactID          uuid.UUID  `json:"contact_id"`
	Wphg               string     `json:"wphg"`
	WphgValidFrom      *time.Time `json:"wphg_valid_from"`
	WphgValidTo        *time.Time `json:"wphg_valid_to"`
	Kagb               string     `json:"kagb"`
	PoliticallyExposed bool       `json:"politically_exposed"`
	Occupation         string     `json:"occupation"`
	OccupationRole     string     `json:"occupation_role"`
	RetirementAge      *int       `json:"retirement_age"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToComplianceDetailResponse converts a domain regulatory profile
func ToComplianceDetailResponse(d *contact.ComplianceDetail) ComplianceDetailResponse {
	return ComplianceDetailResponse{
		ID:                 d.ID,
		ContactID:          d.ContactID,
		Wphg:               string(d.Wphg),
		WphgValidFrom:      d.WphgValidAt.ValidFrom,
		WphgValidTo:        d.WphgValidAt.ValidTo,
		Kagb:               string(d.Kagb),
		PoliticallyExposed: d.PoliticallyExposed,
		Occupation:         d.Occupation,
		OccupationRole:     d.OccupationRole,
		RetirementAge:      d.RetirementAge,
		CreatedAt:          d.CreatedAt,
		UpdatedAt:          d.UpdatedAt,
	}
}

// =============================================================================
// Relationship DTOs
// =============================================================================

// CreateRelationshipRequest links two contacts with a pairing-scoped role
type CreateRelationshipRequest struct {
	SourceContactID uuid.UUID `json:"source_contact_id" binding:"required"`
	TargetContactID uuid.UUID `json:"target_contact_id" binding:"required"`
	Role            string    `json:"role" binding:"required,max=50"`
	Comment         string    `json:"comment"`
}

// RelationshipResponse represents a contact relationship in API responses
type RelationshipResponse struct {
	ID              uuid.UUID `json:"id"`
	SourceContactID uuid.UUID `json:"source_contact_id"`
	TargetContactID uuid.UUID `json:"target_contact_id"`
	Role            string    `json:"role"`
	Comment         string    `json:"comment"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToRelationshipResponse converts a domain relationship
func ToRelationshipResponse(r *contact.Relationship) RelationshipResponse {
	return RelationshipResponse{
		ID:              r.ID,
		SourceContactID: r.SourceContactID,
		TargetContactID: r.TargetContactID,
		Role:            r.Role,
		Comment:         r.Comment,
		CreatedAt:       r.CreatedAt,
	}
}
