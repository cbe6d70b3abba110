package contact

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ContactType discriminates natural persons from organizations
type ContactType string

const (
	TypePerson       ContactType = "person"
	TypeOrganization ContactType = "organization"
)

// IsValid checks if the type is a known ContactType
func (t ContactType) IsValid() bool {
	switch t {
	case TypePerson, TypeOrganization:
		return true
	}
	return false
}

// String returns the string representation of ContactType
func (t ContactType) String() string {
	return string(t)
}

// Gender of a natural person
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// Contact is a person or organization in the relationship graph. Several
// attribute groups are only valid for one of the two types; Validate
// enforces the conditional required-field sets.
type Contact struct {
	shared.BaseAggregateRoot
	ContactType ContactType
	Comment     string

	// Person attributes
	FirstName     string
	LastName      string
	Gender        Gender
	DateOfBirth   *time.Time
	DateOfDeath   *time.Time
	Nationality   string
	Profession    string
	MaritalState  string
	HealthInsured *bool
	CareInsured   *bool

	// Organization attributes
	OrganizationName     string
	OrganizationType     string
	OrganizationCategory string
	CommercialRegister   string
	VATNumber            string
	LEI                  string

	// Designated addresses; at most one of each at a time. The swap
	// semantics live in DesignateLegalAddress / ClearLegalAddress.
	LegalAddressID          *uuid.UUID
	PrimaryContactAddressID *uuid.UUID
	PrimaryEmailID          *uuid.UUID
	PrimaryPhoneID          *uuid.UUID
}

// NewPerson creates a new natural-person contact
func NewPerson(firstName, lastName string, gender Gender) (*Contact, error) {
	c := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactType:       TypePerson,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Gender:            gender,
	}
	if err := c.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewOrganization creates a new organization contact
func NewOrganization(name, orgType string) (*Contact, error) {
	c := &Contact{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ContactType:       TypeOrganization,
		OrganizationName:  strings.TrimSpace(name),
		OrganizationType:  orgType,
	}
	if err := c.Validate().ErrOrNil(); err != nil {
		return nil, err
	}
	return c, nil
}

// IsPerson reports whether the contact is a natural person
func (c *Contact) IsPerson() bool {
	return c.ContactType == TypePerson
}

// IsOrganization reports whether the contact is an organization
func (c *Contact) IsOrganization() bool {
	return c.ContactType == TypeOrganization
}

// Name returns the display name for either contact type
func (c *Contact) Name() string {
	if c.IsOrganization() {
		return c.OrganizationName
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Validate collects the per-field validation errors, including the
// type-conditional rules: person-only insurance flags, organization-only
// VAT/LEI, and the required name fields per type.
func (c *Contact) Validate() *shared.ValidationErrors {
	errs := shared.NewValidationErrors()
	if !c.ContactType.IsValid() {
		errs.Add("contact_type", "INVALID", "contact_type must be person or organization")
		return errs
	}
	if c.IsPerson() {
		if c.FirstName == "" {
			errs.AddRequired("first_name")
		}
		if c.LastName == "" {
			errs.AddRequired("last_name")
		}
		if c.Gender != GenderFemale && c.Gender != GenderMale {
			errs.Add("gender", "INVALID", "gender must be female or male")
		}
		if c.DateOfBirth != nil && c.DateOfDeath != nil && c.DateOfDeath.Before(*c.DateOfBirth) {
			errs.Add("date_of_death", "RANGE", "date_of_death must not be before date_of_birth")
		}
		if c.VATNumber != "" {
			errs.Add("vat_number", "INVALID_FOR_TYPE", "vat_number is only valid for organizations")
		}
		if c.LEI != "" {
			errs.Add("lei", "INVALID_FOR_TYPE", "lei is only valid for organizations")
		}
	} else {
		if c.OrganizationName == "" {
			errs.AddRequired("organization_name")
		}
		if c.HealthInsured != nil {
			errs.Add("health_insured", "INVALID_FOR_TYPE", "health_insured is only valid for persons")
		}
		if c.CareInsured != nil {
			errs.Add("care_insured", "INVALID_FOR_TYPE", "care_insured is only valid for persons")
		}
	}
	return errs
}

// DesignateLegalAddress points the legal-address back-reference at the
// given address. The previously designated address is implicitly replaced.
func (c *Contact) DesignateLegalAddress(addressID uuid.UUID) {
	c.LegalAddressID = &addressID
	c.UpdatedAt = time.Now()
}

// ClearLegalAddress removes the back-reference, but only if it currently
// points at the given address. Unsetting a non-designated address leaves
// the reference untouched.
func (c *Contact) ClearLegalAddress(addressID uuid.UUID) {
	if c.LegalAddressID != nil && *c.LegalAddressID == addressID {
		c.LegalAddressID = nil
		c.UpdatedAt = time.Now()
	}
}

// DesignatePrimaryContactAddress points the primary-contact back-reference
// at the given address
func (c *Contact) DesignatePrimaryContactAddress(addressID uuid.UUID) {
	c.PrimaryContactAddressID = &addressID
	c.UpdatedAt = time.Now()
}

// ClearPrimaryContactAddress removes the back-reference if it points at
// the given address
func (c *Contact) ClearPrimaryContactAddress(addressID uuid.UUID) {
	if c.PrimaryContactAddressID != nil && *c.PrimaryContactAddressID == addressID {
		c.PrimaryContactAddressID = nil
		c.UpdatedAt = time.Now()
	}
}
