package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/contact"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ContactModel is the persistence model for the Contact aggregate root.
// Person and organization attributes share the table; the contact_type
// column discriminates which set is meaningful.
type ContactModel struct {
	AggregateModel
	ContactType contact.ContactType `gorm:"type:varchar(20);not null;index"`
	Comment     string              `gorm:"type:text"`

	FirstName     string         `gorm:"type:varchar(100)"`
	LastName      string         `gorm:"type:varchar(100);index"`
	Gender        contact.Gender `gorm:"type:varchar(10)"`
	DateOfBirth   *time.Time
	DateOfDeath   *time.Time
	Nationality   string `gorm:"type:varchar(100)"`
	Profession    string `gorm:"type:varchar(100)"`
	MaritalState  string `gorm:"type:varchar(30)"`
	HealthInsured *bool
	CareInsured   *bool

	OrganizationName     string `gorm:"type:varchar(200);index"`
	OrganizationType     string `gorm:"type:varchar(50)"`
	OrganizationCategory string `gorm:"type:varchar(50)"`
	CommercialRegister   string `gorm:"type:varchar(100)"`
	VATNumber            string `gorm:"type:varchar(50)"`
	LEI                  string `gorm:"type:varchar(20)"`

	LegalAddressID          *uuid.UUID `gorm:"type:uuid"`
	PrimaryContactAddressID *uuid.UUID `gorm:"type:uuid"`
	PrimaryEmailID          *uuid.UUID `gorm:"type:uuid"`
	PrimaryPhoneID          *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *contact.Contact {
	return &contact.Contact{
		BaseAggregateRoot:       m.ToDomainAggregateRoot(),
		ContactType:             m.ContactType,
		Comment:                 m.Comment,
		FirstName:               m.FirstName,
		LastName:                m.LastName,
		Gender:                  m.Gender,
		DateOfBirth:             m.DateOfBirth,
		DateOfDeath:             m.DateOfDeath,
		Nationality:             m.Nationality,
		Profession:              m.Profession,
		MaritalState:            m.MaritalState,
		HealthInsured:           m.HealthInsured,
		CareInsured:             m.CareInsured,
		OrganizationName:        m.OrganizationName,
		OrganizationType:        m.OrganizationType,
		OrganizationCategory:    m.OrganizationCategory,
		CommercialRegister:      m.CommercialRegister,
		VATNumber:               m.VATNumber,
		LEI:                     m.LEI,
		LegalAddressID:          m.LegalAddressID,
		PrimaryContactAddressID: m.PrimaryContactAddressID,
		PrimaryEmailID:          m.PrimaryEmailID,
		PrimaryPhoneID:          m.PrimaryPhoneID,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *contact.Contact) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.ContactType = c.ContactType
	m.Comment = c.Comment
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Gender = c.Gender
	m.DateOfBirth = c.DateOfBirth
	m.DateOfDeath = c.DateOfDeath
	m.Nationality = c.Nationality
	m.Profession = c.Profession
	m.MaritalState = c.MaritalState
	m.HealthInsured = c.HealthInsured
	m.CareInsured = c.CareInsured
	m.OrganizationName = c.OrganizationName
	m.OrganizationType = c.OrganizationType
	m.OrganizationCategory = c.OrganizationCategory
	m.CommercialRegister = c.CommercialRegister
	m.VATNumber = c.VATNumber
	m.LEI = c.LEI
	m.LegalAddressID = c.LegalAddressID
	m.PrimaryContactAddressID = c.PrimaryContactAddressID
	m.PrimaryEmailID = c.PrimaryEmailID
	m.PrimaryPhoneID = c.PrimaryPhoneID
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *contact.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}

// AddressModel is the persistence model for the Address entity. Addresses
// are polymorphic: owner_type/owner_id point at the owning contact,
// mandate or fund.
type AddressModel struct {
	BaseModel
	OwnerType    shared.OwnerKind `gorm:"type:varchar(20);not null;index:idx_address_owner,priority:1"`
	OwnerID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_address_owner,priority:2"`
	Category     string           `gorm:"type:varchar(30)"`
	Addition     string           `gorm:"type:varchar(100)"`
	StreetAndNum string           `gorm:"type:varchar(200)"`
	PostalCode   string           `gorm:"type:varchar(20)"`
	City         string           `gorm:"type:varchar(100)"`
	State        string           `gorm:"type:varchar(100)"`
	Country      string           `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "addresses"
}

// ToDomain converts the persistence model to a domain Address entity.
func (m *AddressModel) ToDomain() *contact.Address {
	return &contact.Address{
		BaseEntity:   m.BaseModel.ToDomain(),
		Owner:        shared.OwnerRef{Kind: m.OwnerType, ID: m.OwnerID},
		Category:     m.Category,
		Addition:     m.Addition,
		StreetAndNum: m.StreetAndNum,
		PostalCode:   m.PostalCode,
		City:         m.City,
		State:        m.State,
		Country:      m.Country,
	}
}

// FromDomain populates the persistence model from a domain Address entity.
func (m *AddressModel) FromDomain(a *contact.Address) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.OwnerType = a.Owner.Kind
	m.OwnerID = a.Owner.ID
	m.Category = a.Category
	m.Addition = a.Addition
	m.StreetAndNum = a.StreetAndNum
	m.PostalCode = a.PostalCode
	m.City = a.City
	m.State = a.State
	m.Country = a.Country
}

// AddressModelFromDomain creates a new persistence model from a domain Address entity.
func AddressModelFromDomain(a *contact.Address) *AddressModel {
	m := &AddressModel{}
	m.FromDomain(a)
	return m
}

// ContactDetailModel is the persistence model for email/phone/fax details.
type ContactDetailModel struct {
	BaseModel
	ContactID uuid.UUID              `gorm:"type:uuid;not null;index"`
	Category  contact.DetailCategory `gorm:"type:varchar(20);not null"`
	Value     string                 `gorm:"type:varchar(200);not null"`
}

// TableName returns the table name for GORM
func (ContactDetailModel) TableName() string {
	return "contact_details"
}

// ToDomain converts the persistence model to a domain ContactDetail entity.
func (m *ContactDetailModel) ToDomain() *contact.ContactDetail {
	return &contact.ContactDetail{
		BaseEntity: m.BaseModel.ToDomain(),
		ContactID:  m.ContactID,
		Category:   m.Category,
		Value:      m.Value,
	}
}

// FromDomain populates the persistence model from a domain ContactDetail entity.
func (m *ContactDetailModel) FromDomain(d *contact.ContactDetail) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.ContactID = d.ContactID
	m.Category = d.Category
	m.Value = d.Value
}

// ContactDetailModelFromDomain creates a new persistence model from a domain ContactDetail entity.
func ContactDetailModelFromDomain(d *contact.ContactDetail) *ContactDetailModel {
	m := &ContactDetailModel{}
	m.FromDomain(d)
	return m
}

// TaxDetailModel is the persistence model for the TaxDetail entity.
// Each contact has at most one row.
type TaxDetailModel struct {
	BaseModel
	ContactID         uuid.UUID               `gorm:"type:uuid;not null;uniqueIndex"`
	TaxIdentification string                  `gorm:"type:varchar(50)"`
	TaxNumber         string                  `gorm:"type:varchar(50)"`
	TaxOffice         string                  `gorm:"type:varchar(100)"`
	CommonReporting   bool                    `gorm:"not null;default:false"`
	USPerson          bool                    `gorm:"not null;default:false"`
	USTaxNumber       string                  `gorm:"type:varchar(50)"`
	ForeignTaxNumbers []ForeignTaxNumberModel `gorm:"foreignKey:TaxDetailID;references:ID"`
}

// TableName returns the table name for GORM
func (TaxDetailModel) TableName() string {
	return "tax_details"
}

// ToDomain converts the persistence model to a domain TaxDetail entity.
func (m *TaxDetailModel) ToDomain() *contact.TaxDetail {
	detail := &contact.TaxDetail{
		BaseEntity:        m.BaseModel.ToDomain(),
		ContactID:         m.ContactID,
		TaxIdentification: m.TaxIdentification,
		TaxNumber:         m.TaxNumber,
		TaxOffice:         m.TaxOffice,
		CommonReporting:   m.CommonReporting,
		USPerson:          m.USPerson,
		USTaxNumber:       m.USTaxNumber,
		ForeignTaxNumbers: make([]contact.ForeignTaxNumber, len(m.ForeignTaxNumbers)),
	}
	for i, ftn := range m.ForeignTaxNumbers {
		detail.ForeignTaxNumbers[i] = *ftn.ToDomain()
	}
	return detail
}

// FromDomain populates the persistence model from a domain TaxDetail entity.
func (m *TaxDetailModel) FromDomain(d *contact.TaxDetail) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.ContactID = d.ContactID
	m.TaxIdentification = d.TaxIdentification
	m.TaxNumber = d.TaxNumber
	m.TaxOffice = d.TaxOffice
	m.CommonReporting = d.CommonReporting
	m.USPerson = d.USPerson
	m.USTaxNumber = d.USTaxNumber
	m.ForeignTaxNumbers = make([]ForeignTaxNumberModel, len(d.ForeignTaxNumbers))
	for i, ftn := range d.ForeignTaxNumbers {
		m.ForeignTaxNumbers[i] = *ForeignTaxNumberModelFromDomain(&ftn)
	}
}

// TaxDetailModelFromDomain creates a new persistence model from a domain TaxDetail entity.
func TaxDetailModelFromDomain(d *contact.TaxDetail) *TaxDetailModel {
	m := &TaxDetailModel{}
	m.FromDomain(d)
	return m
}

// ForeignTaxNumberModel is the persistence model for a foreign tax number
// attached to a tax detail.
type ForeignTaxNumberModel struct {
	BaseModel
	TaxDetailID uuid.UUID `gorm:"type:uuid;not null;index"`
	Country     string    `gorm:"type:varchar(100);not null"`
	TaxNumber   string    `gorm:"type:varchar(50);not null"`
}

// TableName returns the table name for GORM
func (ForeignTaxNumberModel) TableName() string {
	return "foreign_tax_numbers"
}

// ToDomain converts the persistence model to a domain ForeignTaxNumber entity.
func (m *ForeignTaxNumberModel) ToDomain() *contact.ForeignTaxNumber {
	return &contact.ForeignTaxNumber{
		BaseEntity:  m.BaseModel.ToDomain(),
		TaxDetailID: m.TaxDetailID,
		Country:     m.Country,
		TaxNumber:   m.TaxNumber,
	}
}

// ForeignTaxNumberModelFromDomain creates a new persistence model from a domain ForeignTaxNumber entity.
func ForeignTaxNumberModelFromDomain(f *contact.ForeignTaxNumber) *ForeignTaxNumberModel {
	m := &ForeignTaxNumberModel{}
	m.FromDomainBaseEntity(f.BaseEntity)
	m.TaxDetailID = f.TaxDetailID
	m.Country = f.Country
	m.TaxNumber = f.TaxNumber
	return m
}

// ComplianceDetailModel is the persistence model for the ComplianceDetail
// entity. Each contact has at most one row.
type ComplianceDetailModel struct {
	BaseModel
	ContactID          uuid.UUID                  `gorm:"type:uuid;not null;uniqueIndex"`
	Wphg               contact.WphgClassification `gorm:"type:varchar(30)"`
	WphgValidFrom      *time.Time
	WphgValidTo        *time.Time
	Kagb               contact.KagbClassification `gorm:"type:varchar(30)"`
	PoliticallyExposed bool                       `gorm:"not null;default:false"`
	Occupation         string                     `gorm:"type:varchar(100)"`
	OccupationRole     string                     `gorm:"type:varchar(100)"`
	RetirementAge      *int
}

// TableName returns the table name for GORM
func (ComplianceDetailModel) TableName() string {
	return "compliance_details"
}

// ToDomain converts the persistence model to a domain ComplianceDetail entity.
func (m *ComplianceDetailModel) ToDomain() *contact.ComplianceDetail {
	return &contact.ComplianceDetail{
		BaseEntity: m.BaseModel.ToDomain(),
		ContactID:  m.ContactID,
		Wphg:       m.Wphg,
		WphgValidAt: shared.DateRange{
			ValidFrom: m.WphgValidFrom,
			ValidTo:   m.WphgValidTo,
		},
		Kagb:               m.Kagb,
		PoliticallyExposed: m.PoliticallyExposed,
		Occupation:         m.Occupation,
		OccupationRole:     m.OccupationRole,
		RetirementAge:      m.RetirementAge,
	}
}

// FromDomain populates the persistence model from a domain ComplianceDetail entity.
func (m *ComplianceDetailModel) FromDomain(d *contact.ComplianceDetail) {
	m.FromDomainBaseEntity(d.BaseEntity)
	m.ContactID = d.ContactID
	m.Wphg = d.Wphg
	m.WphgValidFrom = d.WphgValidAt.ValidFrom
	m.WphgValidTo = d.WphgValidAt.ValidTo
	m.Kagb = d.Kagb
	m.PoliticallyExposed = d.PoliticallyExposed
	m.Occupation = d.Occupation
	m.OccupationRole = d.OccupationRole
	m.RetirementAge = d.RetirementAge
}

// ComplianceDetailModelFromDomain creates a new persistence model from a domain ComplianceDetail entity.
func ComplianceDetailModelFromDomain(d *contact.ComplianceDetail) *ComplianceDetailModel {
	m := &ComplianceDetailModel{}
	m.FromDomain(d)
	return m
}

// RelationshipModel is the persistence model for a directed relationship
// between two contacts.
type RelationshipModel struct {
	BaseModel
	SourceContactID uuid.UUID `gorm:"type:uuid;not null;index"`
	TargetContactID uuid.UUID `gorm:"type:uuid;not null;index"`
	Role            string    `gorm:"type:varchar(50);not null"`
	Comment         string    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (RelationshipModel) TableName() string {
	return "contact_relationships"
}

// ToDomain converts the persistence model to a domain Relationship entity.
func (m *RelationshipModel) ToDomain() *contact.Relationship {
	return &contact.Relationship{
		BaseEntity:      m.BaseModel.ToDomain(),
		SourceContactID: m.SourceContactID,
		TargetContactID: m.TargetContactID,
		Role:            m.Role,
		Comment:         m.Comment,
	}
}

// FromDomain populates the persistence model from a domain Relationship entity.
func (m *RelationshipModel) FromDomain(r *contact.Relationship) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.SourceContactID = r.SourceContactID
	m.TargetContactID = r.TargetContactID
	m.Role = r.Role
	m.Comment = r.Comment
}

// RelationshipModelFromDomain creates a new persistence model from a domain Relationship entity.
func RelationshipModelFromDomain(r *contact.Relationship) *RelationshipModel {
	m := &RelationshipModel{}
	m.FromDomain(r)
	return m
}
