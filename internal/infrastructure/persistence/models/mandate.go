package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/mandate"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// MandateModel is the persistence model for the Mandate aggregate root.
// Group assignments and members are child rows loaded with the aggregate.
type MandateModel struct {
	AggregateModel
	Category  string        `gorm:"type:varchar(50);index"`
	Comment   string        `gorm:"type:text"`
	State     mandate.State `gorm:"type:varchar(30);not null;index"`
	ValidFrom *time.Time
	ValidTo   *time.Time

	PrimaryConsultantID   *uuid.UUID `gorm:"type:uuid;index"`
	SecondaryConsultantID *uuid.UUID `gorm:"type:uuid"`
	AssistantID           *uuid.UUID `gorm:"type:uuid"`
	BookkeeperID          *uuid.UUID `gorm:"type:uuid"`

	GroupAssignments []MandateGroupAssignmentModel `gorm:"foreignKey:MandateID;references:ID"`
	Members          []MandateMemberModel          `gorm:"foreignKey:MandateID;references:ID"`
}

// TableName returns the table name for GORM
func (MandateModel) TableName() string {
	return "mandates"
}

// ToDomain converts the persistence model to a domain Mandate entity.
func (m *MandateModel) ToDomain() *mandate.Mandate {
	md := &mandate.Mandate{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Category:          m.Category,
		Comment:           m.Comment,
		State:             m.State,
		Validity: shared.DateRange{
			ValidFrom: m.ValidFrom,
			ValidTo:   m.ValidTo,
		},
		PrimaryConsultantID:   m.PrimaryConsultantID,
		SecondaryConsultantID: m.SecondaryConsultantID,
		AssistantID:           m.AssistantID,
		BookkeeperID:          m.BookkeeperID,
		MandateGroupIDs:       make([]uuid.UUID, len(m.GroupAssignments)),
		Members:               make([]mandate.Member, len(m.Members)),
	}
	for i, ga := range m.GroupAssignments {
		md.MandateGroupIDs[i] = ga.MandateGroupID
	}
	for i, member := range m.Members {
		md.Members[i] = *member.ToDomain()
	}
	return md
}

// FromDomain populates the persistence model from a domain Mandate entity.
func (m *MandateModel) FromDomain(md *mandate.Mandate) {
	m.FromDomainAggregateRoot(md.BaseAggregateRoot)
	m.Category = md.Category
	m.Comment = md.Comment
	m.State = md.State
	m.ValidFrom = md.Validity.ValidFrom
	m.ValidTo = md.Validity.ValidTo
	m.PrimaryConsultantID = md.PrimaryConsultantID
	m.SecondaryConsultantID = md.SecondaryConsultantID
	m.AssistantID = md.AssistantID
	m.BookkeeperID = md.BookkeeperID
	m.GroupAssignments = make([]MandateGroupAssignmentModel, len(md.MandateGroupIDs))
	for i, groupID := range md.MandateGroupIDs {
		m.GroupAssignments[i] = MandateGroupAssignmentModel{
			MandateID:      md.ID,
			MandateGroupID: groupID,
		}
	}
	m.Members = make([]MandateMemberModel, len(md.Members))
	for i, member := range md.Members {
		m.Members[i] = *MandateMemberModelFromDomain(&member)
	}
}

// MandateModelFromDomain creates a new persistence model from a domain Mandate entity.
func MandateModelFromDomain(md *mandate.Mandate) *MandateModel {
	m := &MandateModel{}
	m.FromDomain(md)
	return m
}

// MandateGroupAssignmentModel is the join row linking a mandate to an
// authorization mandate group.
type MandateGroupAssignmentModel struct {
	MandateID      uuid.UUID `gorm:"type:uuid;primary_key"`
	MandateGroupID uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (MandateGroupAssignmentModel) TableName() string {
	return "mandate_group_assignments"
}

// MandateMemberModel is the persistence model for a contact's membership
// in a mandate.
type MandateMemberModel struct {
	BaseModel
	MandateID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_member_mandate_contact_type,priority:1"`
	ContactID  uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_member_mandate_contact_type,priority:2;index"`
	MemberType mandate.MemberType `gorm:"type:varchar(30);not null;uniqueIndex:idx_member_mandate_contact_type,priority:3"`
}

// TableName returns the table name for GORM
func (MandateMemberModel) TableName() string {
	return "mandate_members"
}

// ToDomain converts the persistence model to a domain Member entity.
func (m *MandateMemberModel) ToDomain() *mandate.Member {
	return &mandate.Member{
		BaseEntity: m.BaseModel.ToDomain(),
		MandateID:  m.MandateID,
		ContactID:  m.ContactID,
		MemberType: m.MemberType,
	}
}

// MandateMemberModelFromDomain creates a new persistence model from a domain Member entity.
func MandateMemberModelFromDomain(member *mandate.Member) *MandateMemberModel {
	m := &MandateMemberModel{}
	m.FromDomainBaseEntity(member.BaseEntity)
	m.MandateID = member.MandateID
	m.ContactID = member.ContactID
	m.MemberType = member.MemberType
	return m
}

// ActivityModel is the persistence model for the Activity aggregate root.
// Mandate and contact links are join rows loaded with the aggregate.
type ActivityModel struct {
	AggregateModel
	ActivityType mandate.ActivityType `gorm:"type:varchar(20);not null;index"`
	Title        string               `gorm:"type:varchar(200);not null"`
	Description  string               `gorm:"type:text"`
	StartedAt    time.Time            `gorm:"not null;index"`
	EndedAt      *time.Time
	CreatorID    uuid.UUID `gorm:"type:uuid;not null;index"`

	MandateLinks []ActivityMandateModel `gorm:"foreignKey:ActivityID;references:ID"`
	ContactLinks []ActivityContactModel `gorm:"foreignKey:ActivityID;references:ID"`
}

// TableName returns the table name for GORM
func (ActivityModel) TableName() string {
	return "activities"
}

// ToDomain converts the persistence model to a domain Activity entity.
func (m *ActivityModel) ToDomain() *mandate.Activity {
	a := &mandate.Activity{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ActivityType:      m.ActivityType,
		Title:             m.Title,
		Description:       m.Description,
		StartedAt:         m.StartedAt,
		EndedAt:           m.EndedAt,
		CreatorID:         m.CreatorID,
		MandateIDs:        make([]uuid.UUID, len(m.MandateLinks)),
		ContactIDs:        make([]uuid.UUID, len(m.ContactLinks)),
	}
	for i, link := range m.MandateLinks {
		a.MandateIDs[i] = link.MandateID
	}
	for i, link := range m.ContactLinks {
		a.ContactIDs[i] = link.ContactID
	}
	return a
}

// FromDomain populates the persistence model from a domain Activity entity.
func (m *ActivityModel) FromDomain(a *mandate.Activity) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.ActivityType = a.ActivityType
	m.Title = a.Title
	m.Description = a.Description
	m.StartedAt = a.StartedAt
	m.EndedAt = a.EndedAt
	m.CreatorID = a.CreatorID
	m.MandateLinks = make([]ActivityMandateModel, len(a.MandateIDs))
	for i, mandateID := range a.MandateIDs {
		m.MandateLinks[i] = ActivityMandateModel{ActivityID: a.ID, MandateID: mandateID}
	}
	m.ContactLinks = make([]ActivityContactModel, len(a.ContactIDs))
	for i, contactID := range a.ContactIDs {
		m.ContactLinks[i] = ActivityContactModel{ActivityID: a.ID, ContactID: contactID}
	}
}

// ActivityModelFromDomain creates a new persistence model from a domain Activity entity.
func ActivityModelFromDomain(a *mandate.Activity) *ActivityModel {
	m := &ActivityModel{}
	m.FromDomain(a)
	return m
}

// ActivityMandateModel is the join row linking an activity to a mandate.
type ActivityMandateModel struct {
	ActivityID uuid.UUID `gorm:"type:uuid;primary_key"`
	MandateID  uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (ActivityMandateModel) TableName() string {
	return "activity_mandates"
}

// ActivityContactModel is the join row linking an activity to a contact.
type ActivityContactModel struct {
	ActivityID uuid.UUID `gorm:"type:uuid;primary_key"`
	ContactID  uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (ActivityContactModel) TableName() string {
	return "activity_contacts"
}
