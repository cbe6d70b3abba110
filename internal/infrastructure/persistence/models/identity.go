package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/rmcsharry/hq-api/internal/domain/identity"
)

// UserModel is the persistence model for the User aggregate root.
type UserModel struct {
	AggregateModel
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	ContactID    *uuid.UUID `gorm:"type:uuid;index"`

	ConfirmationToken  *string `gorm:"type:varchar(100);index"`
	ConfirmationSentAt *time.Time
	ConfirmedAt        *time.Time

	InvitationToken  *string `gorm:"type:varchar(100);index"`
	InvitationSentAt *time.Time
	InvitedByID      *uuid.UUID `gorm:"type:uuid"`

	ResetToken       *string `gorm:"type:varchar(100);index"`
	ResetTokenSentAt *time.Time

	SignInCount     int `gorm:"not null;default:0"`
	CurrentSignInAt *time.Time
	LastSignInAt    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot:  m.ToDomainAggregateRoot(),
		Email:              m.Email,
		PasswordHash:       m.PasswordHash,
		ContactID:          m.ContactID,
		ConfirmationToken:  m.ConfirmationToken,
		ConfirmationSentAt: m.ConfirmationSentAt,
		ConfirmedAt:        m.ConfirmedAt,
		InvitationToken:    m.InvitationToken,
		InvitationSentAt:   m.InvitationSentAt,
		InvitedByID:        m.InvitedByID,
		ResetToken:         m.ResetToken,
		ResetTokenSentAt:   m.ResetTokenSentAt,
		SignInCount:        m.SignInCount,
		CurrentSignInAt:    m.CurrentSignInAt,
		LastSignInAt:       m.LastSignInAt,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.PasswordHash = u.PasswordHash
	m.ContactID = u.ContactID
	m.ConfirmationToken = u.ConfirmationToken
	m.ConfirmationSentAt = u.ConfirmationSentAt
	m.ConfirmedAt = u.ConfirmedAt
	m.InvitationToken = u.InvitationToken
	m.InvitationSentAt = u.InvitationSentAt
	m.InvitedByID = u.InvitedByID
	m.ResetToken = u.ResetToken
	m.ResetTokenSentAt = u.ResetTokenSentAt
	m.SignInCount = u.SignInCount
	m.CurrentSignInAt = u.CurrentSignInAt
	m.LastSignInAt = u.LastSignInAt
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}

// UserGroupModel is the persistence model for the UserGroup aggregate
// root. Roles, user memberships and mandate group assignments are child
// rows loaded with the aggregate.
type UserGroupModel struct {
	AggregateModel
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Comment string `gorm:"type:text"`

	Roles         []UserGroupRoleModel         `gorm:"foreignKey:UserGroupID;references:ID"`
	Users         []UserGroupUserModel         `gorm:"foreignKey:UserGroupID;references:ID"`
	MandateGroups []UserGroupMandateGroupModel `gorm:"foreignKey:UserGroupID;references:ID"`
}

// TableName returns the table name for GORM
func (UserGroupModel) TableName() string {
	return "user_groups"
}

// ToDomain converts the persistence model to a domain UserGroup entity.
func (m *UserGroupModel) ToDomain() *identity.UserGroup {
	g := &identity.UserGroup{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Comment:           m.Comment,
		Roles:             make([]identity.Role, len(m.Roles)),
		UserIDs:           make([]uuid.UUID, len(m.Users)),
		MandateGroupIDs:   make([]uuid.UUID, len(m.MandateGroups)),
	}
	for i, role := range m.Roles {
		g.Roles[i] = role.Role
	}
	for i, user := range m.Users {
		g.UserIDs[i] = user.UserID
	}
	for i, mg := range m.MandateGroups {
		g.MandateGroupIDs[i] = mg.MandateGroupID
	}
	return g
}

// FromDomain populates the persistence model from a domain UserGroup entity.
func (m *UserGroupModel) FromDomain(g *identity.UserGroup) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Name = g.Name
	m.Comment = g.Comment
	m.Roles = make([]UserGroupRoleModel, len(g.Roles))
	for i, role := range g.Roles {
		m.Roles[i] = UserGroupRoleModel{UserGroupID: g.ID, Role: role}
	}
	m.Users = make([]UserGroupUserModel, len(g.UserIDs))
	for i, userID := range g.UserIDs {
		m.Users[i] = UserGroupUserModel{UserGroupID: g.ID, UserID: userID}
	}
	m.MandateGroups = make([]UserGroupMandateGroupModel, len(g.MandateGroupIDs))
	for i, groupID := range g.MandateGroupIDs {
		m.MandateGroups[i] = UserGroupMandateGroupModel{UserGroupID: g.ID, MandateGroupID: groupID}
	}
}

// UserGroupModelFromDomain creates a new persistence model from a domain UserGroup entity.
func UserGroupModelFromDomain(g *identity.UserGroup) *UserGroupModel {
	m := &UserGroupModel{}
	m.FromDomain(g)
	return m
}

// UserGroupRoleModel is the join row granting a role to a user group.
type UserGroupRoleModel struct {
	UserGroupID uuid.UUID     `gorm:"type:uuid;primary_key"`
	Role        identity.Role `gorm:"type:varchar(50);primary_key"`
}

// TableName returns the table name for GORM
func (UserGroupRoleModel) TableName() string {
	return "user_group_roles"
}

// UserGroupUserModel is the join row linking a user to a user group.
type UserGroupUserModel struct {
	UserGroupID uuid.UUID `gorm:"type:uuid;primary_key"`
	UserID      uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (UserGroupUserModel) TableName() string {
	return "user_group_users"
}

// UserGroupMandateGroupModel is the join row scoping a user group's
// mandate roles to a mandate group.
type UserGroupMandateGroupModel struct {
	UserGroupID    uuid.UUID `gorm:"type:uuid;primary_key"`
	MandateGroupID uuid.UUID `gorm:"type:uuid;primary_key;index"`
}

// TableName returns the table name for GORM
func (UserGroupMandateGroupModel) TableName() string {
	return "user_group_mandate_groups"
}

// MandateGroupModel is the persistence model for the MandateGroup
// aggregate root.
type MandateGroupModel struct {
	AggregateModel
	Name      string                    `gorm:"type:varchar(100);not null;index"`
	GroupType identity.MandateGroupType `gorm:"type:varchar(20);not null;index"`
	Comment   string                    `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (MandateGroupModel) TableName() string {
	return "mandate_groups"
}

// ToDomain converts the persistence model to a domain MandateGroup entity.
func (m *MandateGroupModel) ToDomain() *identity.MandateGroup {
	return &identity.MandateGroup{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		GroupType:         m.GroupType,
		Comment:           m.Comment,
	}
}

// FromDomain populates the persistence model from a domain MandateGroup entity.
func (m *MandateGroupModel) FromDomain(g *identity.MandateGroup) {
	m.FromDomainAggregateRoot(g.BaseAggregateRoot)
	m.Name = g.Name
	m.GroupType = g.GroupType
	m.Comment = g.Comment
}

// MandateGroupModelFromDomain creates a new persistence model from a domain MandateGroup entity.
func MandateGroupModelFromDomain(g *identity.MandateGroup) *MandateGroupModel {
	m := &MandateGroupModel{}
	m.FromDomain(g)
	return m
}
