package identity

import (
	"strings"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// UserGroup is a named set of role grants shared by its member users.
// Scoped roles (mandates_*) apply only to mandates inside the group's
// mandate groups; a scoped role in a group without mandate groups is inert.
type UserGroup struct {
	shared.BaseAggregateRoot
	Name            string
	Comment         string
	Roles           []Role
	MandateGroupIDs []uuid.UUID
	UserIDs         []uuid.UUID
}

// NewUserGroup creates a new user group
func NewUserGroup(name string, roles []Role) (*UserGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "User group name cannot be empty")
	}
	for _, r := range roles {
		if !r.IsValid() {
			return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+r.String())
		}
	}
	return &UserGroup{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Roles:             append([]Role(nil), roles...),
		MandateGroupIDs:   make([]uuid.UUID, 0),
		UserIDs:           make([]uuid.UUID, 0),
	}, nil
}

// Rename changes the group name
func (g *UserGroup) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "User group name cannot be empty")
	}
	g.Name = name
	return nil
}

// SetRoles replaces the group's role set
func (g *UserGroup) SetRoles(roles []Role) error {
	for _, r := range roles {
		if !r.IsValid() {
			return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+r.String())
		}
	}
	g.Roles = append([]Role(nil), roles...)
	return nil
}

// HasRole reports whether the group carries the role
func (g *UserGroup) HasRole(role Role) bool {
	for _, r := range g.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// AssignMandateGroup attaches a mandate group to this user group
func (g *UserGroup) AssignMandateGroup(mandateGroupID uuid.UUID) error {
	if mandateGroupID == uuid.Nil {
		return shared.NewDomainError("INVALID_MANDATE_GROUP", "Mandate group ID cannot be empty")
	}
	for _, id := range g.MandateGroupIDs {
		if id == mandateGroupID {
			return nil
		}
	}
	g.MandateGroupIDs = append(g.MandateGroupIDs, mandateGroupID)
	return nil
}

// RemoveMandateGroup detaches a mandate group from this user group
func (g *UserGroup) RemoveMandateGroup(mandateGroupID uuid.UUID) {
	for i, id := range g.MandateGroupIDs {
		if id == mandateGroupID {
			g.MandateGroupIDs = append(g.MandateGroupIDs[:i], g.MandateGroupIDs[i+1:]...)
			return
		}
	}
}

// AddUser adds a user to the group membership
func (g *UserGroup) AddUser(userID uuid.UUID) error {
	if userID == uuid.Nil {
		return shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	for _, id := range g.UserIDs {
		if id == userID {
			return nil
		}
	}
	g.UserIDs = append(g.UserIDs, userID)
	return nil
}

// RemoveUser removes a user from the group membership
func (g *UserGroup) RemoveUser(userID uuid.UUID) {
	for i, id := range g.UserIDs {
		if id == userID {
			g.UserIDs = append(g.UserIDs[:i], g.UserIDs[i+1:]...)
			return
		}
	}
}

// ContainsUser reports whether the user belongs to the group
func (g *UserGroup) ContainsUser(userID uuid.UUID) bool {
	for _, id := range g.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
