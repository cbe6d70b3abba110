package identity

import "strings"

// Role is a named permission grant carried by a user group. Roles of the
// mandates_* family are scoped: they only take effect for mandates inside
// the group's assigned mandate groups. All other roles are global.
type Role string

const (
	RoleAdmin Role = "admin"

	RoleContactsRead    Role = "contacts_read"
	RoleContactsWrite   Role = "contacts_write"
	RoleContactsDestroy Role = "contacts_destroy"
	RoleContactsExport  Role = "contacts_export"

	RoleFundsRead    Role = "funds_read"
	RoleFundsWrite   Role = "funds_write"
	RoleFundsDestroy Role = "funds_destroy"
	RoleFundsExport  Role = "funds_export"

	RoleMandatesRead    Role = "mandates_read"
	RoleMandatesWrite   Role = "mandates_write"
	RoleMandatesDestroy Role = "mandates_destroy"
	RoleMandatesExport  Role = "mandates_export"
)

var allRoles = map[Role]struct{}{
	RoleAdmin:           {},
	RoleContactsRead:    {},
	RoleContactsWrite:   {},
	RoleContactsDestroy: {},
	RoleContactsExport:  {},
	RoleFundsRead:       {},
	RoleFundsWrite:      {},
	RoleFundsDestroy:    {},
	RoleFundsExport:     {},
	RoleMandatesRead:    {},
	RoleMandatesWrite:   {},
	RoleMandatesDestroy: {},
	RoleMandatesExport:  {},
}

// IsValid checks if the role is a known Role
func (r Role) IsValid() bool {
	_, ok := allRoles[r]
	return ok
}

// IsScoped reports whether the role is restricted to mandate groups.
// A scoped role inside a user group without mandate groups grants nothing.
func (r Role) IsScoped() bool {
	return strings.HasPrefix(string(r), "mandates_")
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// RoleSet is a set of roles
type RoleSet map[Role]struct{}

// NewRoleSet creates a set from the given roles
func NewRoleSet(roles ...Role) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Has reports whether the role is in the set
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// Add inserts a role into the set
func (s RoleSet) Add(role Role) {
	s[role] = struct{}{}
}

// Union merges the other set into a new set
func (s RoleSet) Union(other RoleSet) RoleSet {
	out := make(RoleSet, len(s)+len(other))
	for r := range s {
		out[r] = struct{}{}
	}
	for r := range other {
		out[r] = struct{}{}
	}
	return out
}

// List returns the roles as a slice (order unspecified)
func (s RoleSet) List() []Role {
	out := make([]Role, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	return out
}
