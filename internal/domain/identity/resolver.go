package identity

import "github.com/google/uuid"

// ResolvedRoles is the result of resolving a user's group memberships:
// the union of global role grants plus the scoped grants keyed by
// mandate group.
type ResolvedRoles struct {
	Global RoleSet
	Scoped map[uuid.UUID]RoleSet
}

// Resolve computes the role grants for a user from its group memberships.
// It is a pure function of the passed associations and is re-run on every
// request; there is no caching layer.
//
// Global grants are the union of all roles across the groups. A scoped role
// is additionally granted for every mandate group assigned to a user group
// that carries it; a user group carrying a scoped role but no mandate
// groups grants that role for no mandate.
func Resolve(groups []*UserGroup) ResolvedRoles {
	resolved := ResolvedRoles{
		Global: make(RoleSet),
		Scoped: make(map[uuid.UUID]RoleSet),
	}
	for _, g := range groups {
		for _, role := range g.Roles {
			if !role.IsScoped() {
				resolved.Global.Add(role)
				continue
			}
			for _, mgID := range g.MandateGroupIDs {
				set, ok := resolved.Scoped[mgID]
				if !ok {
					set = make(RoleSet)
					resolved.Scoped[mgID] = set
				}
				set.Add(role)
			}
		}
	}
	return resolved
}

// HasGlobal reports whether the global role is granted
func (r ResolvedRoles) HasGlobal(role Role) bool {
	return r.Global.Has(role)
}

// HasScoped reports whether the role is granted for any of the given
// mandate groups. Admins pass every scoped check.
func (r ResolvedRoles) HasScoped(role Role, mandateGroupIDs []uuid.UUID) bool {
	if r.Global.Has(RoleAdmin) {
		return true
	}
	for _, id := range mandateGroupIDs {
		if set, ok := r.Scoped[id]; ok && set.Has(role) {
			return true
		}
	}
	return false
}

// MandateGroupIDsWith returns the mandate groups for which the role is
// granted. List queries use this to build their visibility predicate.
func (r ResolvedRoles) MandateGroupIDsWith(role Role) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Scoped))
	for id, set := range r.Scoped {
		if set.Has(role) {
			ids = append(ids, id)
		}
	}
	return ids
}

// IsAdmin reports whether the global admin role is granted
func (r ResolvedRoles) IsAdmin() bool {
	return r.Global.Has(RoleAdmin)
}
