package identity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGroup(t *testing.T, name string, roles []Role, mandateGroups ...uuid.UUID) *UserGroup {
	t.Helper()
	g, err := NewUserGroup(name, roles)
	require.NoError(t, err)
	for _, id := range mandateGroups {
		require.NoError(t, g.AssignMandateGroup(id))
	}
	return g
}

func TestResolve_GlobalRolesAreUnioned(t *testing.T) {
	g1 := newGroup(t, "compliance", []Role{RoleContactsRead})
	g2 := newGroup(t, "back-office", []Role{RoleContactsWrite, RoleFundsRead})

	resolved := Resolve([]*UserGroup{g1, g2})

	assert.True(t, resolved.HasGlobal(RoleContactsRead))
	assert.True(t, resolved.HasGlobal(RoleContactsWrite))
	assert.True(t, resolved.HasGlobal(RoleFundsRead))
	assert.False(t, resolved.HasGlobal(RoleAdmin))
}

func TestResolve_ScopedRolesAreTiedToMandateGroups(t *testing.T) {
	family := uuid.New()
	org := uuid.New()
	g1 := newGroup(t, "family office", []Role{RoleMandatesRead}, family)
	g2 := newGroup(t, "advisors", []Role{RoleMandatesRead, RoleMandatesWrite}, org)

	resolved := Resolve([]*UserGroup{g1, g2})

	assert.False(t, resolved.HasGlobal(RoleMandatesRead), "scoped roles never become global")
	assert.True(t, resolved.HasScoped(RoleMandatesRead, []uuid.UUID{family}))
	assert.True(t, resolved.HasScoped(RoleMandatesWrite, []uuid.UUID{org}))
	assert.False(t, resolved.HasScoped(RoleMandatesWrite, []uuid.UUID{family}))
	assert.False(t, resolved.HasScoped(RoleMandatesRead, []uuid.UUID{uuid.New()}))
}

func TestResolve_ScopedRoleWithoutMandateGroupsIsInert(t *testing.T) {
	g := newGroup(t, "unassigned", []Role{RoleMandatesRead})

	resolved := Resolve([]*UserGroup{g})

	assert.Empty(t, resolved.Scoped)
	assert.Empty(t, resolved.MandateGroupIDsWith(RoleMandatesRead))

	// The role only takes effect once the group is attached to a mandate group.
	mg := uuid.New()
	require.NoError(t, g.AssignMandateGroup(mg))
	resolved = Resolve([]*UserGroup{g})
	assert.True(t, resolved.HasScoped(RoleMandatesRead, []uuid.UUID{mg}))
}

func TestResolve_AdminPassesScopedChecks(t *testing.T) {
	g := newGroup(t, "admins", []Role{RoleAdmin})

	resolved := Resolve([]*UserGroup{g})

	assert.True(t, resolved.IsAdmin())
	assert.True(t, resolved.HasScoped(RoleMandatesDestroy, []uuid.UUID{uuid.New()}))
}

func TestResolve_MandateGroupIDsWith(t *testing.T) {
	readable := uuid.New()
	writable := uuid.New()
	g1 := newGroup(t, "readers", []Role{RoleMandatesRead}, readable, writable)
	g2 := newGroup(t, "writers", []Role{RoleMandatesWrite}, writable)

	resolved := Resolve([]*UserGroup{g1, g2})

	assert.ElementsMatch(t, []uuid.UUID{readable, writable}, resolved.MandateGroupIDsWith(RoleMandatesRead))
	assert.ElementsMatch(t, []uuid.UUID{writable}, resolved.MandateGroupIDsWith(RoleMandatesWrite))
}

func TestRole_IsScoped(t *testing.T) {
	tests := []struct {
		role   Role
		scoped bool
	}{
		{RoleMandatesRead, true},
		{RoleMandatesWrite, true},
		{RoleMandatesDestroy, true},
		{RoleMandatesExport, true},
		{RoleAdmin, false},
		{RoleContactsRead, false},
		{RoleFundsExport, false},
	}
	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			assert.Equal(t, tt.scoped, tt.role.IsScoped())
		})
	}
}
