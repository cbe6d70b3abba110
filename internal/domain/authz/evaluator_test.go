package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actorWith(t *testing.T, roles []identity.Role, mandateGroups ...uuid.UUID) Actor {
	t.Helper()
	g, err := identity.NewUserGroup("test group", roles)
	require.NoError(t, err)
	for _, id := range mandateGroups {
		require.NoError(t, g.AssignMandateGroup(id))
	}
	return Actor{
		UserID:  uuid.New(),
		Roles:   identity.Resolve([]*identity.UserGroup{g}),
		Channel: ChannelWeb,
	}
}

func TestEvaluator_DenyByDefault(t *testing.T) {
	e := NewEvaluator()
	admin := actorWith(t, []identity.Role{identity.RoleAdmin})

	assert.False(t, e.Allowed(admin, ActionRead, Resource{Kind: ResourceKind("unknown")}))
	assert.False(t, e.Allowed(admin, Action("bogus"), Resource{Kind: KindContact}))
	assert.False(t, e.Allowed(admin, ActionRead, Resource{Kind: KindDocument}), "owner-dispatched kinds deny without an owner")
}

func TestEvaluator_AdminOnlyResources(t *testing.T) {
	e := NewEvaluator()
	admin := actorWith(t, []identity.Role{identity.RoleAdmin})
	reader := actorWith(t, []identity.Role{identity.RoleContactsRead})

	for _, kind := range []ResourceKind{KindUserGroup, KindMandateGroup, KindSubscriber} {
		assert.True(t, e.Allowed(admin, ActionWrite, Resource{Kind: kind}), string(kind))
		assert.False(t, e.Allowed(reader, ActionRead, Resource{Kind: kind}), string(kind))
	}
}

func TestEvaluator_UsersSelfAccess(t *testing.T) {
	e := NewEvaluator()
	actor := actorWith(t, nil)

	own := Resource{Kind: KindUser, ID: actor.UserID}
	other := Resource{Kind: KindUser, ID: uuid.New()}

	assert.True(t, e.Allowed(actor, ActionRead, own))
	assert.True(t, e.Allowed(actor, ActionWrite, own))
	assert.False(t, e.Allowed(actor, ActionDestroy, own), "self access excludes destroy")
	assert.False(t, e.Allowed(actor, ActionRead, other))

	admin := actorWith(t, []identity.Role{identity.RoleAdmin})
	assert.True(t, e.Allowed(admin, ActionDestroy, other))
}

func TestEvaluator_ContactResourcesUseGlobalRoles(t *testing.T) {
	e := NewEvaluator()
	reader := actorWith(t, []identity.Role{identity.RoleContactsRead})

	contact := Resource{Kind: KindContact, ID: uuid.New()}
	assert.True(t, e.Allowed(reader, ActionRead, contact))
	assert.False(t, e.Allowed(reader, ActionWrite, contact))
	assert.False(t, e.Allowed(reader, ActionExport, contact))

	for _, kind := range []ResourceKind{KindContactDetail, KindComplianceDetail, KindTaxDetail, KindContactRelation} {
		assert.True(t, e.Allowed(reader, ActionRead, Resource{Kind: kind}), string(kind))
	}
}

func TestEvaluator_MandateScopedByGroup(t *testing.T) {
	e := NewEvaluator()
	g1 := uuid.New()
	g2 := uuid.New()
	actor := actorWith(t, []identity.Role{identity.RoleMandatesRead}, g1)

	inScope := Resource{Kind: KindMandate, MandateGroupIDs: []uuid.UUID{g1, g2}}
	outOfScope := Resource{Kind: KindMandate, MandateGroupIDs: []uuid.UUID{g2}}

	assert.True(t, e.Allowed(actor, ActionRead, inScope))
	assert.False(t, e.Allowed(actor, ActionRead, outOfScope))
	assert.False(t, e.Allowed(actor, ActionWrite, inScope), "read grant does not imply write")
}

func TestEvaluator_FundResourcesUseGlobalRoles(t *testing.T) {
	e := NewEvaluator()
	writer := actorWith(t, []identity.Role{identity.RoleFundsWrite})

	for _, kind := range []ResourceKind{KindFund, KindInvestor, KindFundCashflow, KindInvestorCashflow, KindFundReport} {
		assert.True(t, e.Allowed(writer, ActionWrite, Resource{Kind: kind}), string(kind))
		assert.False(t, e.Allowed(writer, ActionDestroy, Resource{Kind: kind}), string(kind))
	}
}

func TestEvaluator_TaskOwnership(t *testing.T) {
	e := NewEvaluator()
	admin := actorWith(t, []identity.Role{identity.RoleAdmin})
	creator := actorWith(t, nil)
	assignee := actorWith(t, nil)

	task := Resource{
		Kind:        KindTask,
		CreatorID:   creator.UserID,
		AssigneeIDs: []uuid.UUID{assignee.UserID},
	}

	assert.True(t, e.Allowed(creator, ActionRead, task))
	assert.True(t, e.Allowed(assignee, ActionWrite, task))
	assert.False(t, e.Allowed(admin, ActionRead, task), "foreign tasks are invisible even to admins")

	comment := Resource{Kind: KindTaskComment, CreatorID: creator.UserID, AuthorID: assignee.UserID}
	assert.True(t, e.Allowed(assignee, ActionWrite, comment))
}

func TestEvaluator_OwnerDispatch(t *testing.T) {
	e := NewEvaluator()
	mg := uuid.New()
	mandateReader := actorWith(t, []identity.Role{identity.RoleMandatesRead}, mg)
	contactReader := actorWith(t, []identity.Role{identity.RoleContactsRead})
	fundReader := actorWith(t, []identity.Role{identity.RoleFundsRead})

	mandateDoc := Resource{
		Kind:            KindDocument,
		Owner:           &shared.OwnerRef{Kind: shared.OwnerMandate, ID: uuid.New()},
		MandateGroupIDs: []uuid.UUID{mg},
	}
	contactDoc := Resource{
		Kind:  KindDocument,
		Owner: &shared.OwnerRef{Kind: shared.OwnerContact, ID: uuid.New()},
	}
	fundAccount := Resource{
		Kind:  KindBankAccount,
		Owner: &shared.OwnerRef{Kind: shared.OwnerFund, ID: uuid.New()},
	}
	activityDoc := Resource{
		Kind:                    KindDocument,
		Owner:                   &shared.OwnerRef{Kind: shared.OwnerActivity, ID: uuid.New()},
		ActivityMandateGroupIDs: []uuid.UUID{mg},
	}

	assert.True(t, e.Allowed(mandateReader, ActionRead, mandateDoc))
	assert.False(t, e.Allowed(contactReader, ActionRead, mandateDoc))
	assert.True(t, e.Allowed(contactReader, ActionRead, contactDoc))
	assert.True(t, e.Allowed(fundReader, ActionRead, fundAccount))
	assert.True(t, e.Allowed(mandateReader, ActionRead, activityDoc))
	assert.False(t, e.Allowed(fundReader, ActionRead, activityDoc))

	contactActivityDoc := activityDoc
	contactActivityDoc.ActivityContactOwned = true
	assert.True(t, e.Allowed(contactReader, ActionRead, contactActivityDoc))
}

func TestEvaluator_EWSChannelRestrictions(t *testing.T) {
	e := NewEvaluator()
	actor := actorWith(t, []identity.Role{identity.RoleAdmin})
	actor.Channel = ChannelEWS

	task := Resource{Kind: KindTask, CreatorID: actor.UserID}
	contact := Resource{Kind: KindContact}

	assert.True(t, e.Allowed(actor, ActionRead, contact))
	assert.True(t, e.Allowed(actor, ActionRead, task))
	assert.True(t, e.Allowed(actor, ActionWrite, task))

	// The reduced surface wins over any role the key carries.
	assert.False(t, e.Allowed(actor, ActionWrite, contact))
	assert.False(t, e.Allowed(actor, ActionDestroy, task))
	assert.False(t, e.Allowed(actor, ActionRead, Resource{Kind: KindFund}))
	assert.False(t, e.Allowed(actor, ActionRead, Resource{Kind: KindUserGroup}))
}
