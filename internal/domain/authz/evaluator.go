package authz

import (
	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/identity"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// Channel identifies how the request was authenticated. The EWS channel
// (API-key callers syncing calendars and tasks) gets a reduced surface
// regardless of the roles behind the key.
type Channel string

const (
	ChannelWeb Channel = "web"
	ChannelEWS Channel = "ews"
)

// Actor is the requesting principal with its resolved role grants
type Actor struct {
	UserID  uuid.UUID
	Roles   identity.ResolvedRoles
	Channel Channel
}

// rule selects the permission strategy for a resource kind
type rule int

const (
	ruleAdminOnly rule = iota
	ruleSelfOrAdmin
	ruleContacts
	ruleFunds
	ruleMandates
	ruleTaskOwnership
	ruleByOwner
)

// rules is the declarative (resource kind -> strategy) table. Unlisted
// kinds are denied for every action.
var rules = map[ResourceKind]rule{
	KindUser:             ruleSelfOrAdmin,
	KindUserGroup:        ruleAdminOnly,
	KindMandateGroup:     ruleAdminOnly,
	KindContact:          ruleContacts,
	KindContactDetail:    ruleContacts,
	KindComplianceDetail: ruleContacts,
	KindTaxDetail:        ruleContacts,
	KindContactRelation:  ruleContacts,
	KindMandate:          ruleMandates,
	KindFund:             ruleFunds,
	KindInvestor:         ruleFunds,
	KindFundCashflow:     ruleFunds,
	KindInvestorCashflow: ruleFunds,
	KindFundReport:       ruleFunds,
	KindTask:             ruleTaskOwnership,
	KindTaskComment:      ruleTaskOwnership,
	KindList:             ruleTaskOwnership,
	KindSubscriber:       ruleAdminOnly,
	KindBankAccount:      ruleByOwner,
	KindDocument:         ruleByOwner,
	KindActivity:         ruleByOwner,
	KindAddress:          ruleByOwner,
}

// ewsSurface is the reduced (kind, action) surface for API-key callers.
// Actions outside this table are unconditionally forbidden on the EWS
// channel, even when the resolved roles would permit them.
var ewsSurface = map[ResourceKind]map[Action]bool{
	KindContact:  {ActionRead: true},
	KindTask:     {ActionRead: true, ActionWrite: true},
	KindActivity: {ActionRead: true, ActionWrite: true},
}

// Evaluator decides allow/deny for (actor, action, resource). It is
// deny-by-default: unknown kinds, invalid actions and missing roles all
// deny rather than erroring.
type Evaluator struct{}

// NewEvaluator creates a permission evaluator
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Allowed decides whether the actor may perform the action on the resource
func (e *Evaluator) Allowed(actor Actor, action Action, res Resource) bool {
	if !action.IsValid() {
		return false
	}
	if actor.Channel == ChannelEWS {
		if perm, ok := ewsSurface[res.Kind]; !ok || !perm[action] {
			return false
		}
	}
	r, ok := rules[res.Kind]
	if !ok {
		return false
	}
	switch r {
	case ruleAdminOnly:
		return actor.Roles.IsAdmin()
	case ruleSelfOrAdmin:
		// Users may always read and update their own record.
		if res.ID == actor.UserID && (action == ActionRead || action == ActionWrite) {
			return true
		}
		return actor.Roles.IsAdmin()
	case ruleContacts:
		return e.globalAllowed(actor, "contacts", action)
	case ruleFunds:
		return e.globalAllowed(actor, "funds", action)
	case ruleMandates:
		return e.mandateAllowed(actor, action, res.MandateGroupIDs)
	case ruleTaskOwnership:
		return e.taskAllowed(actor, res)
	case ruleByOwner:
		return e.ownerAllowed(actor, action, res)
	}
	return false
}

// globalAllowed checks an unscoped role family (contacts_*, funds_*)
func (e *Evaluator) globalAllowed(actor Actor, family string, action Action) bool {
	if actor.Roles.IsAdmin() {
		return true
	}
	return actor.Roles.HasGlobal(identity.Role(family + "_" + action.String()))
}

// mandateAllowed checks the scoped mandates_* role against the mandate's groups
func (e *Evaluator) mandateAllowed(actor Actor, action Action, groupIDs []uuid.UUID) bool {
	return actor.Roles.HasScoped(identity.Role("mandates_"+action.String()), groupIDs)
}

// taskAllowed implements the ownership check for tasks, comments and lists:
// visible and mutable only for the creator, an assignee, or the comment
// author. Foreign tasks stay invisible regardless of roles.
func (e *Evaluator) taskAllowed(actor Actor, res Resource) bool {
	if res.CreatorID == actor.UserID || res.AuthorID == actor.UserID {
		return true
	}
	for _, id := range res.AssigneeIDs {
		if id == actor.UserID {
			return true
		}
	}
	return false
}

// ownerAllowed dispatches a polymorphically owned record to the rule of
// its owner kind.
func (e *Evaluator) ownerAllowed(actor Actor, action Action, res Resource) bool {
	if res.Owner == nil {
		return false
	}
	switch res.Owner.Kind {
	case shared.OwnerContact:
		return e.globalAllowed(actor, "contacts", action)
	case shared.OwnerFund:
		return e.globalAllowed(actor, "funds", action)
	case shared.OwnerMandate:
		return e.mandateAllowed(actor, action, res.MandateGroupIDs)
	case shared.OwnerActivity:
		// An activity-owned record follows the activity's own attachment:
		// contact-attached activities use the contacts roles, mandate-attached
		// ones the scoped mandates roles.
		if res.ActivityContactOwned {
			return e.globalAllowed(actor, "contacts", action)
		}
		return e.mandateAllowed(actor, action, res.ActivityMandateGroupIDs)
	}
	return false
}
