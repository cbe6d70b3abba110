package authz

import (
	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// ResourceKind identifies the entity type a permission check is about
type ResourceKind string

const (
	KindUser             ResourceKind = "users"
	KindUserGroup        ResourceKind = "user_groups"
	KindMandateGroup     ResourceKind = "mandate_groups"
	KindContact          ResourceKind = "contacts"
	KindContactDetail    ResourceKind = "contact_details"
	KindComplianceDetail ResourceKind = "compliance_details"
	KindTaxDetail        ResourceKind = "tax_details"
	KindContactRelation  ResourceKind = "contact_relationships"
	KindAddress          ResourceKind = "addresses"
	KindMandate          ResourceKind = "mandates"
	KindBankAccount      ResourceKind = "bank_accounts"
	KindActivity         ResourceKind = "activities"
	KindDocument         ResourceKind = "documents"
	KindFund             ResourceKind = "funds"
	KindInvestor         ResourceKind = "investors"
	KindFundCashflow     ResourceKind = "fund_cashflows"
	KindInvestorCashflow ResourceKind = "investor_cashflows"
	KindFundReport       ResourceKind = "fund_reports"
	KindTask             ResourceKind = "tasks"
	KindTaskComment      ResourceKind = "task_comments"
	KindList             ResourceKind = "lists"
	KindSubscriber       ResourceKind = "newsletter_subscribers"
	KindVersion          ResourceKind = "versions"
)

// String returns the string representation of ResourceKind
func (k ResourceKind) String() string {
	return string(k)
}

// Resource describes the record under a permission check. The evaluator
// never loads data itself; the caller fills in whatever the resource kind's
// rule needs (owner, mandate groups, task participants).
type Resource struct {
	Kind ResourceKind
	ID   uuid.UUID

	// Owner is set for polymorphically owned records (documents, bank
	// accounts, addresses). The evaluator dispatches on Owner.Kind.
	Owner *shared.OwnerRef

	// MandateGroupIDs are the groups of the owning mandate, for
	// mandate-scoped resources.
	MandateGroupIDs []uuid.UUID

	// ActivityMandateGroupIDs carry the mandate scoping through an
	// activity owner (document owned by an activity attached to a mandate).
	ActivityMandateGroupIDs []uuid.UUID
	// ActivityContactOwned marks an activity (or activity-owned record)
	// attached to a contact rather than a mandate.
	ActivityContactOwned bool

	// Task ownership, independent of the role system.
	CreatorID   uuid.UUID
	AssigneeIDs []uuid.UUID
	AuthorID    uuid.UUID
}
