package cascade

import (
	"context"

	"github.com/google/uuid"
	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

// OnDelete is the policy applied to a dependent when its parent is deleted
type OnDelete string

const (
	Cascade  OnDelete = "cascade"
	Nullify  OnDelete = "nullify"
	Restrict OnDelete = "restrict"
)

// Rule declares how one dependent entity type reacts to the deletion of a
// parent entity type.
type Rule struct {
	Dependent string
	OnDelete  OnDelete
}

// Policy maps each entity type to the rules for its dependents. Keeping
// the cascade behavior in one table instead of scattering it across the
// aggregates makes the deletion semantics auditable in a single place.
type Policy map[string][]Rule

// Ref identifies one record in the deletion graph
type Ref struct {
	Entity string
	ID     uuid.UUID
}

// Lookup resolves the live dependents of a record. Implemented by the
// persistence layer.
type Lookup interface {
	FindDependents(ctx context.Context, dependent string, parent Ref) ([]uuid.UUID, error)
}

// Plan is the fully computed outcome of a delete request: every record to
// remove (children before parents) and every foreign key to clear. The
// executor applies it inside one transaction.
type Plan struct {
	Deletions []Ref
	Nullifies []Ref
}

// DefaultPolicy covers the platform's entity graph.
var DefaultPolicy = Policy{
	"Contact": {
		{Dependent: "Address", OnDelete: Cascade},
		{Dependent: "ContactDetail", OnDelete: Cascade},
		{Dependent: "TaxDetail", OnDelete: Cascade},
		{Dependent: "ComplianceDetail", OnDelete: Cascade},
		{Dependent: "ContactRelationship", OnDelete: Cascade},
		{Dependent: "Document", OnDelete: Cascade},
		{Dependent: "MandateMember", OnDelete: Restrict},
		{Dependent: "Investor", OnDelete: Restrict},
		{Dependent: "Task", OnDelete: Nullify},
	},
	"Mandate": {
		{Dependent: "MandateMember", OnDelete: Cascade},
		{Dependent: "BankAccount", OnDelete: Cascade},
		{Dependent: "Activity", OnDelete: Nullify},
		{Dependent: "Document", OnDelete: Cascade},
		{Dependent: "Investor", OnDelete: Restrict},
		{Dependent: "Task", OnDelete: Nullify},
	},
	"Fund": {
		{Dependent: "Investor", OnDelete: Restrict},
		{Dependent: "FundCashflow", OnDelete: Restrict},
		{Dependent: "FundReport", OnDelete: Cascade},
		{Dependent: "BankAccount", OnDelete: Cascade},
		{Dependent: "Document", OnDelete: Cascade},
	},
	"FundCashflow": {
		{Dependent: "InvestorCashflow", OnDelete: Cascade},
	},
	"Investor": {
		{Dependent: "InvestorCashflow", OnDelete: Restrict},
	},
	"Activity": {
		{Dependent: "Document", OnDelete: Cascade},
	},
	"Task": {
		{Dependent: "TaskComment", OnDelete: Cascade},
	},
	"UserGroup":    {},
	"MandateGroup": {},
}

// Planner computes deletion plans against a policy table
type Planner struct {
	policy Policy
	lookup Lookup
}

// NewPlanner creates a planner over the given policy
func NewPlanner(policy Policy, lookup Lookup) *Planner {
	return &Planner{policy: policy, lookup: lookup}
}

// Plan walks the dependency graph from the root and computes the complete
// deletion set before anything is executed. A restrict rule with live
// dependents aborts the whole plan with ErrDeleteRestricted.
func (p *Planner) Plan(ctx context.Context, root Ref) (*Plan, error) {
	plan := &Plan{}
	if err := p.walk(ctx, root, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (p *Planner) walk(ctx context.Context, rec Ref, plan *Plan) error {
	for _, rule := range p.policy[rec.Entity] {
		ids, err := p.lookup.FindDependents(ctx, rule.Dependent, rec)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			continue
		}
		switch rule.OnDelete {
		case Restrict:
			return shared.ErrDeleteRestricted
		case Nullify:
			for _, id := range ids {
				plan.Nullifies = append(plan.Nullifies, Ref{Entity: rule.Dependent, ID: id})
			}
		case Cascade:
			for _, id := range ids {
				if err := p.walk(ctx, Ref{Entity: rule.Dependent, ID: id}, plan); err != nil {
					return err
				}
			}
		}
	}
	// children first, the record itself last
	plan.Deletions = append(plan.Deletions, rec)
	return nil
}
