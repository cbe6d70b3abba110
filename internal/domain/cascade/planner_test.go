package cascade

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rmcsharry/hq-api/internal/domain/shared"
)

type stubLookup struct {
	dependents map[string]map[Ref][]uuid.UUID
}

func newStubLookup() *stubLookup {
	return &stubLookup{dependents: make(map[string]map[Ref][]uuid.UUID)}
}

func (s *stubLookup) add(parent Ref, dependent string, ids ...uuid.UUID) {
	if s.dependents[dependent] == nil {
		s.dependents[dependent] = make(map[Ref][]uuid.UUID)
	}
	s.dependents[dependent][parent] = ids
}

func (s *stubLookup) FindDependents(_ context.Context, dependent string, parent Ref) ([]uuid.UUID, error) {
	return s.dependents[dependent][parent], nil
}

func TestPlannerCascades(t *testing.T) {
	contact := Ref{Entity: "Contact", ID: uuid.New()}
	address := uuid.New()
	document := uuid.New()
	task := uuid.New()

	lookup := newStubLookup()
	lookup.add(contact, "Address", address)
	lookup.add(contact, "Document", document)
	lookup.add(contact, "Task", task)

	planner := NewPlanner(DefaultPolicy, lookup)
	plan, err := planner.Plan(context.Background(), contact)
	require.NoError(t, err)

	assert.Equal(t, []Ref{
		{Entity: "Address", ID: address},
		{Entity: "Document", ID: document},
		contact,
	}, plan.Deletions)
	assert.Equal(t, []Ref{{Entity: "Task", ID: task}}, plan.Nullifies)
}

func TestPlannerDeletesChildrenBeforeParents(t *testing.T) {
	cashflow := Ref{Entity: "FundCashflow", ID: uuid.New()}
	line1 := uuid.New()
	line2 := uuid.New()

	lookup := newStubLookup()
	lookup.add(cashflow, "InvestorCashflow", line1, line2)

	planner := NewPlanner(DefaultPolicy, lookup)
	plan, err := planner.Plan(context.Background(), cashflow)
	require.NoError(t, err)

	require.Len(t, plan.Deletions, 3)
	assert.Equal(t, cashflow, plan.Deletions[2])
}

func TestPlannerRestrictAbortsWholePlan(t *testing.T) {
	fund := Ref{Entity: "Fund", ID: uuid.New()}

	lookup := newStubLookup()
	lookup.add(fund, "FundReport", uuid.New())
	lookup.add(fund, "Investor", uuid.New())

	planner := NewPlanner(DefaultPolicy, lookup)
	plan, err := planner.Plan(context.Background(), fund)
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, shared.ErrDeleteRestricted))
}

func TestPlannerNoDependents(t *testing.T) {
	group := Ref{Entity: "MandateGroup", ID: uuid.New()}

	planner := NewPlanner(DefaultPolicy, newStubLookup())
	plan, err := planner.Plan(context.Background(), group)
	require.NoError(t, err)
	assert.Equal(t, []Ref{group}, plan.Deletions)
	assert.Empty(t, plan.Nullifies)
}
