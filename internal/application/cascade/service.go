package cascade

import (
	"context"

	"github.com/rmcsharry/hq-api/internal/domain/cascade"
)

// Executor applies a computed deletion plan. Implementations run every
// delete and nullify of the plan in one database transaction.
type Executor interface {
	Apply(ctx context.Context, plan *cascade.Plan) error
}

// Service plans and executes cascading deletions. The full deletion set is
// computed before anything is touched, so a restrict rule anywhere in the
// graph aborts with no partial deletes.
type Service struct {
	planner  *cascade.Planner
	executor Executor
}

// NewService creates a cascade deletion service
func NewService(planner *cascade.Planner, executor Executor) *Service {
	return &Service{planner: planner, executor: executor}
}

// Delete removes the record and its dependents per the deletion policy
func (s *Service) Delete(ctx context.Context, root cascade.Ref) (*cascade.Plan, error) {
	plan, err := s.planner.Plan(ctx, root)
	if err != nil {
		return nil, err
	}
	if err := s.executor.Apply(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}
