package shared

import "context"

// UnitOfWork runs a mutation and its audit trail as one atomic unit: every
// repository write issued inside fn commits together or not at all.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopUnitOfWork runs the function without a transaction boundary. Useful
// for tests that mock the repositories out.
type NopUnitOfWork struct{}

func (NopUnitOfWork) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
