package memory

import (
	"context"

	"orderservice/domain/shared"
	"orderservice/infrastructure/persistence"
)

// UnitOfWork runs fn directly: every repository call is already atomic in memory.
// After-commit hooks run once fn succeeds.
type UnitOfWork struct{}

func NewUnitOfWork() *UnitOfWork {
	return &UnitOfWork{}
}

func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, hooks := persistence.ContextWithCommitHooks(ctx)
	if txCtx == ctx {
		// joined an outer unit of work, which owns the hooks
		return fn(ctx)
	}
	if err := fn(txCtx); err != nil {
		hooks.Discard()
		return err
	}
	hooks.Run(ctx)
	return nil
}

var _ shared.UnitOfWork = (*UnitOfWork)(nil)
