package mysql

import (
	"context"
	"fmt"

	"orderservice/domain/shared"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/persistence/retry"

	"gorm.io/gorm"
)

// UnitOfWork implements the Unit of Work pattern with GORM
type UnitOfWork struct {
	db          *gorm.DB
	retryConfig retry.Config
}

// NewUnitOfWork creates a new UnitOfWork instance
func NewUnitOfWork(db *gorm.DB, retryConfig retry.Config) *UnitOfWork {
	return &UnitOfWork{
		db:          db,
		retryConfig: retryConfig,
	}
}

// Execute runs the business logic inside a database transaction
// It:
// 1. Begins a transaction
// 2. Injects the transaction into context for repositories to use
// 3. Commits on success, rolls back on error
// 4. Runs the after-commit hooks registered by repositories, or drops them on rollback
// 5. Retries the whole attempt on deadlocks and lock wait timeouts
//
// An outer transaction already present in ctx is joined instead of nested.
func (u *UnitOfWork) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}

	executeOnce := func(ctx context.Context) error {
		tx := u.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("failed to begin transaction: %w", tx.Error)
		}

		txCtx, hooks := persistence.ContextWithCommitHooks(persistence.ContextWithTx(ctx, tx))
		if err := fn(txCtx); err != nil {
			tx.Rollback()
			hooks.Discard()
			return err
		}

		if err := tx.Commit().Error; err != nil {
			hooks.Discard()
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		hooks.Run(ctx)
		return nil
	}

	return retry.ExecuteWithRetry(ctx, u.retryConfig, executeOnce)
}

// Compile-time check that UnitOfWork implements shared.UnitOfWork
var _ shared.UnitOfWork = (*UnitOfWork)(nil)
