package persistence

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// txKey is the context key for storing the transaction
type txKey struct{}

// afterCommitKey is the context key for the hooks of the running unit of work
type afterCommitKey struct{}

// requestIDKey is the context key for the inbound request or message id
type requestIDKey struct{}

// TxFromContext retrieves the GORM transaction from context
// Returns nil if no transaction is present
func TxFromContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return nil
}

// ContextWithTx returns a new context with the GORM transaction attached
func ContextWithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// ContextWithRequestID attaches a request id so that SQL, HTTP client and messaging logs can be correlated
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// RequestIDFromContext returns the request id attached to ctx, or ""
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

// CommitHooks collects callbacks that must only run once a unit of work has committed
type CommitHooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// ContextWithCommitHooks starts collecting after-commit callbacks for work done with the returned ctx.
// An outer collector already present in ctx is reused.
func ContextWithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	if hooks, ok := ctx.Value(afterCommitKey{}).(*CommitHooks); ok {
		return ctx, hooks
	}
	hooks := &CommitHooks{}
	return context.WithValue(ctx, afterCommitKey{}, hooks), hooks
}

// AfterCommit defers fn until the enclosing unit of work commits.
// Outside a unit of work fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	hooks, ok := ctx.Value(afterCommitKey{}).(*CommitHooks)
	if !ok {
		fn(ctx)
		return
	}
	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

// Run executes and clears the collected callbacks in registration order
func (h *CommitHooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// Discard drops the collected callbacks after a rollback
func (h *CommitHooks) Discard() {
	h.mu.Lock()
	h.fns = nil
	h.mu.Unlock()
}
