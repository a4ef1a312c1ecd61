package shared

import "context"

// UnitOfWork 管理事务边界
// fn 收到的 ctx 携带事务，仓储通过它参与同一事务；fn 可能因可重试错误被多次执行
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
}
