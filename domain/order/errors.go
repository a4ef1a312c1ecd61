/*
Package order - 订单领域错误定义

设计原则:
1. 使用哨兵错误(sentinel errors)支持 errors.Is() 类型安全判断
2. 错误构造函数在创建时捕获堆栈，便于定位错误发生点
3. 不包含 HTTP 状态码等非领域概念

访问控制错误不区分"不存在"与"无权限"，避免泄露订单是否存在。
*/
package order

import (
	"errors"

	"orderservice/domain/shared"
)

var (
	// ErrOrderNotFound 订单未找到
	ErrOrderNotFound = errors.New("order not found")

	// ErrAccessDenied 无权访问或操作订单
	ErrAccessDenied = errors.New("access denied")
)

// 访问控制失败时返回给调用方的消息
const (
	msgCannotCreate       = "You do not have rights to create this order"
	msgCannotAccess       = "You do not have rights to access this order"
	msgCannotManage       = "You do not have rights to manage this order"
	msgCannotAccessOrders = "You do not have rights to access these orders"
)

// NewOrderNotFoundError 创建订单未找到错误（带堆栈）
// 返回的错误支持:
//   - errors.Is(err, ErrOrderNotFound)
//   - errors.Is(err, shared.ErrNotFound)
//   - err.(shared.Stacker).Stack() 获取堆栈
func NewOrderNotFoundError(orderID string) error {
	return &orderDomainError{
		sentinel: ErrOrderNotFound,
		kind:     shared.ErrNotFound,
		entity:   "order",
		message:  "Order with id " + orderID + " not found",
		stack:    shared.CaptureStack(3),
	}
}

// NewAccessDeniedError 创建访问拒绝错误
func NewAccessDeniedError(message string) error {
	return &orderDomainError{
		sentinel: ErrAccessDenied,
		kind:     shared.ErrForbidden,
		entity:   "order",
		message:  message,
		stack:    shared.CaptureStack(3),
	}
}

// orderDomainError 订单领域错误（带堆栈）
type orderDomainError struct {
	sentinel error // 订单哨兵错误
	kind     error // 共享分类哨兵
	entity   string
	message  string
	stack    []uintptr
}

func (e *orderDomainError) Error() string {
	return e.message
}

func (e *orderDomainError) Unwrap() error {
	return e.sentinel
}

func (e *orderDomainError) Is(target error) bool {
	return target == e.kind
}

// Stack 实现 shared.Stacker 接口
func (e *orderDomainError) Stack() []string {
	if len(e.stack) == 0 {
		return nil
	}
	return shared.FormatStack(e.stack)
}

// NewBatchAccessDeniedError 批量访问被拒绝
func NewBatchAccessDeniedError() error {
	return NewAccessDeniedError(msgCannotAccessOrders)
}
