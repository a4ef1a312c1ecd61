package catalog

import (
	"errors"

	"orderservice/domain/shared"
)

// ErrItemNotFound 商品不存在
var ErrItemNotFound = errors.New("item not found")

// NewItemNotFoundError 创建商品未找到错误（带堆栈）
// 支持 errors.Is(err, ErrItemNotFound) 与 errors.Is(err, shared.ErrNotFound)
func NewItemNotFoundError(itemID string) error {
	return &itemError{
		message: "Item with id " + itemID + " not found",
		stack:   shared.CaptureStack(3),
	}
}

type itemError struct {
	message string
	stack   []uintptr
}

func (e *itemError) Error() string { return e.message }

func (e *itemError) Is(target error) bool {
	return target == ErrItemNotFound || target == shared.ErrNotFound
}

func (e *itemError) Stack() []string { return shared.FormatStack(e.stack) }
