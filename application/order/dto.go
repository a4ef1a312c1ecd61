package order

import "orderservice/domain/user"

// CreateOrderRequest 表示创建订单的入参。
type CreateOrderRequest struct {
	UserID     string             `json:"userId" binding:"required"`
	OrderItems []OrderItemRequest `json:"orderItems" binding:"required,min=1,dive"`
}

// OrderItemRequest 表示订单中的单个商品项。
type OrderItemRequest struct {
	ItemID   string `json:"itemId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// UpdateOrderRequest 表示更新订单入参，订单项整体替换。
type UpdateOrderRequest struct {
	OrderItems []OrderItemRequest `json:"orderItems" binding:"required,dive"`
}

// ChangeStatusRequest 表示修改订单状态入参。
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// OrderResponse 表示订单返回模型，UserData 在用户未知时省略。
type OrderResponse struct {
	ID           string              `json:"id"`
	UserID       string              `json:"userId"`
	Status       string              `json:"status"`
	CreationDate string              `json:"creationDate"`
	OrderItems   []OrderItemResponse `json:"orderItems"`
	UserData     *user.Snapshot      `json:"userData,omitempty"`
}

// OrderItemResponse 表示订单项返回模型。
type OrderItemResponse struct {
	Item     ItemResponse `json:"item"`
	Quantity int          `json:"quantity"`
}

// ItemResponse 表示下单时的商品快照。
type ItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}
