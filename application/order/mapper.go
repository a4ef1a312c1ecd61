package order

import (
	"orderservice/domain/order"
)

const dateLayout = "2006-01-02"

func toLineRequests(items []OrderItemRequest) []order.LineRequest {
	requests := make([]order.LineRequest, len(items))
	for i, item := range items {
		requests[i] = order.LineRequest{
			ItemID:   item.ItemID,
			Quantity: item.Quantity,
		}
	}
	return requests
}

func toOrderResponse(o *order.Order) *OrderResponse {
	lines := o.Lines()
	items := make([]OrderItemResponse, len(lines))
	for i, line := range lines {
		item := line.Item()
		items[i] = OrderItemResponse{
			Item: ItemResponse{
				ID:    item.ID(),
				Name:  item.Name(),
				Price: item.Price(),
			},
			Quantity: line.Quantity(),
		}
	}

	return &OrderResponse{
		ID:           o.ID(),
		UserID:       o.UserID(),
		Status:       string(o.Status()),
		CreationDate: o.CreationDate().Format(dateLayout),
		OrderItems:   items,
	}
}
