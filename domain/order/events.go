package order

import (
	"context"

	"orderservice/domain/shared"
)

// CreatedEvent announces a newly persisted order. PaymentAmount is fixed at creation
// and never recomputed.
type CreatedEvent struct {
	OrderID       string `json:"orderId"`
	UserID        string `json:"userId"`
	PaymentAmount int64  `json:"paymentAmount"`
}

// NewCreatedEvent builds the event from the order and the amount computed from its resolved lines
func NewCreatedEvent(o *Order, paymentAmount int64) CreatedEvent {
	return CreatedEvent{
		OrderID:       o.ID(),
		UserID:        o.UserID(),
		PaymentAmount: paymentAmount,
	}
}

func (e CreatedEvent) EventName() string      { return "order.created" }
func (e CreatedEvent) GetAggregateID() string { return e.OrderID }

var _ shared.DomainEvent = CreatedEvent{}

// CreatedNotifier publishes CreatedEvent without blocking the caller.
// Delivery failures are the notifier's concern and are never reported back.
type CreatedNotifier interface {
	NotifyCreated(ctx context.Context, event CreatedEvent)
}
