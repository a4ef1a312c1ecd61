/*
Package payment Application Layer - reacts to payment notifications.
*/
package payment

import (
	"context"
	"errors"

	apporder "orderservice/application/order"
	"orderservice/domain/order"
	"orderservice/domain/payment"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

// StatusChanger is the slice of the order lifecycle the handler needs
type StatusChanger interface {
	ChangeStatus(ctx context.Context, id string, status order.Status) (*apporder.OrderResponse, error)
}

// Handler applies payment events to orders
type Handler struct {
	orders StatusChanger
}

// NewHandler creates a payment event handler
func NewHandler(orders StatusChanger) *Handler {
	return &Handler{orders: orders}
}

// Handle marks the order PAID when the payment is confirmed; any other status is ignored.
// An unknown order is reported as non-retryable.
func (h *Handler) Handle(ctx context.Context, event payment.Event) error {
	log := logger.FromContext(ctx).With(
		zap.String("order_id", event.OrderID),
		zap.String("payment_status", string(event.Status)),
	)

	if !event.IsPaid() {
		log.Debug("Payment event ignored")
		return nil
	}

	if _, err := h.orders.ChangeStatus(ctx, event.OrderID, order.StatusPaid); err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			return payment.NonRetryable(err)
		}
		return err
	}

	log.Info("Order marked as paid")
	return nil
}

