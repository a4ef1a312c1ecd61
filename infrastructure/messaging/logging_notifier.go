// Package messaging holds transport-neutral notifier implementations.
package messaging

import (
	"context"

	"orderservice/domain/order"
	"orderservice/infrastructure/metrics"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

// LoggingNotifier stands in for the Kafka publisher when no broker is configured
type LoggingNotifier struct {
	metrics *metrics.Metrics
}

func NewLoggingNotifier(m *metrics.Metrics) *LoggingNotifier {
	return &LoggingNotifier{metrics: m}
}

func (n *LoggingNotifier) NotifyCreated(ctx context.Context, event order.CreatedEvent) {
	logger.FromContext(ctx).Info("Order created",
		zap.String("event", event.EventName()),
		zap.String("order_id", event.OrderID),
		zap.String("user_id", event.UserID),
		zap.Int64("payment_amount", event.PaymentAmount))
	n.metrics.Notification(metrics.OutcomeLoggedOnly)
}

var _ order.CreatedNotifier = (*LoggingNotifier)(nil)
