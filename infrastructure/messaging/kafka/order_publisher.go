package kafka

import (
	"context"
	"sync"
	"time"

	"orderservice/domain/order"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence"
	"orderservice/pkg/logger"

	"go.uber.org/zap"
)

const defaultPublishTimeout = 5 * time.Second

// OrderCreatedPublisher implements order.CreatedNotifier on top of a Kafka writer.
// Each event is written from its own goroutine; failures are logged and counted, never returned.
type OrderCreatedPublisher struct {
	writer  messageWriter
	topic   string
	timeout time.Duration
	metrics *metrics.Metrics

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewOrderCreatedPublisher(writer messageWriter, topic string, timeout time.Duration, m *metrics.Metrics) *OrderCreatedPublisher {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &OrderCreatedPublisher{
		writer:  writer,
		topic:   topic,
		timeout: timeout,
		metrics: m,
	}
}

// NotifyCreated returns immediately. The write outlives the caller's context cancellation
// but is bounded by the publish timeout.
func (p *OrderCreatedPublisher) NotifyCreated(ctx context.Context, event order.CreatedEvent) {
	log := logger.FromContext(ctx).With(
		zap.String("topic", p.topic),
		zap.String("order_id", event.OrderID))

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		log.Warn("Publisher closed, dropping order created event")
		p.metrics.Notification(metrics.OutcomeFailed)
		return
	}
	p.wg.Add(1)
	p.mu.Unlock()

	requestID := persistence.RequestIDFromContext(ctx)
	go func() {
		defer p.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
		defer cancel()

		if err := PublishJSON(pubCtx, p.writer, event.GetAggregateID(), event, eventHeaders(event, requestID)...); err != nil {
			log.Error("Failed to publish order created event", zap.Error(err))
			p.metrics.Notification(metrics.OutcomeFailed)
			return
		}
		log.Debug("Order created event published", zap.Int64("payment_amount", event.PaymentAmount))
		p.metrics.Notification(metrics.OutcomePublished)
	}()
}

// Close waits for in-flight writes and closes the writer
func (p *OrderCreatedPublisher) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.wg.Wait()
	return p.writer.Close()
}

var _ order.CreatedNotifier = (*OrderCreatedPublisher)(nil)
