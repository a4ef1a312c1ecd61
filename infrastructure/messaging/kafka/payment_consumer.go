package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"orderservice/domain/payment"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence"
	"orderservice/infrastructure/persistence/retry"
	"orderservice/pkg/logger"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Dead-letter reasons
const (
	ReasonMalformed    = "malformed"
	ReasonNonRetryable = "non_retryable"
	ReasonExhausted    = "retries_exhausted"
)

const fetchErrorBackoff = 2 * time.Second

// PaymentHandler decides what a payment event means for its order
type PaymentHandler interface {
	Handle(ctx context.Context, event payment.Event) error
}

// PaymentConsumer delivers payment events to a PaymentHandler.
//
// Handling errors are retried with backoff unless classified payment.ErrNonRetryable.
// A message that cannot be handled is written to the dead-letter topic, after which its
// offset is committed. A message is never committed before it was handled or dead-lettered.
type PaymentConsumer struct {
	reader     messageReader
	deadLetter messageWriter
	handler    PaymentHandler
	retry      retry.Config
	metrics    *metrics.Metrics
}

func NewPaymentConsumer(reader messageReader, deadLetter messageWriter, handler PaymentHandler, retryConfig retry.Config, m *metrics.Metrics) *PaymentConsumer {
	retryConfig.RetryPredicate = func(err error) bool {
		return !payment.IsNonRetryable(err)
	}
	return &PaymentConsumer{
		reader:     reader,
		deadLetter: deadLetter,
		handler:    handler,
		retry:      retryConfig,
		metrics:    m,
	}
}

// Run consumes until ctx is cancelled. It returns an error only when a message can be
// neither handled nor dead-lettered, leaving it uncommitted for redelivery.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	logger.Info("Payment consumer started")
	defer logger.Info("Payment consumer stopped")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to fetch payment message", zap.Error(err))
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(fetchErrorBackoff):
			}
			continue
		}

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			logger.Error("Failed to commit payment message",
				zap.Int("partition", msg.Partition),
				zap.Int64("offset", msg.Offset),
				zap.Error(err))
		}
	}
}

// process handles one message. A nil return means the offset may be committed.
func (c *PaymentConsumer) process(ctx context.Context, msg kafka.Message) error {
	requestID := headerValue(msg, HeaderRequestID)
	if requestID == "" {
		requestID = fmt.Sprintf("%s-%d-%d", msg.Topic, msg.Partition, msg.Offset)
	}
	ctx = persistence.ContextWithRequestID(ctx, requestID)
	log := logger.FromContext(ctx).With(
		zap.String("topic", msg.Topic),
		zap.Int("partition", msg.Partition),
		zap.Int64("offset", msg.Offset))

	var event payment.Event
	if err := json.Unmarshal(msg.Value, &event); err != nil || event.OrderID == "" {
		if err == nil {
			err = errors.New("payment event without orderId")
		}
		log.Warn("Malformed payment event", zap.Error(err))
		c.metrics.PaymentEvent(metrics.OutcomeMalformed)
		return c.sendToDeadLetter(ctx, msg, ReasonMalformed, err)
	}
	log = log.With(zap.String("order_id", event.OrderID), zap.String("status", string(event.Status)))

	err := retry.ExecuteWithRetry(ctx, c.retry, func(ctx context.Context) error {
		return c.handler.Handle(ctx, event)
	})
	if err == nil {
		if event.IsPaid() {
			c.metrics.PaymentEvent(metrics.OutcomeProcessed)
		} else {
			c.metrics.PaymentEvent(metrics.OutcomeIgnored)
		}
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	reason := ReasonExhausted
	if payment.IsNonRetryable(err) {
		reason = ReasonNonRetryable
	}
	log.Error("Payment event could not be handled", zap.String("reason", reason), zap.Error(err))
	return c.sendToDeadLetter(ctx, msg, reason, err)
}

func (c *PaymentConsumer) sendToDeadLetter(ctx context.Context, msg kafka.Message, reason string, cause error) error {
	dlt := kafka.Message{
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: deadLetterHeaders(msg, reason, cause),
		Time:    time.Now().UTC(),
	}
	if err := c.deadLetter.WriteMessages(ctx, dlt); err != nil {
		return fmt.Errorf("failed to dead-letter payment message at offset %d: %w", msg.Offset, err)
	}
	c.metrics.PaymentEvent(metrics.OutcomeDeadLetter)
	logger.FromContext(ctx).Warn("Payment message dead-lettered",
		zap.String("reason", reason),
		zap.Int64("offset", msg.Offset))
	return nil
}

// Close closes the reader and the dead-letter writer
func (c *PaymentConsumer) Close() error {
	return errors.Join(c.reader.Close(), c.deadLetter.Close())
}
