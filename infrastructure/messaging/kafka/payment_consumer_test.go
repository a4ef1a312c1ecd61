package kafka

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"orderservice/domain/order"
	"orderservice/domain/payment"
	"orderservice/infrastructure/metrics"
	"orderservice/infrastructure/persistence/retry"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedHandler returns the queued errors in order, then nil
type scriptedHandler struct {
	mu     sync.Mutex
	errs   []error
	events []payment.Event
}

func (h *scriptedHandler) Handle(ctx context.Context, event payment.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	if len(h.errs) == 0 {
		return nil
	}
	err := h.errs[0]
	h.errs = h.errs[1:]
	return err
}

func (h *scriptedHandler) calls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.events)
}

func testRetryConfig() retry.Config {
	cfg := retry.DefaultConfig
	cfg.MaxAttempts = 3
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func paymentMessage(offset int64, value string) kafka.Message {
	return kafka.Message{Topic: "PAYMENT_CREATED", Partition: 0, Offset: offset, Key: []byte("o-1"), Value: []byte(value)}
}

// runUntilDrained runs the consumer until every queued message was fetched and processed
func runUntilDrained(t *testing.T, c *PaymentConsumer, r *fakeReader) error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	select {
	case <-r.drained:
	case err := <-done:
		cancel()
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not drain the queue")
	}
	cancel()
	return <-done
}

func newTestConsumer(r *fakeReader, dlt *fakeWriter, h PaymentHandler) (*PaymentConsumer, *metrics.Metrics) {
	m := metrics.New("test", prometheus.NewRegistry())
	return NewPaymentConsumer(r, dlt, h, testRetryConfig(), m), m
}

func TestPaymentConsumerCommitsHandledMessages(t *testing.T) {
	reader := newFakeReader(
		paymentMessage(1, `{"orderId":"o-1","status":"PAID"}`),
		paymentMessage(2, `{"orderId":"o-1","status":"FAILED"}`),
	)
	dlt := newFakeWriter()
	handler := &scriptedHandler{}
	consumer, m := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Len(t, reader.commits(), 2)
	assert.Empty(t, dlt.snapshot())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentEvents.WithLabelValues(metrics.OutcomeProcessed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentEvents.WithLabelValues(metrics.OutcomeIgnored)))
}

func TestPaymentConsumerDeadLettersNonRetryable(t *testing.T) {
	reader := newFakeReader(paymentMessage(7, `{"orderId":"o-404","status":"PAID"}`))
	dlt := newFakeWriter()
	handler := &scriptedHandler{errs: []error{payment.NonRetryable(order.NewOrderNotFoundError("o-404"))}}
	consumer, _ := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Equal(t, 1, handler.calls(), "non-retryable errors are not retried")
	dead := dlt.snapshot()
	require.Len(t, dead, 1)
	assert.Equal(t, ReasonNonRetryable, headerValue(dead[0], HeaderDLTReason))
	assert.Equal(t, "7", headerValue(dead[0], HeaderDLTOriginalOffset))
	assert.Contains(t, headerValue(dead[0], HeaderDLTException), "Order with id o-404 not found")
	assert.Len(t, reader.commits(), 1)
}

func TestPaymentConsumerRetriesTransientErrors(t *testing.T) {
	reader := newFakeReader(paymentMessage(1, `{"orderId":"o-1","status":"PAID"}`))
	dlt := newFakeWriter()
	transient := errors.New("database unavailable")
	handler := &scriptedHandler{errs: []error{transient, transient}}
	consumer, _ := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Equal(t, 3, handler.calls())
	assert.Empty(t, dlt.snapshot())
	assert.Len(t, reader.commits(), 1)
}

func TestPaymentConsumerDeadLettersAfterExhaustion(t *testing.T) {
	reader := newFakeReader(paymentMessage(1, `{"orderId":"o-1","status":"PAID"}`))
	dlt := newFakeWriter()
	transient := errors.New("database unavailable")
	handler := &scriptedHandler{errs: []error{transient, transient, transient, transient}}
	consumer, _ := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Equal(t, 3, handler.calls())
	dead := dlt.snapshot()
	require.Len(t, dead, 1)
	assert.Equal(t, ReasonExhausted, headerValue(dead[0], HeaderDLTReason))
}

func TestPaymentConsumerDeadLettersMalformedPayloads(t *testing.T) {
	reader := newFakeReader(
		paymentMessage(1, `not json`),
		paymentMessage(2, `{"status":"PAID"}`),
	)
	dlt := newFakeWriter()
	handler := &scriptedHandler{}
	consumer, _ := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Equal(t, 0, handler.calls())
	dead := dlt.snapshot()
	require.Len(t, dead, 2)
	assert.Equal(t, ReasonMalformed, headerValue(dead[0], HeaderDLTReason))
	assert.Equal(t, []byte(`not json`), dead[0].Value)
	assert.Len(t, reader.commits(), 2)
}

func TestPaymentConsumerIgnoresUnrecognizedStatusShapes(t *testing.T) {
	reader := newFakeReader(
		paymentMessage(1, `{"orderId":"o-1","status":5}`),
		paymentMessage(2, `{"orderId":"o-1","status":null}`),
		paymentMessage(3, `{"orderId":"o-1"}`),
	)
	dlt := newFakeWriter()
	handler := &scriptedHandler{}
	consumer, m := newTestConsumer(reader, dlt, handler)

	require.NoError(t, runUntilDrained(t, consumer, reader))

	assert.Empty(t, dlt.snapshot())
	assert.Len(t, reader.commits(), 3)
	require.Equal(t, 3, handler.calls())
	for _, ev := range handler.events {
		assert.Equal(t, payment.StatusUnknown, ev.Status)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PaymentEvents.WithLabelValues(metrics.OutcomeIgnored)))
}

func TestPaymentConsumerStopsWhenDeadLetterFails(t *testing.T) {
	reader := newFakeReader(paymentMessage(3, `garbage`))
	dlt := newFakeWriter()
	dlt.err = errors.New("broker down")
	consumer, _ := newTestConsumer(reader, dlt, &scriptedHandler{})

	err := runUntilDrained(t, consumer, reader)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "offset 3")
	assert.Empty(t, reader.commits(), "message must stay uncommitted for redelivery")
}
