/*
Package kafka carries order and payment events over Kafka with segmentio/kafka-go.

Outbound: OrderCreatedPublisher writes ORDER_CREATED events keyed by order id.
Inbound: PaymentConsumer reads PAYMENT_CREATED events, retries failed handling and
moves messages it cannot process to the dead-letter topic before committing them.
*/
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"orderservice/pkg/logger"

	"github.com/segmentio/kafka-go"
)

var ErrDisabled = errors.New("kafka disabled")

// messageWriter is the part of *kafka.Writer the publishers use
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// messageReader is the part of *kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Client struct {
	Brokers []string
}

func NewClient(brokersCSV string) *Client {
	brokers := []string{}
	for _, b := range strings.Split(brokersCSV, ",") {
		b = strings.TrimSpace(b)
		if b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Client{Brokers: brokers}
}

func (c *Client) Enabled() bool {
	return len(c.Brokers) > 0
}

// NewWriter returns a synchronous writer hashing keys to partitions, so all
// messages of one order land on the same partition
func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(c.Brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		Logger:                 logger.KafkaLogger("kafka-writer"),
		ErrorLogger:            logger.KafkaErrorLogger("kafka-writer"),
	}
}

// NewReader returns a consumer-group reader; offsets are committed explicitly
func (c *Client) NewReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:     c.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.FirstOffset,
		Logger:      logger.KafkaLogger("kafka-reader"),
		ErrorLogger: logger.KafkaErrorLogger("kafka-reader"),
	})
}

// Ping dials the first reachable broker
func (c *Client) Ping(ctx context.Context) error {
	if !c.Enabled() {
		return ErrDisabled
	}
	var lastErr error
	for _, broker := range c.Brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		return conn.Close()
	}
	return fmt.Errorf("no kafka broker reachable: %w", lastErr)
}

func PublishJSON(ctx context.Context, writer messageWriter, key string, payload any, headers ...kafka.Header) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: headers,
		Time:    time.Now().UTC(),
	})
}
